package models

import "time"

// ReviewHistoryRecord is an immutable snapshot of a round taken when it was
// completed or rejected. Versions are scoped per task and strictly
// increasing, which gives a total order of rounds even though the task row
// itself is reused. Task and suite references are nullable so records
// survive deletion of their origin.
type ReviewHistoryRecord struct {
	HistoryID       int               `gorm:"primaryKey;column:history_id" json:"history_id"`
	TaskID          *int              `gorm:"column:task_id;uniqueIndex:uk_task_version" json:"task_id,omitempty"`
	SuiteID         *int              `gorm:"column:suite_id;index" json:"suite_id,omitempty"`
	InitiatorID     int               `gorm:"column:initiator_id" json:"initiator_id"`
	ReviewerID      int               `gorm:"column:reviewer_id" json:"reviewer_id"`
	State           ReviewTaskState   `gorm:"column:state" json:"state"`
	StartTime       *time.Time        `gorm:"column:start_time" json:"start_time,omitempty"`
	EndTime         *time.Time        `gorm:"column:end_time" json:"end_time,omitempty"`
	OverallComments *string           `gorm:"column:overall_comments" json:"overall_comments,omitempty"`
	HistoryType     ReviewHistoryType `gorm:"column:history_type" json:"history_type"`
	ActedBy         int               `gorm:"column:acted_by" json:"acted_by"`
	Version         int               `gorm:"column:version;uniqueIndex:uk_task_version" json:"version"`
	CreatedAt       time.Time         `gorm:"column:created_at" json:"created_at"`

	Initiator *User                    `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	Reviewer  *User                    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Cases     []CaseReviewHistoryEntry `gorm:"foreignKey:HistoryID" json:"cases,omitempty"`
}

// CaseReviewHistoryEntry is the per-case part of a history record. Case
// content is copied by value at snapshot time so later edits or deletion of
// the live case cannot change the evidence.
type CaseReviewHistoryEntry struct {
	ID             int              `gorm:"primaryKey;column:id" json:"id"`
	HistoryID      int              `gorm:"column:history_id;index" json:"history_id"`
	CaseID         *int             `gorm:"column:case_id" json:"case_id,omitempty"`
	ReviewStatus   CaseReviewStatus `gorm:"column:review_status" json:"review_status"`
	Comments       *string          `gorm:"column:comments" json:"comments,omitempty"`
	CaseNo         string           `gorm:"column:case_no" json:"case_no"`
	CaseName       string           `gorm:"column:case_name" json:"case_name"`
	Priority       string           `gorm:"column:priority" json:"priority"`
	TestData       *string          `gorm:"column:test_data" json:"test_data,omitempty"`
	Precondition   *string          `gorm:"column:precondition" json:"precondition,omitempty"`
	Steps          *string          `gorm:"column:steps" json:"steps,omitempty"`
	ExpectedResult *string          `gorm:"column:expected_result" json:"expected_result,omitempty"`
	ActualResult   *string          `gorm:"column:actual_result" json:"actual_result,omitempty"`
	CreatedAt      time.Time        `gorm:"column:created_at" json:"created_at"`

	History *ReviewHistoryRecord `gorm:"foreignKey:HistoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for ReviewHistoryRecord.
func (ReviewHistoryRecord) TableName() string {
	return "review_history_records"
}

// TableName specifies the table name for CaseReviewHistoryEntry.
func (CaseReviewHistoryEntry) TableName() string {
	return "case_review_history_entries"
}
