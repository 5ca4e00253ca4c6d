package models

import "time"

// ReviewTask represents one review round for a suite. There is a single row
// per suite; reject/reinitiate cycles mutate it in place and the archived
// rounds live in review_history_records.
type ReviewTask struct {
	TaskID          int             `gorm:"primaryKey;column:task_id" json:"task_id"`
	SuiteID         int             `gorm:"column:suite_id;index" json:"suite_id"`
	InitiatorID     int             `gorm:"column:initiator_id;index" json:"initiator_id"`
	ReviewerID      int             `gorm:"column:reviewer_id;index" json:"reviewer_id"`
	State           ReviewTaskState `gorm:"column:state" json:"state"`
	StartTime       *time.Time      `gorm:"column:start_time" json:"start_time,omitempty"`
	EndTime         *time.Time      `gorm:"column:end_time" json:"end_time,omitempty"`
	OverallComments *string         `gorm:"column:overall_comments" json:"overall_comments,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at" json:"updated_at"`

	Suite     *TestSuite `gorm:"foreignKey:SuiteID" json:"suite,omitempty"`
	Initiator *User      `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	Reviewer  *User      `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// CaseReviewEntry is the live decision for one case within the current
// round. Exactly one row exists per (task, case); reject/reinitiate never
// resets it, the reviewer overwrites it in place.
type CaseReviewEntry struct {
	EntryID      int              `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	TaskID       int              `gorm:"column:task_id;uniqueIndex:uk_task_case" json:"task_id"`
	CaseID       int              `gorm:"column:case_id;uniqueIndex:uk_task_case" json:"case_id"`
	ReviewerID   int              `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewStatus CaseReviewStatus `gorm:"column:review_status" json:"review_status"`
	Comments     *string          `gorm:"column:comments" json:"comments,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at" json:"updated_at"`

	Task *ReviewTask `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Case *TestCase   `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

// TableName specifies the table name for ReviewTask.
func (ReviewTask) TableName() string {
	return "review_tasks"
}

// TableName specifies the table name for CaseReviewEntry.
func (CaseReviewEntry) TableName() string {
	return "case_review_entries"
}
