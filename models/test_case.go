package models

import "time"

// TestCase represents the test_cases table. Editable content lives here;
// the review workflow only writes back reviewer_id, review_comments and
// last_reviewed_at when a round completes.
type TestCase struct {
	CaseID         int        `gorm:"primaryKey;column:case_id" json:"case_id"`
	SuiteID        int        `gorm:"column:suite_id;index" json:"suite_id"`
	CaseNo         string     `gorm:"column:case_no" json:"case_no"`
	CaseName       string     `gorm:"column:case_name" json:"case_name"`
	Priority       string     `gorm:"column:priority" json:"priority"`
	TestData       *string    `gorm:"column:test_data" json:"test_data,omitempty"`
	Precondition   *string    `gorm:"column:precondition" json:"precondition,omitempty"`
	Steps          *string    `gorm:"column:steps" json:"steps,omitempty"`
	ExpectedResult *string    `gorm:"column:expected_result" json:"expected_result,omitempty"`
	ActualResult   *string    `gorm:"column:actual_result" json:"actual_result,omitempty"`
	ReviewerID     *int       `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	ReviewComments *string    `gorm:"column:review_comments" json:"review_comments,omitempty"`
	LastReviewedAt *time.Time `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	CreatedBy      *int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt      *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
}

// TableName specifies the table name for TestCase.
func (TestCase) TableName() string {
	return "test_cases"
}
