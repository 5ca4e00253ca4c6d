package models

import "time"

// Suite type discriminator. Folders only group other suites; review rounds
// can be started on reviewable suites only.
const (
	SuiteTypeFolder = "folder"
	SuiteTypeSuite  = "suite"
)

// TestSuite represents the test_suites table.
type TestSuite struct {
	SuiteID       int        `gorm:"primaryKey;column:suite_id" json:"suite_id"`
	ProjectID     int        `gorm:"column:project_id" json:"project_id"`
	IterationID   *int       `gorm:"column:iteration_id" json:"iteration_id,omitempty"`
	RequirementID *int       `gorm:"column:requirement_id" json:"requirement_id,omitempty"`
	ParentID      *int       `gorm:"column:parent_id" json:"parent_id,omitempty"`
	SuiteName     string     `gorm:"column:suite_name" json:"suite_name"`
	SuiteType     string     `gorm:"column:suite_type" json:"suite_type"`
	CreatedBy     *int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Project     *Project            `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Iteration   *Iteration          `gorm:"foreignKey:IterationID" json:"iteration,omitempty"`
	Requirement *VersionRequirement `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
}

// TableName specifies the table name for TestSuite.
func (TestSuite) TableName() string {
	return "test_suites"
}

// Reviewable reports whether a review round may be started on this suite.
func (s *TestSuite) Reviewable() bool {
	return s.SuiteType == SuiteTypeSuite
}
