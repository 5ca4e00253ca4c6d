package models

import "time"

// Project represents the projects table. The review workflow only reads it
// for display enrichment; project management itself lives elsewhere.
type Project struct {
	ProjectID   int        `gorm:"primaryKey;column:project_id" json:"project_id"`
	ProjectName string     `gorm:"column:project_name" json:"project_name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	CreatedBy   *int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// Iteration represents the iterations table.
type Iteration struct {
	IterationID   int        `gorm:"primaryKey;column:iteration_id" json:"iteration_id"`
	ProjectID     int        `gorm:"column:project_id" json:"project_id"`
	IterationName string     `gorm:"column:iteration_name" json:"iteration_name"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// VersionRequirement represents the version_requirements table.
type VersionRequirement struct {
	RequirementID int        `gorm:"primaryKey;column:requirement_id" json:"requirement_id"`
	ProjectID     int        `gorm:"column:project_id" json:"project_id"`
	Title         string     `gorm:"column:title" json:"title"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides
func (Project) TableName() string {
	return "projects"
}

func (Iteration) TableName() string {
	return "iterations"
}

func (VersionRequirement) TableName() string {
	return "version_requirements"
}
