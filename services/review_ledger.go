package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"test-platform-api/models"
)

// Ledger helpers: plain data access for the live per-case decisions of one
// round. All functions run on the caller's transaction; guards belong to
// the workflow service.

func createCaseEntries(tx *gorm.DB, task *models.ReviewTask, cases []models.TestCase) error {
	now := time.Now()
	entries := make([]models.CaseReviewEntry, 0, len(cases))
	for _, tc := range cases {
		entries = append(entries, models.CaseReviewEntry{
			TaskID:       task.TaskID,
			CaseID:       tc.CaseID,
			ReviewerID:   task.ReviewerID,
			ReviewStatus: models.CaseReviewPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if len(entries) == 0 {
		return nil
	}
	if err := tx.Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to create case review entries: %w", err)
	}
	return nil
}

// replaceCaseEntries drops the previous round's entries and seeds a fresh
// pending set. Used by initiate when the suite's task row is being reset.
func replaceCaseEntries(tx *gorm.DB, task *models.ReviewTask, cases []models.TestCase) error {
	if err := tx.Where("task_id = ?", task.TaskID).Delete(&models.CaseReviewEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear case review entries: %w", err)
	}
	return createCaseEntries(tx, task, cases)
}

func entriesForTask(tx *gorm.DB, taskID int) ([]models.CaseReviewEntry, error) {
	var entries []models.CaseReviewEntry
	if err := tx.Where("task_id = ?", taskID).Order("entry_id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load case review entries: %w", err)
	}
	return entries, nil
}

func entryForCase(tx *gorm.DB, taskID, caseID int) (*models.CaseReviewEntry, error) {
	var entry models.CaseReviewEntry
	err := tx.Where("task_id = ? AND case_id = ?", taskID, caseID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "case review entry for case", ID: caseID}
		}
		return nil, fmt.Errorf("failed to load case review entry: %w", err)
	}
	return &entry, nil
}

// pendingEntryCount counts entries still awaiting a decision.
func pendingEntryCount(entries []models.CaseReviewEntry) int {
	pending := 0
	for _, e := range entries {
		if !e.ReviewStatus.Reviewed() {
			pending++
		}
	}
	return pending
}

// anyEntryRejected reports whether at least one case was rejected.
func anyEntryRejected(entries []models.CaseReviewEntry) bool {
	for _, e := range entries {
		if e.ReviewStatus == models.CaseReviewRejected {
			return true
		}
	}
	return false
}
