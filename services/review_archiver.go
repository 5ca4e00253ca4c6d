package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"test-platform-api/models"
)

// Archiver: freezes a closed round into review_history_records plus one
// by-value case snapshot per ledger entry. It never reads or writes outside
// the round it is handed and enforces no guards of its own.

// nextHistoryVersion returns MAX(version)+1 for the task, starting at 1.
// Versions stay strictly increasing across reject/reinitiate cycles because
// history rows are never deleted while the task exists.
func nextHistoryVersion(tx *gorm.DB, taskID int) (int, error) {
	var current int
	err := tx.Model(&models.ReviewHistoryRecord{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("failed to resolve history version: %w", err)
	}
	return current + 1, nil
}

func buildHistoryRecord(task *models.ReviewTask, historyType models.ReviewHistoryType, actedBy, version int, now time.Time) models.ReviewHistoryRecord {
	taskID := task.TaskID
	suiteID := task.SuiteID
	return models.ReviewHistoryRecord{
		TaskID:          &taskID,
		SuiteID:         &suiteID,
		InitiatorID:     task.InitiatorID,
		ReviewerID:      task.ReviewerID,
		State:           task.State,
		StartTime:       cloneTimePtr(task.StartTime),
		EndTime:         cloneTimePtr(task.EndTime),
		OverallComments: cloneStringPtr(task.OverallComments),
		HistoryType:     historyType,
		ActedBy:         actedBy,
		Version:         version,
		CreatedAt:       now,
	}
}

// buildCaseSnapshot copies the entry's decision together with the full case
// content by value. tc may be nil when the live case was already deleted;
// the snapshot then keeps the decision with empty content.
func buildCaseSnapshot(entry models.CaseReviewEntry, tc *models.TestCase, now time.Time) models.CaseReviewHistoryEntry {
	caseID := entry.CaseID
	snap := models.CaseReviewHistoryEntry{
		CaseID:       &caseID,
		ReviewStatus: entry.ReviewStatus,
		Comments:     cloneStringPtr(entry.Comments),
		CreatedAt:    now,
	}
	if tc != nil {
		snap.CaseNo = tc.CaseNo
		snap.CaseName = tc.CaseName
		snap.Priority = tc.Priority
		snap.TestData = cloneStringPtr(tc.TestData)
		snap.Precondition = cloneStringPtr(tc.Precondition)
		snap.Steps = cloneStringPtr(tc.Steps)
		snap.ExpectedResult = cloneStringPtr(tc.ExpectedResult)
		snap.ActualResult = cloneStringPtr(tc.ActualResult)
	}
	return snap
}

// snapshotRound writes the history record and its case snapshots on tx.
// The task must already carry the state being archived.
func snapshotRound(tx *gorm.DB, task *models.ReviewTask, entries []models.CaseReviewEntry, historyType models.ReviewHistoryType, actedBy int) (*models.ReviewHistoryRecord, error) {
	version, err := nextHistoryVersion(tx, task.TaskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := buildHistoryRecord(task, historyType, actedBy, version, now)
	if err := tx.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to create review history record: %w", err)
	}

	if len(entries) == 0 {
		return &record, nil
	}

	cases, err := casesByID(tx, entries)
	if err != nil {
		return nil, err
	}

	snapshots := make([]models.CaseReviewHistoryEntry, 0, len(entries))
	for _, entry := range entries {
		var tc *models.TestCase
		if found, ok := cases[entry.CaseID]; ok {
			tc = &found
		}
		snap := buildCaseSnapshot(entry, tc, now)
		snap.HistoryID = record.HistoryID
		snapshots = append(snapshots, snap)
	}
	if err := tx.Create(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to create case review snapshots: %w", err)
	}
	record.Cases = snapshots
	return &record, nil
}

// casesByID loads the live cases behind the entries. Soft-deleted cases are
// included on purpose: whatever content still exists belongs in the
// snapshot.
func casesByID(tx *gorm.DB, entries []models.CaseReviewEntry) (map[int]models.TestCase, error) {
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.CaseID)
	}
	var rows []models.TestCase
	if err := tx.Where("case_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load cases for snapshot: %w", err)
	}
	byID := make(map[int]models.TestCase, len(rows))
	for _, row := range rows {
		byID[row.CaseID] = row
	}
	return byID, nil
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
