package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"test-platform-api/models"
)

// Actor identifies the user performing a transition, plus the request
// metadata recorded in the audit log.
type Actor struct {
	UserID    int
	IPAddress string
	UserAgent string
}

// ReviewWorkflowService owns the lifecycle of a suite's review round:
// initiate, per-case decisions, complete, reject, restart, reinitiate.
// Every transition is a single transaction; guards run before any write.
type ReviewWorkflowService struct {
	db *gorm.DB
}

func NewReviewWorkflowService(db *gorm.DB) *ReviewWorkflowService {
	return &ReviewWorkflowService{db: db}
}

// Initiate starts (or resets) the review round for a suite. The suite must
// be reviewable and non-empty. An existing task row is reused: its previous
// rounds stay archived in history, the live ledger is reseeded pending.
func (s *ReviewWorkflowService) Initiate(actor Actor, suiteID, reviewerID int) (*models.ReviewTask, error) {
	var task *models.ReviewTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var suite models.TestSuite
		if err := tx.Where("suite_id = ? AND deleted_at IS NULL", suiteID).First(&suite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "suite", ID: suiteID}
			}
			return fmt.Errorf("failed to load suite: %w", err)
		}
		if !suite.Reviewable() {
			return validationErrorf("suite %d is a folder and cannot be reviewed", suiteID)
		}

		var reviewer models.User
		if err := tx.Where("user_id = ? AND delete_at IS NULL", reviewerID).First(&reviewer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "reviewer", ID: reviewerID}
			}
			return fmt.Errorf("failed to load reviewer: %w", err)
		}

		var cases []models.TestCase
		if err := tx.Where("suite_id = ? AND deleted_at IS NULL", suiteID).Order("case_id ASC").Find(&cases).Error; err != nil {
			return fmt.Errorf("failed to load suite cases: %w", err)
		}
		if len(cases) == 0 {
			return validationErrorf("suite %d has no test cases to review", suiteID)
		}

		now := time.Now()

		var existing models.ReviewTask
		err := tx.Where("suite_id = ?", suiteID).First(&existing).Error
		switch {
		case err == nil:
			if existing.State == models.ReviewStatePending || existing.State == models.ReviewStateInReview {
				return validationErrorf("a review round is already in progress for suite %d", suiteID)
			}
			existing.InitiatorID = actor.UserID
			existing.ReviewerID = reviewerID
			existing.State = models.ReviewStatePending
			existing.StartTime = nil
			existing.EndTime = nil
			existing.OverallComments = nil
			existing.UpdatedAt = now
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to reset review task: %w", err)
			}
			if err := replaceCaseEntries(tx, &existing, cases); err != nil {
				return err
			}
			task = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := models.ReviewTask{
				SuiteID:     suiteID,
				InitiatorID: actor.UserID,
				ReviewerID:  reviewerID,
				State:       models.ReviewStatePending,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(&created).Error; err != nil {
				return fmt.Errorf("failed to create review task: %w", err)
			}
			if err := createCaseEntries(tx, &created, cases); err != nil {
				return err
			}
			task = &created
		default:
			return fmt.Errorf("failed to load review task: %w", err)
		}

		return writeAuditLog(tx, actor, "initiate_review", task.TaskID, map[string]interface{}{
			"suite_id":    suiteID,
			"reviewer_id": reviewerID,
			"case_count":  len(cases),
		}, "Review round initiated")
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// RecordCaseDecision writes one case's decision. The first decision of a
// pending round flips the task to in_review and stamps start_time.
func (s *ReviewWorkflowService) RecordCaseDecision(actor Actor, taskID, caseID int, status, comments string) (*models.CaseReviewEntry, error) {
	reviewStatus := models.CaseReviewStatus(status)
	if !reviewStatus.Valid() {
		return nil, validationErrorf("invalid review status %q", status)
	}

	var entry *models.CaseReviewEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		task, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		if task.ReviewerID != actor.UserID {
			return &PermissionDeniedError{Required: "the assigned reviewer"}
		}
		if !decisionAllowed(task.State) {
			return validationErrorf("review round is %s; decisions are no longer accepted", task.State)
		}

		current, err := entryForCase(tx, taskID, caseID)
		if err != nil {
			return err
		}

		now := time.Now()
		current.ReviewStatus = reviewStatus
		current.ReviewerID = actor.UserID
		current.UpdatedAt = now
		if comments != "" {
			current.Comments = &comments
		} else {
			current.Comments = nil
		}
		if err := tx.Save(current).Error; err != nil {
			return fmt.Errorf("failed to update case review entry: %w", err)
		}

		if task.State == models.ReviewStatePending {
			task.State = models.ReviewStateInReview
			task.StartTime = &now
			task.UpdatedAt = now
			if err := tx.Save(task).Error; err != nil {
				return fmt.Errorf("failed to start review round: %w", err)
			}
		}

		entry = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Complete closes the round. Every case must be decided; the verdict is
// rejected when any case was rejected, completed otherwise. The round is
// archived and each case's live review fields are written back.
func (s *ReviewWorkflowService) Complete(actor Actor, taskID int, overallComments string) (*models.ReviewTask, error) {
	var task *models.ReviewTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := loadTaskForUpdate(tx, taskID)
		if err != nil {
			return err
		}
		if locked.ReviewerID != actor.UserID {
			return &PermissionDeniedError{Required: "the assigned reviewer"}
		}
		if !completeAllowed(locked.State) {
			return validationErrorf("review round is %s and cannot be completed", locked.State)
		}

		entries, err := entriesForTask(tx, taskID)
		if err != nil {
			return err
		}
		if pending := pendingEntryCount(entries); pending > 0 {
			return validationErrorf("%d case(s) still pending review", pending)
		}

		now := time.Now()
		verdict := models.ReviewStateCompleted
		if anyEntryRejected(entries) {
			verdict = models.ReviewStateRejected
		}

		locked.State = verdict
		locked.EndTime = &now
		locked.UpdatedAt = now
		if overallComments != "" {
			locked.OverallComments = &overallComments
		}
		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("failed to close review round: %w", err)
		}

		record, err := snapshotRound(tx, locked, entries, models.HistoryTypeComplete, actor.UserID)
		if err != nil {
			return err
		}

		for _, e := range entries {
			updates := map[string]interface{}{
				"reviewer_id":      e.ReviewerID,
				"review_comments":  e.Comments,
				"last_reviewed_at": now,
			}
			if err := tx.Model(&models.TestCase{}).Where("case_id = ?", e.CaseID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to write back case review fields: %w", err)
			}
		}

		task = locked
		return writeAuditLog(tx, actor, "complete_review", taskID, map[string]interface{}{
			"verdict":         string(verdict),
			"history_version": record.Version,
			"case_count":      len(entries),
		}, "Review round completed")
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Reject closes the round as rejected, archiving whatever per-case statuses
// exist at that moment, pending ones included.
func (s *ReviewWorkflowService) Reject(actor Actor, taskID int, overallComments string) (*models.ReviewTask, error) {
	var task *models.ReviewTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := loadTaskForUpdate(tx, taskID)
		if err != nil {
			return err
		}
		if locked.ReviewerID != actor.UserID {
			return &PermissionDeniedError{Required: "the assigned reviewer"}
		}
		if !rejectAllowed(locked.State) {
			return validationErrorf("review round is %s and cannot be rejected", locked.State)
		}

		now := time.Now()
		locked.State = models.ReviewStateRejected
		if locked.EndTime == nil {
			locked.EndTime = &now
		}
		locked.UpdatedAt = now
		if overallComments != "" {
			locked.OverallComments = &overallComments
		}
		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("failed to reject review round: %w", err)
		}

		entries, err := entriesForTask(tx, taskID)
		if err != nil {
			return err
		}
		record, err := snapshotRound(tx, locked, entries, models.HistoryTypeReject, actor.UserID)
		if err != nil {
			return err
		}

		task = locked
		return writeAuditLog(tx, actor, "reject_review", taskID, map[string]interface{}{
			"history_version": record.Version,
		}, "Review round rejected")
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Restart reopens a completed round for correction. No snapshot is taken
// and the ledger is untouched; the reviewer edits the same round.
func (s *ReviewWorkflowService) Restart(actor Actor, taskID int) (*models.ReviewTask, error) {
	var task *models.ReviewTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		if current.ReviewerID != actor.UserID {
			return &PermissionDeniedError{Required: "the assigned reviewer"}
		}
		if !restartAllowed(current.State) {
			return validationErrorf("only a completed review round can be restarted, current state is %s", current.State)
		}

		now := time.Now()
		current.State = models.ReviewStateInReview
		current.UpdatedAt = now
		if err := tx.Save(current).Error; err != nil {
			return fmt.Errorf("failed to restart review round: %w", err)
		}

		task = current
		return writeAuditLog(tx, actor, "restart_review", taskID, nil, "Review round reopened")
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Reinitiate moves a rejected round back to pending so the reviewer can
// take it up again. The ledger keeps the previous decisions as the new
// starting point; end_time is cleared.
func (s *ReviewWorkflowService) Reinitiate(actor Actor, taskID int) (*models.ReviewTask, error) {
	var task *models.ReviewTask

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current, err := loadTask(tx, taskID)
		if err != nil {
			return err
		}
		if current.InitiatorID != actor.UserID {
			return &PermissionDeniedError{Required: "the initiator"}
		}
		if !reinitiateAllowed(current.State) {
			return validationErrorf("only a rejected review round can be reinitiated, current state is %s", current.State)
		}

		now := time.Now()
		current.State = models.ReviewStatePending
		current.EndTime = nil
		current.UpdatedAt = now
		if err := tx.Save(current).Error; err != nil {
			return fmt.Errorf("failed to reinitiate review round: %w", err)
		}

		task = current
		return writeAuditLog(tx, actor, "reinitiate_review", taskID, nil, "Review round reinitiated")
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Transition guards. Completed and rejected are terminal for a round but
// not for the task row: restart reopens a completed round, reinitiate a
// rejected one.
func decisionAllowed(s models.ReviewTaskState) bool {
	return s == models.ReviewStatePending || s == models.ReviewStateInReview
}

func completeAllowed(s models.ReviewTaskState) bool {
	return s == models.ReviewStateInReview
}

// rejectAllowed also accepts rejected: completing a round with a failing
// case lands the row in rejected already, and the reviewer may still reject
// it explicitly to archive the verdict with final comments.
func rejectAllowed(s models.ReviewTaskState) bool {
	return s == models.ReviewStateInReview ||
		s == models.ReviewStateCompleted ||
		s == models.ReviewStateRejected
}

func restartAllowed(s models.ReviewTaskState) bool {
	return s == models.ReviewStateCompleted
}

func reinitiateAllowed(s models.ReviewTaskState) bool {
	return s == models.ReviewStateRejected
}

func loadTask(tx *gorm.DB, taskID int) (*models.ReviewTask, error) {
	var task models.ReviewTask
	if err := tx.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "review task", ID: taskID}
		}
		return nil, fmt.Errorf("failed to load review task: %w", err)
	}
	return &task, nil
}

// loadTaskForUpdate takes a row lock on the task so concurrent terminal
// transitions serialize instead of both passing their guards.
func loadTaskForUpdate(tx *gorm.DB, taskID int) (*models.ReviewTask, error) {
	var task models.ReviewTask
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("task_id = ?", taskID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "review task", ID: taskID}
		}
		return nil, fmt.Errorf("failed to load review task: %w", err)
	}
	return &task, nil
}

func writeAuditLog(tx *gorm.DB, actor Actor, action string, taskID int, values map[string]interface{}, description string) error {
	entityID := taskID
	audit := models.AuditLog{
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  "review_task",
		EntityID:    &entityID,
		IPAddress:   actor.IPAddress,
		Description: &description,
		CreatedAt:   time.Now(),
	}
	if len(values) > 0 {
		serialized, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("failed to encode audit values: %w", err)
		}
		s := string(serialized)
		audit.NewValues = &s
	}
	if actor.UserAgent != "" {
		ua := actor.UserAgent
		audit.UserAgent = &ua
	}
	if err := tx.Create(&audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
