package services

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"test-platform-api/models"
	"test-platform-api/utils"
)

// Suite-level review statuses derived from the latest round.
const (
	SuiteReviewNotStarted = "not_started"
	SuiteReviewPending    = "pending"
	SuiteReviewInReview   = "in_review"
	SuiteReviewApproved   = "approved"
	SuiteReviewRejected   = "rejected"
)

// ReviewProgress is the computed completion tuple for one round.
type ReviewProgress struct {
	Total           int     `json:"total"`
	Reviewed        int     `json:"reviewed"`
	Pending         int     `json:"pending"`
	ProgressPercent float64 `json:"progress_percent"`
}

// TaskDetail is a task with its live ledger and progress.
type TaskDetail struct {
	Task     models.ReviewTask        `json:"task"`
	Entries  []models.CaseReviewEntry `json:"entries"`
	Progress ReviewProgress           `json:"progress"`
}

// TaskListItem is one row of a personal task list.
type TaskListItem struct {
	models.ReviewTask
	Progress        ReviewProgress `json:"progress"`
	SuiteName       string         `json:"suite_name"`
	ProjectName     string         `json:"project_name"`
	IterationName   string         `json:"iteration_name,omitempty"`
	RequirementName string         `json:"requirement_name,omitempty"`
	InitiatorName   string         `json:"initiator_name,omitempty"`
	ReviewerName    string         `json:"reviewer_name,omitempty"`
}

// HistoryListItem annotates an archived round with its case counts.
type HistoryListItem struct {
	models.ReviewHistoryRecord
	ApprovedCount int `json:"approved_count"`
	RejectedCount int `json:"rejected_count"`
	PendingCount  int `json:"pending_count"`
}

// SuiteReviewStatus is the answer to "where does this suite stand".
type SuiteReviewStatus struct {
	SuiteID       int               `json:"suite_id"`
	CurrentStatus string            `json:"current_status"`
	History       []HistoryListItem `json:"history"`
}

// ReviewQueryService answers read-only questions over the ledger and the
// archive. Everything is computed on demand; nothing here mutates state.
type ReviewQueryService struct {
	db *gorm.DB
}

func NewReviewQueryService(db *gorm.DB) *ReviewQueryService {
	return &ReviewQueryService{db: db}
}

// progressOf computes the completion tuple. An empty round reports 0%.
func progressOf(entries []models.CaseReviewEntry) ReviewProgress {
	total := len(entries)
	pending := pendingEntryCount(entries)
	reviewed := total - pending
	percent := 0.0
	if total > 0 {
		percent = math.Round(float64(reviewed)/float64(total)*100*100) / 100
	}
	return ReviewProgress{
		Total:           total,
		Reviewed:        reviewed,
		Pending:         pending,
		ProgressPercent: percent,
	}
}

// mapCurrentStatus derives the suite-level status from the latest task
// state. A completed round maps to the verdict its cases produced.
func mapCurrentStatus(state models.ReviewTaskState, anyRejected bool) string {
	switch state {
	case models.ReviewStatePending:
		return SuiteReviewPending
	case models.ReviewStateInReview:
		return SuiteReviewInReview
	case models.ReviewStateCompleted:
		if anyRejected {
			return SuiteReviewRejected
		}
		return SuiteReviewApproved
	case models.ReviewStateRejected:
		return SuiteReviewRejected
	}
	return SuiteReviewNotStarted
}

// canViewTask applies the detail access rule: reviewer, initiator, or
// anyone once the round reached completed.
func canViewTask(task *models.ReviewTask, actorID int) bool {
	if task.ReviewerID == actorID || task.InitiatorID == actorID {
		return true
	}
	return task.State == models.ReviewStateCompleted
}

// TaskDetail returns a task with its ledger entries and progress.
func (s *ReviewQueryService) TaskDetail(actorID, taskID int) (*TaskDetail, error) {
	var task models.ReviewTask
	err := s.db.Preload("Suite").Preload("Initiator").Preload("Reviewer").
		Where("task_id = ?", taskID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "review task", ID: taskID}
		}
		return nil, fmt.Errorf("failed to load review task: %w", err)
	}
	if !canViewTask(&task, actorID) {
		return nil, &PermissionDeniedError{Required: "the reviewer or the initiator"}
	}

	var entries []models.CaseReviewEntry
	err = s.db.Preload("Case").Where("task_id = ?", taskID).
		Order("entry_id ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load case review entries: %w", err)
	}

	return &TaskDetail{Task: task, Entries: entries, Progress: progressOf(entries)}, nil
}

// ListReviewerTasks lists rounds assigned to the actor as reviewer.
func (s *ReviewQueryService) ListReviewerTasks(actorID int, state string, page, size int) ([]TaskListItem, utils.PageMeta, error) {
	return s.listTasks("reviewer_id", actorID, state, page, size)
}

// ListInitiatedTasks lists rounds the actor started.
func (s *ReviewQueryService) ListInitiatedTasks(actorID int, state string, page, size int) ([]TaskListItem, utils.PageMeta, error) {
	return s.listTasks("initiator_id", actorID, state, page, size)
}

func (s *ReviewQueryService) listTasks(column string, actorID int, state string, page, size int) ([]TaskListItem, utils.PageMeta, error) {
	if state != "" && !models.ReviewTaskState(state).Valid() {
		return nil, utils.PageMeta{}, validationErrorf("invalid state filter %q", state)
	}

	query := s.db.Model(&models.ReviewTask{}).Where(column+" = ?", actorID)
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.PageMeta{}, fmt.Errorf("failed to count review tasks: %w", err)
	}
	meta := utils.NewPageMeta(page, size, total)

	var tasks []models.ReviewTask
	err := query.
		Preload("Suite").Preload("Suite.Project").
		Preload("Suite.Iteration").Preload("Suite.Requirement").
		Preload("Initiator").Preload("Reviewer").
		Order("created_at DESC").
		Limit(meta.PageSize).Offset(meta.Offset()).
		Find(&tasks).Error
	if err != nil {
		return nil, utils.PageMeta{}, fmt.Errorf("failed to list review tasks: %w", err)
	}

	items := make([]TaskListItem, 0, len(tasks))
	if len(tasks) == 0 {
		return items, meta, nil
	}

	taskIDs := make([]int, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.TaskID)
	}
	var entries []models.CaseReviewEntry
	if err := s.db.Where("task_id IN ?", taskIDs).Find(&entries).Error; err != nil {
		return nil, utils.PageMeta{}, fmt.Errorf("failed to load case review entries: %w", err)
	}
	byTask := make(map[int][]models.CaseReviewEntry, len(tasks))
	for _, e := range entries {
		byTask[e.TaskID] = append(byTask[e.TaskID], e)
	}

	for _, t := range tasks {
		items = append(items, newTaskListItem(t, byTask[t.TaskID]))
	}
	return items, meta, nil
}

// newTaskListItem flattens the preloaded relations into display fields.
func newTaskListItem(t models.ReviewTask, entries []models.CaseReviewEntry) TaskListItem {
	item := TaskListItem{
		ReviewTask: t,
		Progress:   progressOf(entries),
	}
	if t.Suite != nil {
		item.SuiteName = t.Suite.SuiteName
		if t.Suite.Project != nil {
			item.ProjectName = t.Suite.Project.ProjectName
		}
		if t.Suite.Iteration != nil {
			item.IterationName = t.Suite.Iteration.IterationName
		}
		if t.Suite.Requirement != nil {
			item.RequirementName = t.Suite.Requirement.Title
		}
	}
	if t.Initiator != nil {
		item.InitiatorName = t.Initiator.DisplayName()
	}
	if t.Reviewer != nil {
		item.ReviewerName = t.Reviewer.DisplayName()
	}
	return item
}

// SuiteReviewStatus derives the suite's current status from its latest
// round and returns the archived rounds, newest first.
func (s *ReviewQueryService) SuiteReviewStatus(suiteID int) (*SuiteReviewStatus, error) {
	var suite models.TestSuite
	if err := s.db.Where("suite_id = ? AND deleted_at IS NULL", suiteID).First(&suite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "suite", ID: suiteID}
		}
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}

	result := &SuiteReviewStatus{
		SuiteID:       suiteID,
		CurrentStatus: SuiteReviewNotStarted,
		History:       []HistoryListItem{},
	}

	var tasks []models.ReviewTask
	if err := s.db.Where("suite_id = ?", suiteID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load review tasks: %w", err)
	}
	if len(tasks) > 0 {
		latest := tasks[0]
		entries, err := entriesForTask(s.db, latest.TaskID)
		if err != nil {
			return nil, err
		}
		result.CurrentStatus = mapCurrentStatus(latest.State, anyEntryRejected(entries))
	}

	var records []models.ReviewHistoryRecord
	err := s.db.Preload("Initiator").Preload("Reviewer").
		Where("suite_id = ?", suiteID).
		Order("created_at DESC").Order("version DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load review history: %w", err)
	}
	if len(records) == 0 {
		return result, nil
	}

	counts, err := s.historyCaseCounts(records)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		item := HistoryListItem{ReviewHistoryRecord: record}
		if c, ok := counts[record.HistoryID]; ok {
			item.ApprovedCount = c[models.CaseReviewApproved]
			item.RejectedCount = c[models.CaseReviewRejected]
			item.PendingCount = c[models.CaseReviewPending]
		}
		result.History = append(result.History, item)
	}
	return result, nil
}

type historyStatusCount struct {
	HistoryID    int                     `gorm:"column:history_id"`
	ReviewStatus models.CaseReviewStatus `gorm:"column:review_status"`
	Count        int                     `gorm:"column:count"`
}

func (s *ReviewQueryService) historyCaseCounts(records []models.ReviewHistoryRecord) (map[int]map[models.CaseReviewStatus]int, error) {
	ids := make([]int, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.HistoryID)
	}
	var rows []historyStatusCount
	err := s.db.Model(&models.CaseReviewHistoryEntry{}).
		Select("history_id, review_status, COUNT(*) AS count").
		Where("history_id IN ?", ids).
		Group("history_id").Group("review_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count history cases: %w", err)
	}
	counts := make(map[int]map[models.CaseReviewStatus]int, len(records))
	for _, row := range rows {
		if counts[row.HistoryID] == nil {
			counts[row.HistoryID] = make(map[models.CaseReviewStatus]int, 3)
		}
		counts[row.HistoryID][row.ReviewStatus] = row.Count
	}
	return counts, nil
}

// HistoryDetail returns one archived round with all its case snapshots.
func (s *ReviewQueryService) HistoryDetail(historyID int) (*models.ReviewHistoryRecord, error) {
	var record models.ReviewHistoryRecord
	err := s.db.Preload("Initiator").Preload("Reviewer").Preload("Cases").
		Where("history_id = ?", historyID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "review history record", ID: historyID}
		}
		return nil, fmt.Errorf("failed to load review history record: %w", err)
	}
	return &record, nil
}
