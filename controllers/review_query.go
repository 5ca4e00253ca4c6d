package controllers

import (
	"net/http"

	"test-platform-api/config"
	"test-platform-api/services"
	"test-platform-api/utils"

	"github.com/gin-gonic/gin"
)

// GetReviewTask returns a round with its ledger entries and progress.
// Visible to the reviewer, the initiator, or anyone once completed.
func GetReviewTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewQueryService(config.DB)
	detail, err := svc.TaskDetail(actor.UserID, taskID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"task":     detail.Task,
		"entries":  detail.Entries,
		"progress": detail.Progress,
	})
}

// GET /review-tasks/assigned?status=&page=&page_size=
func ListAssignedReviewTasks(c *gin.Context) {
	listReviewTasks(c, true)
}

// GET /review-tasks/initiated?status=&page=&page_size=
func ListInitiatedReviewTasks(c *gin.Context) {
	listReviewTasks(c, false)
}

func listReviewTasks(c *gin.Context, asReviewer bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	state := c.Query("status")
	page := utils.ParsePositive(c.Query("page"), 1)
	size := utils.ParsePositive(c.Query("page_size"), utils.DefaultPageSize)

	svc := services.NewReviewQueryService(config.DB)
	var (
		items []services.TaskListItem
		meta  utils.PageMeta
		err   error
	)
	if asReviewer {
		items, meta, err = svc.ListReviewerTasks(actor.UserID, state, page, size)
	} else {
		items, meta, err = svc.ListInitiatedTasks(actor.UserID, state, page, size)
	}
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"meta":    meta,
	})
}

// GetSuiteReviewStatus returns the suite's derived status and its archived
// rounds, newest first.
func GetSuiteReviewStatus(c *gin.Context) {
	suiteID, ok := parseIDParam(c, "id", "suite ID")
	if !ok {
		return
	}

	svc := services.NewReviewQueryService(config.DB)
	status, err := svc.SuiteReviewStatus(suiteID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    status,
	})
}

// GetReviewHistory returns one archived round with all case snapshots.
func GetReviewHistory(c *gin.Context) {
	historyID, ok := parseIDParam(c, "id", "history ID")
	if !ok {
		return
	}

	svc := services.NewReviewQueryService(config.DB)
	record, err := svc.HistoryDetail(historyID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
