package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"test-platform-api/config"
	"test-platform-api/services"
	"test-platform-api/utils"

	"github.com/gin-gonic/gin"
)

// actorFromContext builds the acting user from the auth middleware values
// plus the request metadata the audit log records.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return services.Actor{}, false
	}
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return services.Actor{}, false
	}
	return services.Actor{
		UserID:    userID,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}, true
}

func parseIDParam(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label})
		return 0, false
	}
	return id, true
}

// respondWorkflowError maps service errors onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsPermissionDenied(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("review workflow error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// InitiateReview starts (or resets) the review round for a suite.
func InitiateReview(c *gin.Context) {
	suiteID, ok := parseIDParam(c, "id", "suite ID")
	if !ok {
		return
	}

	var req struct {
		ReviewerID int `json:"reviewer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewWorkflowService(config.DB)
	task, err := svc.Initiate(actor, suiteID, req.ReviewerID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review round initiated",
		"task":    task,
	})
}

// RecordCaseDecision writes one case's review decision.
func RecordCaseDecision(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}
	caseID, ok := parseIDParam(c, "case_id", "case ID")
	if !ok {
		return
	}

	var req struct {
		Status   string `json:"status" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewWorkflowService(config.DB)
	status := strings.ToLower(strings.TrimSpace(req.Status))
	entry, err := svc.RecordCaseDecision(actor, taskID, caseID, status, utils.SanitizeInput(req.Comments))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Case decision recorded",
		"entry":   entry,
	})
}

// CompleteReview closes the round once every case is decided.
func CompleteReview(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	var req struct {
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewWorkflowService(config.DB)
	task, err := svc.Complete(actor, taskID, utils.SanitizeInput(req.Comments))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review round completed",
		"task":    task,
	})
}

// RejectReview closes the round as rejected.
func RejectReview(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	var req struct {
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewWorkflowService(config.DB)
	task, err := svc.Reject(actor, taskID, utils.SanitizeInput(req.Comments))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review round rejected",
		"task":    task,
	})
}

// RestartReview reopens a completed round.
func RestartReview(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewWorkflowService(config.DB)
	task, err := svc.Restart(actor, taskID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review round reopened",
		"task":    task,
	})
}

// ReinitiateReview moves a rejected round back to pending.
func ReinitiateReview(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id", "task ID")
	if !ok {
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	svc := services.NewReviewWorkflowService(config.DB)
	task, err := svc.Reinitiate(actor, taskID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review round reinitiated",
		"task":    task,
	})
}
