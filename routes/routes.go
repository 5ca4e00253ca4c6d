package routes

import (
	"test-platform-api/controllers"
	"test-platform-api/middleware"
	"test-platform-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Test Platform API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Review transitions are limited to engineers and admins;
			// read routes stay open to any authenticated user.
			reviewRoles := middleware.RequireRole(models.RoleEngineer, models.RoleAdmin)

			// Suite review workflow
			suites := protected.Group("/suites")
			{
				suites.POST("/:id/review-tasks", reviewRoles, controllers.InitiateReview)
				suites.GET("/:id/review-status", controllers.GetSuiteReviewStatus)
			}

			tasks := protected.Group("/review-tasks")
			{
				// Personal lists must be registered before /:id
				tasks.GET("/assigned", controllers.ListAssignedReviewTasks)
				tasks.GET("/initiated", controllers.ListInitiatedReviewTasks)

				tasks.GET("/:id", controllers.GetReviewTask)
				tasks.POST("/:id/cases/:case_id/decision", reviewRoles, controllers.RecordCaseDecision)
				tasks.POST("/:id/complete", reviewRoles, controllers.CompleteReview)
				tasks.POST("/:id/reject", reviewRoles, controllers.RejectReview)
				tasks.POST("/:id/restart", reviewRoles, controllers.RestartReview)
				tasks.POST("/:id/reinitiate", reviewRoles, controllers.ReinitiateReview)
			}

			// Archived review rounds
			protected.GET("/review-histories/:id", controllers.GetReviewHistory)
		}
	}
}
