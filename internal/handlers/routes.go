package handlers

import (
	"github.com/faturaflow/faturaflow-api/internal/middleware"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Register mounts the API under v1. auth must authenticate the caller and
// store it with middleware.SetCurrentUser.
func (h *Handlers) Register(v1 *gin.RouterGroup, auth gin.HandlerFunc) {
	// Health check (public)
	v1.GET("/health", h.Health.Index)

	protected := v1.Group("")
	protected.Use(auth)
	{
		protected.GET("/me", h.Me.Show)

		// Invoices. Role checks for workflow actions live in the engine.
		invoices := protected.Group("/invoices")
		{
			invoices.GET("", h.Invoice.Index)
			invoices.POST("", h.Invoice.Create)
			invoices.GET("/export", h.Invoice.Export)
			invoices.GET("/import/template", h.Invoice.Template)
			invoices.POST("/import", h.Invoice.Import)
			invoices.GET("/:invoice_id", h.Invoice.Show)
			invoices.PUT("/:invoice_id", h.Invoice.Transition)
			invoices.GET("/:invoice_id/timeline.pdf", h.Invoice.Timeline)
		}

		// Analytics
		protected.GET("/analytics", h.Analytics.Overview)
		protected.GET("/analytics/export", h.Analytics.Export)
		protected.GET("/dashboard/stats", h.Analytics.DashboardStats)
		protected.GET("/rates", h.Rates.Index)

		// Notifications (users can manage their own notifications)
		notifications := protected.Group("/notifications")
		{
			notifications.GET("", h.Notification.Index)
			notifications.PUT("", h.Notification.MarkAllAsRead)
			notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
		}

		// Reference data
		protected.GET("/reject-reasons", h.RejectReason.Index)
		protected.GET("/organization", h.Organization.Index)

		// Attachments are uploaded by the roles that create invoices
		protected.POST("/uploads", middleware.RequireRole(models.RoleMuhasebe, models.RoleAdmin), h.Upload.Create)

		// Admin-only routes
		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/reject-reasons", h.RejectReason.Create)
			admin.DELETE("/reject-reasons/:reason_id", h.RejectReason.Delete)

			admin.POST("/departments", h.Organization.CreateDepartment)
			admin.PUT("/departments/:department_id", h.Organization.UpdateDepartment)
			admin.DELETE("/departments/:department_id", h.Organization.DeleteDepartment)

			admin.POST("/projects", h.Organization.CreateProject)
			admin.PUT("/projects/:project_id", h.Organization.UpdateProject)
			admin.DELETE("/projects/:project_id", h.Organization.DeleteProject)

			admin.GET("/users", h.User.Index)
			admin.PUT("/users/:user_id", h.User.Update)

			admin.GET("/jobs/status", h.Job.Status)
			admin.POST("/jobs/rates/refresh", h.Job.RefreshRates)
		}
	}
}
