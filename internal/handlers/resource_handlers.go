package handlers

import (
	"net/http"
	"strconv"

	"github.com/faturaflow/faturaflow-api/internal/middleware"
	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	organizationService *services.OrganizationService
}

func NewOrganizationHandler(organizationService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: organizationService}
}

// @Summary List Organization
// @Description Lists departments or projects
// @Tags Organization
// @Produce json
// @Param type query string true "departments or projects"
// @Param department_id query int false "Restrict projects to one department"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /organization [get]
func (h *OrganizationHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	switch c.Query("type") {
	case "departments":
		departments, err := h.organizationService.ListDepartments(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"departments": departments})
	case "projects":
		var departmentID *uint
		if raw := c.Query("department_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				badRequest(c, "invalid department_id")
				return
			}
			d := uint(id)
			departmentID = &d
		}
		projects, err := h.organizationService.ListProjects(ctx, departmentID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	default:
		badRequest(c, "type must be departments or projects")
	}
}

// @Summary Create Department
// @Tags Organization
// @Accept json
// @Produce json
// @Param request body services.DepartmentInput true "Department Data"
// @Success 201 {object} models.Department
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /departments [post]
func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var in services.DepartmentInput
	if err := BindNestedOrFlat(c, "department", &in); err != nil {
		badRequest(c, err.Error())
		return
	}
	department, err := h.organizationService.CreateDepartment(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"department": department})
}

// @Summary Update Department
// @Tags Organization
// @Accept json
// @Produce json
// @Param department_id path int true "Department ID"
// @Param request body services.DepartmentInput true "Department Data"
// @Success 200 {object} models.Department
// @Security BearerAuth
// @Router /departments/{department_id} [put]
func (h *OrganizationHandler) UpdateDepartment(c *gin.Context) {
	id, ok := pathID(c, "department_id")
	if !ok {
		return
	}
	var in services.DepartmentInput
	if err := BindNestedOrFlat(c, "department", &in); err != nil {
		badRequest(c, err.Error())
		return
	}
	department, err := h.organizationService.UpdateDepartment(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"department": department})
}

// @Summary Delete Department
// @Description Deletes a department that no project or user references
// @Tags Organization
// @Produce json
// @Param department_id path int true "Department ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /departments/{department_id} [delete]
func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	id, ok := pathID(c, "department_id")
	if !ok {
		return
	}
	if err := h.organizationService.DeleteDepartment(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department deleted"})
}

// @Summary Create Project
// @Tags Organization
// @Accept json
// @Produce json
// @Param request body services.ProjectInput true "Project Data"
// @Success 201 {object} models.Project
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /projects [post]
func (h *OrganizationHandler) CreateProject(c *gin.Context) {
	var in services.ProjectInput
	if err := BindNestedOrFlat(c, "project", &in); err != nil {
		badRequest(c, err.Error())
		return
	}
	project, err := h.organizationService.CreateProject(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// @Summary Update Project
// @Tags Organization
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Param request body services.ProjectInput true "Project Data"
// @Success 200 {object} models.Project
// @Security BearerAuth
// @Router /projects/{project_id} [put]
func (h *OrganizationHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var in services.ProjectInput
	if err := BindNestedOrFlat(c, "project", &in); err != nil {
		badRequest(c, err.Error())
		return
	}
	project, err := h.organizationService.UpdateProject(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// @Summary Delete Project
// @Description Deletes a project that no invoice or user references
// @Tags Organization
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /projects/{project_id} [delete]
func (h *OrganizationHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	if err := h.organizationService.DeleteProject(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

type RejectReasonHandler struct {
	rejectReasonService *services.RejectReasonService
}

func NewRejectReasonHandler(rejectReasonService *services.RejectReasonService) *RejectReasonHandler {
	return &RejectReasonHandler{rejectReasonService: rejectReasonService}
}

type RejectReasonRequest struct {
	Description string `json:"description" binding:"required"`
}

// @Summary List Reject Reasons
// @Description Canned reasons offered when returning an invoice
// @Tags RejectReasons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /reject-reasons [get]
func (h *RejectReasonHandler) Index(c *gin.Context) {
	reasons, err := h.rejectReasonService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reject_reasons": reasons})
}

// @Summary Create Reject Reason
// @Tags RejectReasons
// @Accept json
// @Produce json
// @Param request body RejectReasonRequest true "Reason"
// @Success 201 {object} models.RejectReason
// @Security BearerAuth
// @Router /reject-reasons [post]
func (h *RejectReasonHandler) Create(c *gin.Context) {
	var req RejectReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	reason, err := h.rejectReasonService.Create(c.Request.Context(), middleware.CurrentUser(c), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reject_reason": reason})
}

// @Summary Delete Reject Reason
// @Tags RejectReasons
// @Produce json
// @Param reason_id path int true "Reason ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /reject-reasons/{reason_id} [delete]
func (h *RejectReasonHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "reason_id")
	if !ok {
		return
	}
	if err := h.rejectReasonService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reject reason deleted"})
}

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary List Notifications
// @Description Latest notifications for the current user with the unread count
// @Tags Notifications
// @Produce json
// @Success 200 {object} services.NotificationFeed
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) Index(c *gin.Context) {
	feed, err := h.notificationService.Latest(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// @Summary Mark Notification Read
// @Description Mark one of the caller's notifications as read
// @Tags Notifications
// @Produce json
// @Param notification_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{notification_id}/mark_as_read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := pathID(c, "notification_id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// @Summary Mark All Notifications Read
// @Description Mark all notifications as read for current user
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	marked, err := h.notificationService.MarkAllAsRead(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "marked": marked})
}
