package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/faturaflow/faturaflow-api/internal/storage"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Me           *MeHandler
	Invoice      *InvoiceHandler
	Analytics    *AnalyticsHandler
	Rates        *RatesHandler
	Notification *NotificationHandler
	Organization *OrganizationHandler
	RejectReason *RejectReasonHandler
	User         *UserHandler
	Upload       *UploadHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Me:           NewMeHandler(),
		Invoice:      NewInvoiceHandler(svcs.Invoice, svcs.Workflow, svcs.Import, svcs.Export),
		Analytics:    NewAnalyticsHandler(svcs.Analytics, svcs.Export),
		Rates:        NewRatesHandler(svcs.Rates),
		Notification: NewNotificationHandler(svcs.Notification),
		Organization: NewOrganizationHandler(svcs.Organization),
		RejectReason: NewRejectReasonHandler(svcs.RejectReason),
		User:         NewUserHandler(svcs.User),
		Upload:       NewUploadHandler(store),
		Job:          NewJobHandler(svcs.Job),
	}
}

// respondError writes err using the service error taxonomy
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrMissingProject):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDependencyConflict):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg, "code": services.ErrorCode(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "VALIDATION_ERROR"})
}

// pathID parses a numeric path parameter, answering 400 when it is malformed
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// sendFile writes a generated document as a download
func sendFile(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypePDF  = "application/pdf"
)
