package services

import (
	"github.com/faturaflow/faturaflow-api/internal/config"
	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/events"
	"github.com/faturaflow/faturaflow-api/internal/jobs"
	"github.com/faturaflow/faturaflow-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Workflow     *WorkflowService
	Invoice      *InvoiceService
	Notification *NotificationService
	Analytics    *AnalyticsService
	Organization *OrganizationService
	RejectReason *RejectReasonService
	Rates        *RateService
	Export       *ExportService
	Import       *ImportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, rates *currency.RateCache, publisher events.Publisher, cfg *config.Config) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User, repos.Invoice, cfg.NotificationPageSize)
	workflowSvc := NewWorkflowService(repos.Invoice, repos.Project, notificationSvc, publisher, worker)
	rateSvc := NewRateService(rates)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg.JWTSecret, cfg.JWTExpirationHours),
		User:         NewUserService(repos.User, repos.Department, repos.Project),
		Workflow:     workflowSvc,
		Invoice:      NewInvoiceService(repos.Invoice),
		Notification: notificationSvc,
		Analytics:    NewAnalyticsService(repos.Invoice, rateSvc),
		Organization: NewOrganizationService(repos.Department, repos.Project),
		RejectReason: NewRejectReasonService(repos.RejectReason),
		Rates:        rateSvc,
		Export:       NewExportService(nil),
		Import:       NewImportService(workflowSvc),
		Job:          NewJobService(worker, rates),
	}
}
