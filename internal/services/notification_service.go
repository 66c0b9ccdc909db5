package services

import (
	"context"
	"fmt"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/getsentry/sentry-go"
)

// DispatchResult summarizes one notification fan-out
type DispatchResult struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// NotificationFeed is a user's latest notifications plus their unread count
type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

var notifiedOnAssign = []models.Role{models.RoleOperasyon, models.RoleOpLeader}

type NotificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	invoiceRepo repository.InvoiceRepository
	pageSize    int
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, invoiceRepo repository.InvoiceRepository, pageSize int) *NotificationService {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &NotificationService{repo: repo, userRepo: userRepo, invoiceRepo: invoiceRepo, pageSize: pageSize}
}

// Dispatch notifies the audience of a committed workflow action. Each
// recipient is handled independently: a failed insert is logged and counted
// but never stops the others. Actions without an audience are a no-op.
func (s *NotificationService) Dispatch(ctx context.Context, invoice *models.Invoice, action models.WorkflowAction) (DispatchResult, error) {
	var result DispatchResult

	recipients, notifType, message, err := s.audience(ctx, invoice, action)
	if err != nil {
		return result, err
	}
	result.Recipients = len(recipients)

	for _, userID := range recipients {
		n := &models.Notification{
			UserID:     userID,
			Type:       notifType,
			Message:    message,
			ResourceID: &invoice.ID,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			result.Failed++
			logger.Error("notification: failed to notify user",
				"error", err,
				"user_id", userID,
				"invoice_id", invoice.ID,
				"action", action,
			)
			sentry.CaptureException(fmt.Errorf("notify user %d for invoice %d: %w", userID, invoice.ID, err))
			continue
		}
		result.Sent++
	}

	if result.Recipients > 0 {
		logger.Info("notification: dispatched",
			"invoice_id", invoice.ID,
			"action", action,
			"recipients", result.Recipients,
			"sent", result.Sent,
			"failed", result.Failed,
		)
	}
	return result, nil
}

func (s *NotificationService) audience(ctx context.Context, invoice *models.Invoice, action models.WorkflowAction) ([]uint, models.NotificationType, string, error) {
	switch action {
	case models.ActionAssign:
		if invoice.ProjectID == nil {
			return nil, "", "", nil
		}
		users, err := s.userRepo.FindByProjectAndRoles(ctx, *invoice.ProjectID, notifiedOnAssign...)
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to resolve project users: %w", err)
		}
		ids := make([]uint, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		msg := fmt.Sprintf("Yeni fatura atandı: %s %s - %s", invoice.Amount.StringFixed(2), invoice.Currency, invoice.Supplier)
		return ids, models.NotificationInfo, msg, nil

	case models.ActionProcess, models.ActionReturn:
		creatorID, err := s.creator(ctx, invoice)
		if err != nil {
			if repository.IsNotFound(err) {
				logger.Warn("notification: invoice has no creator", "invoice_id", invoice.ID)
				return nil, "", "", nil
			}
			return nil, "", "", err
		}
		if action == models.ActionProcess {
			return []uint{creatorID}, models.NotificationSuccess, "Fatura onaylandı: " + invoice.Supplier, nil
		}
		return []uint{creatorID}, models.NotificationWarning, "Fatura iade edildi: " + invoice.Supplier, nil
	}
	return nil, "", "", nil
}

func (s *NotificationService) creator(ctx context.Context, invoice *models.Invoice) (uint, error) {
	if log := invoice.FirstLog(models.ActionCreate); log != nil {
		return log.ActorID, nil
	}
	return s.invoiceRepo.FindCreatorID(ctx, invoice.ID)
}

// Latest returns the user's most recent notifications and unread count
func (s *NotificationService) Latest(ctx context.Context, userID uint) (*NotificationFeed, error) {
	items, err := s.repo.FindLatestByUser(ctx, userID, s.pageSize)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &NotificationFeed{Notifications: items, UnreadCount: unread}, nil
}

// MarkAsRead marks one of the user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uint) error {
	return translate(s.repo.MarkAsRead(ctx, userID, id), "notification")
}

// MarkAllAsRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}
