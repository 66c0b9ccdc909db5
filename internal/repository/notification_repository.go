package repository

import (
	"context"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindLatestByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkAsRead(ctx context.Context, userID, id uint) error
	MarkAllAsRead(ctx context.Context, userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Omit("User").Create(notification).Error
}

func (r *notificationRepository) FindLatestByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	db := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flags one of the user's notifications. Notifications owned by
// other users are reported as missing.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// RejectReasonRepository defines the interface for reject reason data access
type RejectReasonRepository interface {
	List(ctx context.Context) ([]models.RejectReason, error)
	Create(ctx context.Context, reason *models.RejectReason) error
	Delete(ctx context.Context, id uint) error
}

type rejectReasonRepository struct {
	db *gorm.DB
}

// NewRejectReasonRepository creates a new reject reason repository
func NewRejectReasonRepository(db *gorm.DB) RejectReasonRepository {
	return &rejectReasonRepository{db: db}
}

func (r *rejectReasonRepository) List(ctx context.Context) ([]models.RejectReason, error) {
	var reasons []models.RejectReason
	err := r.db.WithContext(ctx).Order("id ASC").Find(&reasons).Error
	return reasons, err
}

func (r *rejectReasonRepository) Create(ctx context.Context, reason *models.RejectReason) error {
	err := r.db.WithContext(ctx).Create(reason).Error
	return wrapDuplicate(err, "reject reason")
}

func (r *rejectReasonRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.RejectReason{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
