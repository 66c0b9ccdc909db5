package models

import (
	"time"
)

// NotificationType is the severity shown to the recipient
type NotificationType string

// Notification type constants
const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

// Notification represents an in-app message for a user
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	Type       NotificationType `gorm:"size:10;not null;default:INFO" json:"type"`
	Message    string           `gorm:"not null" json:"message"`
	ResourceID *uint            `gorm:"index" json:"resource_id"`
	IsRead     bool             `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// RejectReason is a canned explanation offered when returning an invoice
type RejectReason struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"uniqueIndex;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for RejectReason
func (RejectReason) TableName() string {
	return "reject_reasons"
}

// DefaultRejectReasons are seeded on first start
var DefaultRejectReasons = []string{
	"Incorrect Amount",
	"Wrong Currency",
	"Missing Description",
	"Duplicate Invoice",
	"Other",
}

// DefaultDepartments are seeded on first start
var DefaultDepartments = []string{"IT", "HR", "Finance", "Operations", "Sales"}
