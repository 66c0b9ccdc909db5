package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Invoice      InvoiceRepository
	User         UserRepository
	Department   DepartmentRepository
	Project      ProjectRepository
	Notification NotificationRepository
	RejectReason RejectReasonRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Invoice:      NewInvoiceRepository(db),
		User:         NewUserRepository(db),
		Department:   NewDepartmentRepository(db),
		Project:      NewProjectRepository(db),
		Notification: NewNotificationRepository(db),
		RejectReason: NewRejectReasonRepository(db),
	}
}
