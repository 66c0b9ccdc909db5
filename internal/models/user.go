package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is a user's permission class
type Role string

// Role constants
const (
	RoleAdmin     Role = "ADMIN"
	RoleMuhasebe  Role = "MUHASEBE"
	RoleOperasyon Role = "OPERASYON"
	RoleOpLeader  Role = "OP_LEADER"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMuhasebe, RoleOperasyon, RoleOpLeader:
		return true
	}
	return false
}

// User represents an authenticated member of the organization
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"size:20;not null;default:MUHASEBE;index" json:"role"`
	DepartmentID *uint     `gorm:"index" json:"department_id"`
	ProjectID    *uint     `gorm:"index" json:"project_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Project    *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for setting defaults
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleMuhasebe
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// DisplayName returns the name, falling back to the email
func (u *User) DisplayName() string {
	if u == nil {
		return "unknown"
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
