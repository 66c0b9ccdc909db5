package models

import (
	"time"
)

// Department groups projects and users
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Projects []Project `gorm:"foreignKey:DepartmentID" json:"projects,omitempty"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}

// Project is the unit invoices are assigned to
type Project struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;index" json:"name"`
	DepartmentID uint      `gorm:"not null;index" json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Users      []User      `gorm:"foreignKey:ProjectID" json:"users,omitempty"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}
