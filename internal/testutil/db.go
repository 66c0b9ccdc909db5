// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/faturaflow/faturaflow-api/internal/database"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an isolated in-memory SQLite database with the full schema
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// One connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// Fixture holds a small organization used across tests
type Fixture struct {
	Department *models.Department
	Project    *models.Project
	Other      *models.Project
	Accountant *models.User
	Operator   *models.User
	Leader     *models.User
	Admin      *models.User
	Outsider   *models.User
}

// Seed creates one department with two projects and one user per role
func Seed(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{}
	f.Department = &models.Department{Name: "Finance"}
	mustCreate(t, db, f.Department)

	f.Project = &models.Project{Name: "Bridge", DepartmentID: f.Department.ID}
	mustCreate(t, db, f.Project)
	f.Other = &models.Project{Name: "Tunnel", DepartmentID: f.Department.ID}
	mustCreate(t, db, f.Other)

	f.Accountant = &models.User{Name: "Ayse", Email: "ayse@example.com", Role: models.RoleMuhasebe}
	mustCreate(t, db, f.Accountant)
	f.Operator = &models.User{Name: "Mehmet", Email: "mehmet@example.com", Role: models.RoleOperasyon, ProjectID: &f.Project.ID}
	mustCreate(t, db, f.Operator)
	f.Leader = &models.User{Name: "Zeynep", Email: "zeynep@example.com", Role: models.RoleOpLeader, ProjectID: &f.Project.ID}
	mustCreate(t, db, f.Leader)
	f.Admin = &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
	mustCreate(t, db, f.Admin)
	f.Outsider = &models.User{Name: "Can", Email: "can@example.com", Role: models.RoleOperasyon, ProjectID: &f.Other.ID}
	mustCreate(t, db, f.Outsider)

	return f
}

// NewInvoice builds an unsaved PENDING invoice
func NewInvoice(supplier string, amount int64, cur models.Currency) *models.Invoice {
	return &models.Invoice{
		Supplier:    supplier,
		Amount:      decimal.NewFromInt(amount),
		Currency:    cur,
		Status:      models.InvoiceStatusPending,
		InvoiceDate: timeNow(),
	}
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}
