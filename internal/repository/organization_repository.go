package repository

import (
	"context"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"gorm.io/gorm"
)

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id uint) error
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) FindByID(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&departments).Error
	return departments, err
}

func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	err := r.db.WithContext(ctx).Omit("Projects").Create(department).Error
	return wrapDuplicate(err, "department "+department.Name)
}

func (r *departmentRepository) Update(ctx context.Context, department *models.Department) error {
	res := r.db.WithContext(ctx).Model(&models.Department{}).
		Where("id = ?", department.ID).
		Update("name", department.Name)
	if res.Error != nil {
		return wrapDuplicate(res.Error, "department "+department.Name)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the department unless a project or user still references it
func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var department models.Department
		if err := tx.First(&department, id).Error; err != nil {
			return err
		}

		var projects int64
		if err := tx.Model(&models.Project{}).Where("department_id = ?", id).Count(&projects).Error; err != nil {
			return err
		}
		if projects > 0 {
			return &DependentsError{Entity: "department", Dependent: "existing projects"}
		}

		var users int64
		if err := tx.Model(&models.User{}).Where("department_id = ?", id).Count(&users).Error; err != nil {
			return err
		}
		if users > 0 {
			return &DependentsError{Entity: "department", Dependent: "assigned users"}
		}

		return tx.Delete(&models.Department{}, id).Error
	})
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	List(ctx context.Context, departmentID *uint) ([]models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("Department").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, departmentID *uint) ([]models.Project, error) {
	db := r.db.WithContext(ctx).Preload("Department")
	if departmentID != nil {
		db = db.Where("department_id = ?", *departmentID)
	}
	var projects []models.Project
	err := db.Order("name ASC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Department", "Users").Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":          project.Name,
			"department_id": project.DepartmentID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the project unless an invoice or user still references it
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		var invoices int64
		if err := tx.Model(&models.Invoice{}).Where("project_id = ?", id).Count(&invoices).Error; err != nil {
			return err
		}
		if invoices > 0 {
			return &DependentsError{Entity: "project", Dependent: "existing invoices"}
		}

		var users int64
		if err := tx.Model(&models.User{}).Where("project_id = ?", id).Count(&users).Error; err != nil {
			return err
		}
		if users > 0 {
			return &DependentsError{Entity: "project", Dependent: "assigned users"}
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
