package repository

import (
	"context"
	"strings"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Upsert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, query *ListQuery) ([]models.User, error)
	FindByProjectAndRoles(ctx context.Context, projectID uint, roles ...models.Role) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Project").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit("Department", "Project").Create(user).Error
	return wrapDuplicate(err, "user with this email")
}

// Upsert creates the user or refreshes name and role of the existing row with the same email
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Omit("Department", "Project").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return err
	}
	if user.ID == 0 {
		existing, err := r.FindByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		*user = *existing
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("Name", "Role", "DepartmentID", "ProjectID").
		Updates(user).Error
}

func (r *userRepository) List(ctx context.Context, query *ListQuery) ([]models.User, error) {
	if query == nil {
		query = NewListQuery()
	}

	db := r.db.WithContext(ctx).Model(&models.User{}).
		Preload("Department").
		Preload("Project")

	// Apply search
	if query.Search != "" {
		search := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", search, search)
	}

	// Apply role filter
	if query.Filters["role"] != "" {
		db = db.Where("role = ?", query.Filters["role"])
	}

	if query.Filters["project_id"] != "" {
		db = db.Where("project_id = ?", query.Filters["project_id"])
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	var users []models.User
	err := db.Order("email ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) FindByProjectAndRoles(ctx context.Context, projectID uint, roles ...models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND role IN ?", projectID, roles).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults. PerPage 0 disables paging.
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		Filters: make(map[string]string),
	}
}
