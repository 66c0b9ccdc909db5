package services

import (
	"context"
	"strings"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
)

// UserUpdate is the admin-editable part of a user
type UserUpdate struct {
	Name         *string      `json:"name"`
	Role         *models.Role `json:"role"`
	DepartmentID *uint        `json:"department_id"`
	ProjectID    *uint        `json:"project_id"`
}

type UserService struct {
	repo        repository.UserRepository
	departments repository.DepartmentRepository
	projects    repository.ProjectRepository
}

func NewUserService(repo repository.UserRepository, departments repository.DepartmentRepository, projects repository.ProjectRepository) *UserService {
	return &UserService{repo: repo, departments: departments, projects: projects}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, actor *models.User, query *repository.ListQuery) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if query != nil && query.Filters["role"] != "" && !models.Role(query.Filters["role"]).Valid() {
		return nil, errorf(ErrValidation, "unknown role %q", query.Filters["role"])
	}
	users, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Update applies an admin edit. Zero ids clear the membership.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, in UserUpdate) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		role := models.Role(strings.ToUpper(string(*in.Role)))
		if !role.Valid() {
			return nil, errorf(ErrValidation, "unknown role %q", *in.Role)
		}
		user.Role = role
	}
	if in.DepartmentID != nil {
		user.DepartmentID = nil
		if *in.DepartmentID != 0 {
			if _, err := s.departments.FindByID(ctx, *in.DepartmentID); err != nil {
				if repository.IsNotFound(err) {
					return nil, errorf(ErrValidation, "department %d does not exist", *in.DepartmentID)
				}
				return nil, err
			}
			user.DepartmentID = in.DepartmentID
		}
	}
	if in.ProjectID != nil {
		user.ProjectID = nil
		if *in.ProjectID != 0 {
			if _, err := s.projects.FindByID(ctx, *in.ProjectID); err != nil {
				if repository.IsNotFound(err) {
					return nil, errorf(ErrValidation, "project %d does not exist", *in.ProjectID)
				}
				return nil, err
			}
			user.ProjectID = in.ProjectID
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("user updated", "user_id", user.ID, "role", user.Role, "actor_id", actor.ID)
	return s.FindByID(ctx, id)
}
