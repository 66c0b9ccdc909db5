package services

import (
	"context"
	"strings"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
)

// DepartmentInput is the editable part of a department
type DepartmentInput struct {
	Name string `json:"name"`
}

// ProjectInput is the editable part of a project
type ProjectInput struct {
	Name         string `json:"name"`
	DepartmentID uint   `json:"department_id"`
}

// OrganizationService administers departments and projects
type OrganizationService struct {
	departments repository.DepartmentRepository
	projects    repository.ProjectRepository
}

func NewOrganizationService(departments repository.DepartmentRepository, projects repository.ProjectRepository) *OrganizationService {
	return &OrganizationService{departments: departments, projects: projects}
}

func requireAdmin(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !policy.CanManageOrganization(actor.Role) {
		return errorf(ErrForbidden, "only administrators can manage the organization")
	}
	return nil
}

func (s *OrganizationService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.departments.List(ctx)
}

func (s *OrganizationService) ListProjects(ctx context.Context, departmentID *uint) ([]models.Project, error) {
	return s.projects.List(ctx, departmentID)
}

func (s *OrganizationService) CreateDepartment(ctx context.Context, actor *models.User, in DepartmentInput) (*models.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errorf(ErrValidation, "department name is required")
	}
	department := &models.Department{Name: name}
	if err := s.departments.Create(ctx, department); err != nil {
		return nil, translate(err, "department")
	}
	logger.Info("department created", "department_id", department.ID, "actor_id", actor.ID)
	return department, nil
}

func (s *OrganizationService) UpdateDepartment(ctx context.Context, actor *models.User, id uint, in DepartmentInput) (*models.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errorf(ErrValidation, "department name is required")
	}
	if err := s.departments.Update(ctx, &models.Department{ID: id, Name: name}); err != nil {
		return nil, translate(err, "department")
	}
	department, err := s.departments.FindByID(ctx, id)
	return department, translate(err, "department")
}

// DeleteDepartment refuses while projects or users still reference the department
func (s *OrganizationService) DeleteDepartment(ctx context.Context, actor *models.User, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return translate(err, "department")
	}
	logger.Info("department deleted", "department_id", id, "actor_id", actor.ID)
	return nil
}

func (s *OrganizationService) CreateProject(ctx context.Context, actor *models.User, in ProjectInput) (*models.Project, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	project, err := s.validateProject(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, translate(err, "project")
	}
	logger.Info("project created", "project_id", project.ID, "actor_id", actor.ID)
	created, err := s.projects.FindByID(ctx, project.ID)
	return created, translate(err, "project")
}

func (s *OrganizationService) UpdateProject(ctx context.Context, actor *models.User, id uint, in ProjectInput) (*models.Project, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	project, err := s.validateProject(ctx, in)
	if err != nil {
		return nil, err
	}
	project.ID = id
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, translate(err, "project")
	}
	updated, err := s.projects.FindByID(ctx, id)
	return updated, translate(err, "project")
}

// DeleteProject refuses while invoices or users still reference the project
func (s *OrganizationService) DeleteProject(ctx context.Context, actor *models.User, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return translate(err, "project")
	}
	logger.Info("project deleted", "project_id", id, "actor_id", actor.ID)
	return nil
}

func (s *OrganizationService) validateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errorf(ErrValidation, "project name is required")
	}
	if in.DepartmentID == 0 {
		return nil, errorf(ErrValidation, "department_id is required")
	}
	if _, err := s.departments.FindByID(ctx, in.DepartmentID); err != nil {
		if repository.IsNotFound(err) {
			return nil, errorf(ErrValidation, "department %d does not exist", in.DepartmentID)
		}
		return nil, err
	}
	return &models.Project{Name: name, DepartmentID: in.DepartmentID}, nil
}

// RejectReasonService manages the canned return reasons
type RejectReasonService struct {
	repo repository.RejectReasonRepository
}

func NewRejectReasonService(repo repository.RejectReasonRepository) *RejectReasonService {
	return &RejectReasonService{repo: repo}
}

func (s *RejectReasonService) List(ctx context.Context) ([]models.RejectReason, error) {
	return s.repo.List(ctx)
}

func (s *RejectReasonService) Create(ctx context.Context, actor *models.User, description string) (*models.RejectReason, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errorf(ErrValidation, "description is required")
	}
	reason := &models.RejectReason{Description: description}
	if err := s.repo.Create(ctx, reason); err != nil {
		return nil, translate(err, "reject reason")
	}
	return reason, nil
}

func (s *RejectReasonService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return translate(s.repo.Delete(ctx, id), "reject reason")
}
