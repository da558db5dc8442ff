package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = newError(ErrNotFound, "project not found")
	ErrProjectNameRequired = newError(ErrInvalidInput, "project name is required")
	ErrNotLoggedIn         = newError(ErrUnauthenticated, "Not logged in")
	ErrProjectAccessDenied = newError(ErrAccessDenied, "Access Denied")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo   repository.ProjectRepository
	organizations *OrganizationService
	logger        *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, organizations *OrganizationService, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		projectRepo:   projectRepo,
		organizations: organizations,
		logger:        logger,
	}
}

// ProjectSummary pairs a project with its derived task statistics.
type ProjectSummary struct {
	Project        *models.Project
	TaskCount      int64
	CompletionRate float64
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	OrganizationSlug string
	Name             string
	Description      string
	DueDate          string
}

// CompletionRate returns the percentage of done tasks, or 0 when there are
// no tasks.
func CompletionRate(total, done int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// CreateProject creates a project with status "open" in the organization
// identified by slug.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	org, err := s.organizations.GetBySlug(input.OrganizationSlug)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		OrganizationID: org.ID,
		Name:           name,
		Description:    input.Description,
		DueDate:        dueDate,
		Status:         models.ProjectStatusOpen,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.Organization = *org

	s.logger.Info("project created",
		zap.Uint64("project_id", project.ID),
		zap.Uint64("organization_id", org.ID),
	)

	return project, nil
}

// UpdateProject overwrites the status of a project. Any string is accepted.
func (s *ProjectService) UpdateProject(projectID uint64, status string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.UpdateStatus(project, status); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	project.Status = status

	s.logger.Info("project status updated",
		zap.Uint64("project_id", project.ID),
		zap.String("status", status),
	)

	return project, nil
}

// GetProject returns the project when the actor is a member of its
// organization. A missing project yields (nil, nil).
func (s *ProjectService) GetProject(projectID uint64, actor authz.Actor) (*models.Project, error) {
	project, err := readableProject(s.projectRepo, projectID, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

// Summarize computes the task count and completion rate of a project.
func (s *ProjectService) Summarize(project *models.Project) (*ProjectSummary, error) {
	total, done, err := s.projectRepo.CountTasks(project.ID, models.TaskStatusDone)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &ProjectSummary{
		Project:        project,
		TaskCount:      total,
		CompletionRate: CompletionRate(total, done),
	}, nil
}

// ListForOrganization summarizes every project of an organization.
func (s *ProjectService) ListForOrganization(organizationID uint64) ([]ProjectSummary, error) {
	projects, err := s.projectRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		summary, err := s.Summarize(&projects[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

// readableProject loads a project with its organization members and checks
// read access. A missing project is returned as gorm.ErrRecordNotFound so
// callers can pick between "null" and NotFound.
func readableProject(projects repository.ProjectRepository, projectID uint64, actor authz.Actor) (*models.Project, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	project, err := projects.FindByID(projectID, "Organization.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.Organization.ID == 0 {
		return nil, fmt.Errorf("%w: project %d", ErrDanglingReference, project.ID)
	}

	if !authz.CanReadProject(actor, project) {
		return nil, ErrProjectAccessDenied
	}

	return project, nil
}
