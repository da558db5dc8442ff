package repository

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// Lookups return gorm.ErrRecordNotFound (possibly wrapped) when the row is
// absent, so callers can tell a missing entity from any other fault.

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// CreateWithOrganization creates the user, then joins the organization
	// with the given slug or creates it with the user as owner, and records
	// the membership, all in one transaction.
	CreateWithOrganization(user *models.User, orgName, slug string) (*models.Organization, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// FindBySlug finds an organization by slug
	FindBySlug(slug string) (*models.Organization, error)

	// List returns every organization ordered by ID
	List() ([]models.Organization, error)

	// FirstForMember returns the organization the user joined earliest
	FirstForMember(userID uint64) (*models.Organization, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListByOrganization lists the projects of an organization ordered by ID
	ListByOrganization(organizationID uint64) ([]models.Project, error)

	// UpdateStatus overwrites the status column of a project
	UpdateStatus(project *models.Project, status string) error

	// CountTasks returns the total number of tasks and how many have the given status
	CountTasks(projectID uint64, status models.TaskStatus) (total int64, matching int64, err error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject retrieves one page of a project's tasks and the total count
	ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// Update writes every column of the task in a single statement
	Update(task *models.Task) error
}

// CommentRepository defines the interface for task comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.TaskComment) error

	// ListByTask lists a task's comments oldest first, with authors loaded
	ListByTask(taskID uint64) ([]models.TaskComment, error)
}
