package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/authz"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/patch"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = newError(ErrNotFound, "task not found")
	ErrTitleRequired          = newError(ErrInvalidInput, "title is required")
	ErrContentRequired        = newError(ErrInvalidInput, "comment content is required")
	ErrTextRequired           = newError(ErrInvalidInput, "text is required")
	ErrAssignmentDenied       = newError(ErrAccessDenied, "Only the Organization Admin can assign tasks.")
	ErrCommentRequiresLogin   = newError(ErrUnauthenticated, "You must be logged in to comment.")
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	suggester   TaskSuggester
	logger      *zap.Logger
	now         func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil, in which
// case SuggestTasks reports ErrAIServiceNotConfigured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	suggester TaskSuggester,
	logger *zap.Logger,
) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		suggester:   suggester,
		logger:      logger,
		now:         time.Now,
	}
}

// UpdateTaskInput carries one tri-state field per patchable column. Unset and
// null fields are left as they are.
type UpdateTaskInput struct {
	Status        patch.Field[string]
	Description   patch.Field[string]
	AssigneeEmail patch.Field[string]
	DueDate       patch.Field[string]
}

// CreateTask creates a task holding only a title; every other column keeps
// its default.
func (s *TaskService) CreateTask(projectID uint64, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	task := &models.Task{
		ProjectID: project.ID,
		Title:     title,
		Status:    models.TaskStatusTodo,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		zap.Uint64("task_id", task.ID),
		zap.Uint64("project_id", project.ID),
	)

	return task, nil
}

// UpdateTask applies a partial patch. Null and unset fields are both left
// unchanged; an empty due date clears it. Assigning is checked against the
// organization owner and the due date is parsed before anything is modified,
// so a rejected update never leaves a half-applied task.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput, actor authz.Actor) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Project.Organization")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.Project.ID == 0 || task.Project.Organization.ID == 0 {
		return nil, fmt.Errorf("%w: task %d", ErrDanglingReference, task.ID)
	}

	assignee, assigning := input.AssigneeEmail.Get()
	if assigning && !authz.CanAssignTask(actor, task) {
		return nil, ErrAssignmentDenied
	}

	rawDueDate, settingDueDate := input.DueDate.Get()
	var dueDate *time.Time
	if settingDueDate {
		if dueDate, err = parseDueDate(rawDueDate); err != nil {
			return nil, err
		}
	}

	if status, ok := input.Status.Get(); ok && strings.TrimSpace(status) != "" {
		task.Status = models.TaskStatus(status)
	}
	if description, ok := input.Description.Get(); ok {
		task.Description = description
	}
	if assigning {
		task.AssigneeEmail = &assignee
	}
	if settingDueDate {
		task.DueDate = dueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("task updated",
		zap.Uint64("task_id", task.ID),
		zap.Uint64("actor_id", actor.UserID()),
	)

	return task, nil
}

// AddComment records a comment authored by the actor.
func (s *TaskService) AddComment(taskID uint64, content string, actor authz.Actor) (*models.TaskComment, error) {
	if !authz.CanComment(actor) {
		return nil, ErrCommentRequiresLogin
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.TaskComment{
		TaskID:   task.ID,
		AuthorID: actor.UserID(),
		Content:  content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.Author = *actor.User()

	s.logger.Info("comment added",
		zap.Uint64("task_id", task.ID),
		zap.Uint64("author_id", comment.AuthorID),
	)

	return comment, nil
}

// ListTasks returns one page of a project's tasks. The actor must be able to
// read the project.
func (s *TaskService) ListTasks(projectID uint64, actor authz.Actor, params utils.PaginationParams) ([]models.Task, int64, error) {
	if _, err := s.projectForRead(projectID, actor); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.ListByProject(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListComments returns a task's comments oldest first. The actor must be
// able to read the task's project.
func (s *TaskService) ListComments(taskID uint64, actor authz.Actor) ([]models.TaskComment, error) {
	if !actor.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	task, err := s.taskRepo.FindByID(taskID, "Project.Organization.Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.Project.ID == 0 || task.Project.Organization.ID == 0 {
		return nil, fmt.Errorf("%w: task %d", ErrDanglingReference, task.ID)
	}

	if !authz.CanReadProject(actor, &task.Project) {
		return nil, ErrProjectAccessDenied
	}

	comments, err := s.commentRepo.ListByTask(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// SuggestTasks drafts tasks for a project from free-form text. Drafts are
// returned to the caller and never stored.
func (s *TaskService) SuggestTasks(ctx context.Context, projectID uint64, text string, actor authz.Actor) ([]GeneratedTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	project, err := s.projectForRead(projectID, actor)
	if err != nil {
		return nil, err
	}

	aiTasks, err := s.suggester.SuggestTasks(ctx, project.Name, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	s.logger.Debug("tasks suggested",
		zap.Uint64("project_id", project.ID),
		zap.Int("count", len(validTasks)),
	)

	return validTasks, nil
}

func (s *TaskService) projectForRead(projectID uint64, actor authz.Actor) (*models.Project, error) {
	project, err := readableProject(s.projectRepo, projectID, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}
