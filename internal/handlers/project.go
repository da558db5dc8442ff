package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// ProjectHandler serves projects and the tasks nested under them.
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// CreateProject creates a project in the organization named by the slug.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		OrganizationSlug: c.Param("slug"),
		Name:             req.Name,
		Description:      req.Description,
		DueDate:          req.DueDate,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	h.respondWithSummary(c, http.StatusCreated, project)
}

// GetProject returns a project the caller can read, or null if it does not exist.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID, middleware.GetActor(c))
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}
	if project == nil {
		c.JSON(http.StatusOK, gin.H{"project": nil})
		return
	}

	summary, err := h.projectService.Summarize(project)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectDTO(*summary)})
}

// UpdateProject overwrites the project status.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Status *string `json:"status" binding:"required"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(projectID, *req.Status)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	h.respondWithSummary(c, http.StatusOK, project)
}

// ListTasks lists one page of the project's tasks.
func (h *ProjectHandler) ListTasks(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListTasks(projectID, middleware.GetActor(c), params)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Response(total)))
}

// CreateTask creates a task holding only a title.
func (h *ProjectHandler) CreateTask(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title string `json:"title" binding:"required,max=255"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(projectID, req.Title)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// SuggestTasks drafts tasks for the project from free text without saving them.
func (h *ProjectHandler) SuggestTasks(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	drafts, err := h.taskService.SuggestTasks(c.Request.Context(), projectID, req.Text, middleware.GetActor(c))
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToSuggestedTaskDTOs(drafts),
	})
}

func (h *ProjectHandler) respondWithSummary(c *gin.Context, status int, project *models.Project) {
	summary, err := h.projectService.Summarize(project)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}
	c.JSON(status, dto.ToProjectDTO(*summary))
}
