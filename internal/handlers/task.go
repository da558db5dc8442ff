package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/patch"
	"github.com/yukikurage/project-management-api/internal/services"
)

// TaskHandler serves task updates and comments.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// UpdateTask applies a partial update. Keys that are absent are left alone,
// and an explicit null is distinguished from a value.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Status        patch.Field[string] `json:"status"`
		Description   patch.Field[string] `json:"description"`
		AssigneeEmail patch.Field[string] `json:"assignee_email"`
		DueDate       patch.Field[string] `json:"due_date"`
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		Status:        req.Status,
		Description:   req.Description,
		AssigneeEmail: req.AssigneeEmail,
		DueDate:       req.DueDate,
	}, middleware.GetActor(c))
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// AddComment records a comment by the caller.
func (h *TaskHandler) AddComment(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.taskService.AddComment(taskID, req.Content, middleware.GetActor(c))
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments lists a task's comments oldest first.
func (h *TaskHandler) ListComments(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(taskID, middleware.GetActor(c))
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": dto.ToCommentDTOs(comments),
	})
}
