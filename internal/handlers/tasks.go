package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listkeep-dev/listkeep/internal/access"
	"github.com/listkeep-dev/listkeep/internal/models"
	"github.com/listkeep-dev/listkeep/internal/stores"
	"github.com/listkeep-dev/listkeep/internal/types"
	"github.com/listkeep-dev/listkeep/internal/utils"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateTaskRequest uses pointers so an omitted field keeps its current
// value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type TaskHandler struct {
	tasks  *stores.TaskStore
	access *access.Evaluator
}

func NewTaskHandler(tasks *stores.TaskStore, evaluator *access.Evaluator) *TaskHandler {
	return &TaskHandler{tasks: tasks, access: evaluator}
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listID, ok := paramID(ctx, "list_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task list id"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.access.RequireRole(userID, listID, "Not authorized to create tasks in this list", models.RoleAdmin); err != nil {
		handleError(ctx, err)
		return
	}

	task, err := h.tasks.Create(listID, req.Title, req.Description)

	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewTaskResponse(task))
}

func (h *TaskHandler) ListByList(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	listID, ok := paramID(ctx, "list_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task list id"})
		return
	}

	if err := h.access.RequireParticipant(userID, listID, "Not authorized to view this list"); err != nil {
		handleError(ctx, err)
		return
	}

	tasks, err := h.tasks.ListByList(listID)

	if err != nil {
		handleError(ctx, err)
		return
	}

	response := make([]types.TaskResponse, 0, len(tasks))

	for i := range tasks {
		response = append(response, types.NewTaskResponse(&tasks[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// unknown task ids 404 before role evaluation
	task, err := h.tasks.FindByID(taskID)

	if err != nil {
		handleError(ctx, err)
		return
	}

	if err := h.access.RequireRole(userID, task.TaskListID, "Not authorized to update this task", models.RoleAdmin); err != nil {
		handleError(ctx, err)
		return
	}

	if req.Title != nil && *req.Title != "" {
		task.Title = *req.Title
	}

	if req.Description != nil && *req.Description != "" {
		task.Description = *req.Description
	}

	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.tasks.Save(task); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

func (h *TaskHandler) Toggle(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := h.tasks.FindByID(taskID)

	if err != nil {
		handleError(ctx, err)
		return
	}

	if err := h.access.RequireParticipant(userID, task.TaskListID, "Not authorized to modify this task"); err != nil {
		handleError(ctx, err)
		return
	}

	task.Completed = !task.Completed

	if err := h.tasks.Save(task); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskResponse(task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := h.tasks.FindByID(taskID)

	if err != nil {
		handleError(ctx, err)
		return
	}

	if err := h.access.RequireRole(userID, task.TaskListID, "Not authorized to delete this task", models.RoleAdmin); err != nil {
		handleError(ctx, err)
		return
	}

	if err := h.tasks.Delete(task.ID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task removed"})
}
