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

type CreateTaskListRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddParticipantRequest struct {
	Email string      `json:"email" binding:"required,email"`
	Role  models.Role `json:"role" binding:"required"`
}

type TaskListHandler struct {
	lists  *stores.TaskListStore
	users  *stores.UserStore
	access *access.Evaluator
}

func NewTaskListHandler(lists *stores.TaskListStore, users *stores.UserStore, evaluator *access.Evaluator) *TaskListHandler {
	return &TaskListHandler{lists: lists, users: users, access: evaluator}
}

func (h *TaskListHandler) Create(ctx *gin.Context) {
	var req CreateTaskListRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	list, err := h.lists.Create(req.Name, userID)

	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.NewTaskListResponse(list))
}

func (h *TaskListHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lists, err := h.lists.ListForUser(userID)

	if err != nil {
		handleError(ctx, err)
		return
	}

	response := make([]types.TaskListResponse, 0, len(lists))

	for i := range lists {
		response = append(response, types.NewTaskListResponse(&lists[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TaskListHandler) Delete(ctx *gin.Context) {
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

	if err := h.access.RequireOwner(userID, listID, "Not authorized to delete this task list"); err != nil {
		handleError(ctx, err)
		return
	}

	if err := h.lists.Delete(listID); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task list deleted successfully"})
}

func (h *TaskListHandler) AddParticipant(ctx *gin.Context) {
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

	var req AddParticipantRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.access.RequireOwner(userID, listID, "Only the owner can add participants"); err != nil {
		handleError(ctx, err)
		return
	}

	participant, err := h.users.FindByEmail(req.Email)

	if err != nil {
		handleError(ctx, err)
		return
	}

	list, err := h.lists.AddParticipant(listID, participant.ID, req.Role)

	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewTaskListResponse(list))
}
