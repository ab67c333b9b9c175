package types

import (
	"time"

	"github.com/listkeep-dev/listkeep/internal/models"
)

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ParticipantResponse struct {
	User UserResponse `json:"user"`
	Role models.Role  `json:"role"`
}

type TaskListResponse struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Owner        UserResponse          `json:"owner"`
	Participants []ParticipantResponse `json:"participants"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	TaskListID  uint      `json:"task_list_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func NewTaskListResponse(list *models.TaskList) TaskListResponse {
	participants := make([]ParticipantResponse, 0, len(list.Participants))

	for _, p := range list.Participants {
		participants = append(participants, ParticipantResponse{
			User: NewUserResponse(&p.User),
			Role: p.Role,
		})
	}

	return TaskListResponse{
		ID:           list.ID,
		Name:         list.Name,
		Owner:        NewUserResponse(&list.Owner),
		Participants: participants,
		CreatedAt:    list.CreatedAt,
		UpdatedAt:    list.UpdatedAt,
	}
}

func NewTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		TaskListID:  task.TaskListID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
