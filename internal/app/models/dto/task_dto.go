package dto

import (
	"time"

	"github.com/yigit/learncircle/internal/app/models"
)

// CreateTaskRequest represents a new task; DueDate is parsed by the service
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Problem set 1"`
	Description string `json:"description" binding:"required" example:"Exercises 1-10"`
	DueDate     string `json:"due_date" binding:"required" example:"2025-05-01T18:00:00"`
	CircleID    int64  `json:"circle_id" binding:"required,min=1" example:"1"`
}

// CompleteTaskRequest identifies the user completing a task
type CompleteTaskRequest struct {
	UserID int64 `json:"user_id" binding:"required,min=1" example:"2"`
}

// TaskCreatedResponse is returned after creating a task
type TaskCreatedResponse struct {
	ID          int64     `json:"id" example:"3"`
	Title       string    `json:"title" example:"Problem set 1"`
	Description string    `json:"description" example:"Exercises 1-10"`
	DueDate     time.Time `json:"due_date"`
}

// TaskResponse is one element of a circle's task list
type TaskResponse struct {
	ID              int64     `json:"id" example:"3"`
	Title           string    `json:"title" example:"Problem set 1"`
	Description     string    `json:"description" example:"Exercises 1-10"`
	DueDate         time.Time `json:"due_date"`
	CreatedAt       time.Time `json:"created_at"`
	CompletionCount int       `json:"completion_count" example:"4"`
}

// ToTaskCreatedResponse transforms a new task
func ToTaskCreatedResponse(t *models.Task) TaskCreatedResponse {
	return TaskCreatedResponse{ID: t.ID, Title: t.Title, Description: t.Description, DueDate: t.DueDate}
}

// ToTaskList transforms a circle's tasks
func ToTaskList(tasks []*models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskResponse{
			ID:              t.ID,
			Title:           t.Title,
			Description:     t.Description,
			DueDate:         t.DueDate,
			CreatedAt:       t.CreatedAt,
			CompletionCount: t.CompletionCount,
		})
	}
	return out
}
