// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/tasktide/tasktide/internal/model"
)

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TaskResponse represents a task in API responses.
// Field names match the persisted blob layout.
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
}

// TaskListResponse represents the grouped task list view.
type TaskListResponse struct {
	Pending   []TaskResponse `json:"pending"`
	Completed []TaskResponse `json:"completed"`
	Total     int            `json:"total"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task model.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		UserID:    task.UserID,
	}
}

// ToTaskListResponse converts grouped tasks to TaskListResponse.
func ToTaskListResponse(groups model.TaskGroups) TaskListResponse {
	pending := make([]TaskResponse, len(groups.Pending))
	for i, task := range groups.Pending {
		pending[i] = ToTaskResponse(task)
	}
	completed := make([]TaskResponse, len(groups.Completed))
	for i, task := range groups.Completed {
		completed[i] = ToTaskResponse(task)
	}
	return TaskListResponse{
		Pending:   pending,
		Completed: completed,
		Total:     groups.Total(),
	}
}
