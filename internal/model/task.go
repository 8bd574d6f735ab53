// Package model defines domain entities for the application.
package model

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Task represents a single to-do item owned by a user.
// JSON tags match the persisted blob layout.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
}

// NewTask constructs a fresh task for the given owner.
// Title validation is the caller's responsibility.
func NewTask(title, userID string) Task {
	return Task{
		ID:        ulid.Make().String(),
		Title:     title,
		Completed: false,
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
	}
}

// SortTasksByDate returns a new slice ordered by creation time, most
// recent first. The input is not mutated. Tasks sharing a timestamp
// have unspecified relative order.
func SortTasksByDate(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// TaskGroups holds tasks partitioned by completion status.
type TaskGroups struct {
	Pending   []Task `json:"pending"`
	Completed []Task `json:"completed"`
}

// Total returns the combined size of both partitions.
func (g TaskGroups) Total() int {
	return len(g.Pending) + len(g.Completed)
}

// GroupTasksByStatus partitions tasks by the Completed flag,
// preserving relative order within each partition. Every input task
// lands in exactly one partition.
func GroupTasksByStatus(tasks []Task) TaskGroups {
	groups := TaskGroups{
		Pending:   make([]Task, 0, len(tasks)),
		Completed: make([]Task, 0),
	}
	for _, task := range tasks {
		if task.Completed {
			groups.Completed = append(groups.Completed, task)
		} else {
			groups.Pending = append(groups.Pending, task)
		}
	}
	return groups
}
