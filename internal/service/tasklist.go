// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tasktide/tasktide/internal/metrics"
	"github.com/tasktide/tasktide/internal/model"
	"github.com/tasktide/tasktide/internal/store"
)

// Service errors.
var (
	ErrEmptyTitle   = errors.New("task title must not be empty")
	ErrNoSession    = errors.New("no authenticated session")
	ErrTaskNotFound = errors.New("task not found")
)

// TaskList is the in-memory source of truth for the active user's
// tasks. It reloads on identity changes, mutates on user actions, and
// persists the full collection through the store after each mutation.
type TaskList struct {
	store   *store.Store
	logger  *slog.Logger
	metrics metrics.Recorder

	mu    sync.RWMutex
	user  *model.User
	tasks []model.Task
}

// NewTaskList creates a TaskList over the persistence adapter.
func NewTaskList(st *store.Store, logger *slog.Logger, recorder metrics.Recorder) *TaskList {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskList{
		store:   st,
		logger:  logger,
		metrics: recorder,
	}
}

// SetUser switches the active identity, reloading tasks for the new
// user or clearing them when user is nil.
func (l *TaskList) SetUser(ctx context.Context, user *model.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.user = user
	if user == nil {
		l.tasks = nil
		return nil
	}

	tasks, err := l.store.GetTasks(ctx, user.ID)
	if err != nil {
		l.tasks = nil
		return fmt.Errorf("load tasks for user %s: %w", user.ID, err)
	}
	l.tasks = model.SortTasksByDate(tasks)
	return nil
}

// Add validates the title, creates the task, prepends it to the
// in-memory list, and persists it.
func (l *TaskList) Add(ctx context.Context, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.user == nil {
		return model.Task{}, ErrNoSession
	}

	task := model.NewTask(title, l.user.ID)
	if _, err := l.store.AddTask(ctx, task); err != nil {
		return model.Task{}, err
	}

	// New tasks appear first.
	l.tasks = append([]model.Task{task}, l.tasks...)
	l.metrics.IncTaskCreated()
	l.logger.Info("task_created", "task_id", task.ID, "user_id", task.UserID)
	return task, nil
}

// Toggle flips the completion flag of the matching task and persists
// the change. State is untouched when the id is unknown.
func (l *TaskList) Toggle(ctx context.Context, taskID string) (model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.user == nil {
		return model.Task{}, ErrNoSession
	}

	for i := range l.tasks {
		if l.tasks[i].ID != taskID {
			continue
		}

		updated := l.tasks[i]
		updated.Completed = !updated.Completed
		if _, err := l.store.UpdateTask(ctx, updated); err != nil {
			return model.Task{}, err
		}

		l.tasks[i] = updated
		l.metrics.IncTaskToggled()
		l.logger.Info("task_toggled", "task_id", taskID, "completed", updated.Completed)
		return updated, nil
	}

	return model.Task{}, ErrTaskNotFound
}

// Delete removes the matching task and persists the change. State is
// untouched when the id is unknown.
func (l *TaskList) Delete(ctx context.Context, taskID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.user == nil {
		return ErrNoSession
	}

	for i := range l.tasks {
		if l.tasks[i].ID != taskID {
			continue
		}

		if err := l.store.DeleteTask(ctx, taskID); err != nil {
			return err
		}

		l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
		l.metrics.IncTaskDeleted()
		l.logger.Info("task_deleted", "task_id", taskID)
		return nil
	}

	return ErrTaskNotFound
}

// Tasks returns a copy of the current in-memory tasks.
func (l *TaskList) Tasks() []model.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tasks := make([]model.Task, len(l.tasks))
	copy(tasks, l.tasks)
	return tasks
}

// Grouped returns the pending/completed partition of the current
// tasks, recomputed on every call.
func (l *TaskList) Grouped() model.TaskGroups {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.GroupTasksByStatus(l.tasks)
}
