package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tasktide/tasktide/internal/kv"
	"github.com/tasktide/tasktide/internal/model"
)

// loadTasks reads the full task collection across all users.
// An absent blob is an empty collection; a malformed blob degrades to
// empty and is logged rather than propagated.
func (s *Store) loadTasks(ctx context.Context) ([]model.Task, error) {
	raw, err := s.kv.Get(ctx, tasksKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.logger.Warn("malformed task blob, treating as empty", "error", err)
		return []model.Task{}, nil
	}
	return tasks, nil
}

func (s *Store) saveTasks(ctx context.Context, tasks []model.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := s.kv.Set(ctx, tasksKey, string(data)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// GetTasks returns the stored tasks owned by userID. The shared
// collection is partitioned at read time by filtering.
func (s *Store) GetTasks(ctx context.Context, userID string) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.UserID == userID {
			owned = append(owned, task)
		}
	}
	return owned, nil
}

// AddTask appends the task to the stored collection and returns it
// unchanged.
func (s *Store) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}

	tasks = append(tasks, task)
	if err := s.saveTasks(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces the stored task matching the input's ID.
// An unknown ID is a silent no-op; the input is returned either way.
func (s *Store) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}

	found := false
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = task
			found = true
			break
		}
	}
	if !found {
		return task, nil
	}

	if err := s.saveTasks(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// DeleteTask removes the stored task matching taskID.
// Deleting an unknown ID is a silent no-op.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return err
	}

	remaining := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != taskID {
			remaining = append(remaining, task)
		}
	}
	if len(remaining) == len(tasks) {
		return nil
	}

	return s.saveTasks(ctx, remaining)
}
