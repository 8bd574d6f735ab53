package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/tasktide/tasktide/internal/kv"
	"github.com/tasktide/tasktide/internal/metrics"
	"github.com/tasktide/tasktide/internal/model"
	"github.com/tasktide/tasktide/internal/store"
)

func newTestList(t *testing.T) (*TaskList, *store.Store, *metrics.InMemoryRecorder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(kv.NewMemory(0), logger)
	recorder := metrics.NewInMemory()
	return NewTaskList(st, logger, recorder), st, recorder
}

func authedList(t *testing.T) (*TaskList, *store.Store, *metrics.InMemoryRecorder) {
	t.Helper()
	list, st, recorder := newTestList(t)
	user := &model.User{ID: "user-1", Email: "a@b.com"}
	if err := list.SetUser(context.Background(), user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}
	return list, st, recorder
}

func TestTaskList_Add_RequiresSession(t *testing.T) {
	t.Parallel()

	list, _, _ := newTestList(t)

	_, err := list.Add(context.Background(), "Buy milk")
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestTaskList_Add_RejectsEmptyTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tabs and newlines", "\t\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			list, _, _ := authedList(t)
			_, err := list.Add(context.Background(), tt.title)
			if !errors.Is(err, ErrEmptyTitle) {
				t.Errorf("expected ErrEmptyTitle, got %v", err)
			}
			if len(list.Tasks()) != 0 {
				t.Error("rejected add should not change state")
			}
		})
	}
}

func TestTaskList_Add_PrependsAndPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, st, recorder := authedList(t)

	first, err := list.Add(ctx, "first")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := list.Add(ctx, "second")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	tasks := list.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	// New tasks appear first
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Error("most recent task should be first")
	}

	// Persisted through the adapter
	stored, err := st.GetTasks(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetTasks failed: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("expected 2 persisted tasks, got %d", len(stored))
	}

	if recorder.Snapshot().TasksCreated != 2 {
		t.Errorf("TasksCreated = %d, want 2", recorder.Snapshot().TasksCreated)
	}
}

func TestTaskList_Add_TrimsTitle(t *testing.T) {
	t.Parallel()

	list, _, _ := authedList(t)

	task, err := list.Add(context.Background(), "  Buy milk  ")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("Title = %q, want trimmed %q", task.Title, "Buy milk")
	}
}

func TestTaskList_Toggle_IsOwnInverse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, _, _ := authedList(t)

	task, _ := list.Add(ctx, "Buy milk")

	toggled, err := list.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !toggled.Completed {
		t.Error("first toggle should complete the task")
	}

	toggledBack, err := list.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("second Toggle failed: %v", err)
	}
	if toggledBack.Completed {
		t.Error("second toggle should restore the original state")
	}
}

func TestTaskList_Toggle_UnknownID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, _, _ := authedList(t)
	_, _ = list.Add(ctx, "Buy milk")

	_, err := list.Toggle(ctx, "no-such-id")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if list.Tasks()[0].Completed {
		t.Error("unknown-id toggle should not change state")
	}
}

func TestTaskList_Delete_RemovesAndPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, st, _ := authedList(t)

	keep, _ := list.Add(ctx, "keep")
	remove, _ := list.Add(ctx, "remove")

	if err := list.Delete(ctx, remove.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	tasks := list.Tasks()
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("expected only %s to remain, got %v", keep.ID, tasks)
	}

	stored, _ := st.GetTasks(ctx, "user-1")
	if len(stored) != 1 || stored[0].ID != keep.ID {
		t.Error("delete should persist through the adapter")
	}
}

func TestTaskList_Delete_UnknownID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, _, _ := authedList(t)
	_, _ = list.Add(ctx, "Buy milk")

	err := list.Delete(ctx, "no-such-id")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if len(list.Tasks()) != 1 {
		t.Error("unknown-id delete should not change state")
	}
}

func TestTaskList_SetUser_LoadsOnlyOwnedTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, st, _ := newTestList(t)

	mine := model.NewTask("mine", "user-1")
	other := model.NewTask("theirs", "user-2")
	_, _ = st.AddTask(ctx, mine)
	_, _ = st.AddTask(ctx, other)

	if err := list.SetUser(ctx, &model.User{ID: "user-1"}); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	tasks := list.Tasks()
	if len(tasks) != 1 || tasks[0].ID != mine.ID {
		t.Errorf("expected only owned tasks, got %v", tasks)
	}
}

func TestTaskList_SetUser_NilClearsState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, _, _ := authedList(t)
	_, _ = list.Add(ctx, "Buy milk")

	if err := list.SetUser(ctx, nil); err != nil {
		t.Fatalf("SetUser(nil) failed: %v", err)
	}
	if len(list.Tasks()) != 0 {
		t.Error("Anonymous identity should clear the in-memory list")
	}
}

func TestTaskList_Scenario_LoginAddToggleLogout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	list, _, _ := newTestList(t)

	user := &model.User{ID: "user-123", Email: "a@b.com"}
	if err := list.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser failed: %v", err)
	}

	task, err := list.Add(ctx, "Buy milk")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	groups := list.Grouped()
	if len(groups.Pending) != 1 || groups.Pending[0].Title != "Buy milk" {
		t.Fatalf("pending = %v, want one task titled Buy milk", groups.Pending)
	}
	if len(groups.Completed) != 0 {
		t.Fatalf("completed should be empty, got %v", groups.Completed)
	}

	if _, err := list.Toggle(ctx, task.ID); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	groups = list.Grouped()
	if len(groups.Pending) != 0 {
		t.Errorf("pending should be empty after toggle, got %v", groups.Pending)
	}
	if len(groups.Completed) != 1 {
		t.Errorf("completed should have one entry, got %v", groups.Completed)
	}

	// Logout clears the view
	if err := list.SetUser(ctx, nil); err != nil {
		t.Fatalf("SetUser(nil) failed: %v", err)
	}
	groups = list.Grouped()
	if groups.Total() != 0 {
		t.Errorf("view should be empty after logout, got %d tasks", groups.Total())
	}

	// Re-login restores the persisted tasks
	if err := list.SetUser(ctx, user); err != nil {
		t.Fatalf("re-login SetUser failed: %v", err)
	}
	if list.Grouped().Total() != 1 {
		t.Error("re-login should reload the persisted task")
	}
}
