package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TasksCreated uint64
	TasksToggled uint64
	TasksDeleted uint64
	Logins       uint64
	Signups      uint64
	Logouts      uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	tasksCreated uint64
	tasksToggled uint64
	tasksDeleted uint64
	logins       uint64
	signups      uint64
	logouts      uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TasksCreated: atomic.LoadUint64(&m.tasksCreated),
		TasksToggled: atomic.LoadUint64(&m.tasksToggled),
		TasksDeleted: atomic.LoadUint64(&m.tasksDeleted),
		Logins:       atomic.LoadUint64(&m.logins),
		Signups:      atomic.LoadUint64(&m.signups),
		Logouts:      atomic.LoadUint64(&m.logouts),
	}
}

// IncTaskCreated increments the task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskToggled increments the task toggled counter.
func (m *InMemoryRecorder) IncTaskToggled() {
	atomic.AddUint64(&m.tasksToggled, 1)
}

// IncTaskDeleted increments the task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// IncLogin increments the login counter.
func (m *InMemoryRecorder) IncLogin() {
	atomic.AddUint64(&m.logins, 1)
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}
