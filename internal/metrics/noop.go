package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncTaskCreated is a no-op.
func (n *NoopRecorder) IncTaskCreated() {}

// IncTaskToggled is a no-op.
func (n *NoopRecorder) IncTaskToggled() {}

// IncTaskDeleted is a no-op.
func (n *NoopRecorder) IncTaskDeleted() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin() {}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}

// IncLogout is a no-op.
func (n *NoopRecorder) IncLogout() {}
