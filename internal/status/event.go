package status

import (
	"context"
	"time"
)

// Kind classifies an event.
type Kind string

const (
	KindProgress Kind = "progress"
	KindWarning  Kind = "warning"
	KindError    Kind = "error"
	KindSuccess  Kind = "success"
)

// Terminal reports whether the kind ends a job's status stream or changes its
// final outcome. Terminal events wait for queue room instead of being dropped.
func (k Kind) Terminal() bool {
	return k == KindWarning || k == KindError || k == KindSuccess
}

// Job identifies the job an event belongs to.
type Job struct {
	ID        string
	FileID    string
	MediaPath string
	StartTime time.Time
}

// Event is one status message.
type Event struct {
	Kind    Kind
	Job     Job
	Message string
	Time    time.Time
}

// Sink receives events. Implementations may block; the Reporter calls them
// off the pipeline goroutine.
type Sink interface {
	Deliver(ctx context.Context, evt Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, evt Event) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}
