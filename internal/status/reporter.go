package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"subtitle2go/internal/logging"
)

// DefaultBuffer is the queue length used when none is configured.
const DefaultBuffer = 64

// Reporter fans events out to sinks asynchronously.
type Reporter struct {
	job    Job
	sinks  []Sink
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	closed   bool
	events   chan Event
	done     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// NewReporter starts a reporter for job. A buffer of zero or less uses
// DefaultBuffer.
func NewReporter(logger *slog.Logger, job Job, buffer int, sinks ...Sink) *Reporter {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if job.StartTime.IsZero() {
		job.StartTime = time.Now()
	}
	r := &Reporter{
		job:    job,
		sinks:  sinks,
		logger: logging.NewComponentLogger(logger, "status"),
		now:    time.Now,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
	go r.loop()
	return r
}

// Publish queues a progress message. Progress is dropped when the queue is
// full; the other kinds wait for room until Close.
func (r *Reporter) Publish(message string) { r.enqueue(KindProgress, message) }

// Warning signals that the job will finish with imprecise output.
func (r *Reporter) Warning(message string) { r.enqueue(KindWarning, message) }

// Error signals a fatal job failure.
func (r *Reporter) Error(message string) { r.enqueue(KindError, message) }

// Success signals job completion.
func (r *Reporter) Success(message string) { r.enqueue(KindSuccess, message) }

func (r *Reporter) enqueue(kind Kind, message string) {
	if r == nil {
		return
	}
	evt := Event{Kind: kind, Job: r.job, Message: message, Time: r.now()}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	if kind.Terminal() {
		select {
		case r.events <- evt:
			return
		default:
		}
		// Wait for room rather than lose the job outcome.
		select {
		case r.events <- evt:
		case <-r.stop:
			r.logger.Debug("status reporter closing; dropping event",
				logging.String("kind", string(kind)),
				logging.String("message", message),
			)
		}
		return
	}
	select {
	case r.events <- evt:
	default:
		r.logger.Debug("status queue full; dropping event",
			logging.String("kind", string(kind)),
			logging.String("message", message),
		)
	}
}

func (r *Reporter) loop() {
	defer close(r.done)
	for evt := range r.events {
		for _, sink := range r.sinks {
			if err := sink.Deliver(context.Background(), evt); err != nil {
				r.logger.Warn("status delivery failed",
					logging.String("kind", string(evt.Kind)),
					logging.Error(err),
				)
			}
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered or
// for ctx to end.
func (r *Reporter) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	r.stopOnce.Do(func() { close(r.stop) })
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
