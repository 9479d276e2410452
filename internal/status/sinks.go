package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subtitle2go/internal/jobs"
	"subtitle2go/internal/logging"
)

const userAgent = "subtitle2go/0.1.0"

// LogSink writes every event to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink that logs through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logging.NewComponentLogger(logger, "status")}
}

// Deliver implements Sink.
func (s *LogSink) Deliver(ctx context.Context, evt Event) error {
	attrs := []logging.Attr{
		logging.String(logging.FieldJobID, evt.Job.ID),
		logging.String(logging.FieldFileID, evt.Job.FileID),
		logging.String("kind", string(evt.Kind)),
		logging.Duration("elapsed", evt.Time.Sub(evt.Job.StartTime)),
	}
	level := slog.LevelInfo
	switch evt.Kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	msg := evt.Message
	if msg == "" {
		msg = string(evt.Kind)
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return nil
}

// CallbackSink notifies an HTTP endpoint when a job ends. Warnings and errors
// send message=false, success sends message=true. Progress events are not
// forwarded.
type CallbackSink struct {
	endpoint string
	client   *http.Client
}

// NewCallbackSink returns nil when endpoint is empty.
func NewCallbackSink(endpoint string, timeout time.Duration) *CallbackSink {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CallbackSink{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

// Deliver implements Sink.
func (s *CallbackSink) Deliver(ctx context.Context, evt Event) error {
	if s == nil || s.client == nil {
		return nil
	}
	var value string
	switch evt.Kind {
	case KindSuccess:
		value = "true"
	case KindWarning, KindError:
		value = "false"
	default:
		return nil
	}

	form := url.Values{"message": {value}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("callback returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// RegistrySink mirrors progress messages into the job registry so `jobs show`
// can display the latest one.
type RegistrySink struct {
	store *jobs.Store
}

// NewRegistrySink returns nil when store is nil.
func NewRegistrySink(store *jobs.Store) *RegistrySink {
	if store == nil {
		return nil
	}
	return &RegistrySink{store: store}
}

// Deliver implements Sink.
func (s *RegistrySink) Deliver(ctx context.Context, evt Event) error {
	if s == nil || evt.Job.ID == "" || evt.Message == "" {
		return nil
	}
	return s.store.UpdateProgress(ctx, evt.Job.ID, "", evt.Message)
}

// Collect drops nil sinks so optional sinks can be passed unconditionally.
func Collect(sinks ...Sink) []Sink {
	out := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		switch s := sink.(type) {
		case nil:
			continue
		case *CallbackSink:
			if s == nil {
				continue
			}
		case *RegistrySink:
			if s == nil {
				continue
			}
		}
		out = append(out, sink)
	}
	return out
}
