package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const jobColumns = `id, file_id, media_path, engine, language, format, status, stage, message,
    output_path, warnings, error_message, created_at, updated_at, finished_at`

// Create records a new running job and returns it.
func (s *Store) Create(ctx context.Context, req NewJob) (*Job, error) {
	if req.MediaPath == "" {
		return nil, errors.New("media path is required")
	}
	fileID := req.FileID
	if fileID == "" {
		var err error
		if fileID, err = FileID(req.MediaPath); err != nil {
			return nil, err
		}
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := formatTime(time.Now())
	_, err := s.exec(ctx,
		`INSERT INTO jobs (
            id, file_id, media_path, engine, language, format, status,
            warnings, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		id, fileID, req.MediaPath, req.Engine, nullableString(req.Language), req.Format,
		StatusRunning, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.Get(ctx, id)
}

// UpdateProgress records the latest status message. An empty stage keeps the
// current one.
func (s *Store) UpdateProgress(ctx context.Context, id, stage, message string) error {
	res, err := s.exec(ctx,
		`UPDATE jobs SET stage = COALESCE(?, stage), message = ?, updated_at = ? WHERE id = ?`,
		nullableString(stage), nullableString(message), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return requireRow(res, id)
}

// Finish moves a job to a terminal status.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome) error {
	if !outcome.Status.Terminal() {
		return fmt.Errorf("finish job %s: status %q is not terminal", id, outcome.Status)
	}
	now := formatTime(time.Now())
	res, err := s.exec(ctx,
		`UPDATE jobs SET status = ?, output_path = ?, warnings = ?, error_message = ?,
            updated_at = ?, finished_at = ? WHERE id = ?`,
		outcome.Status, nullableString(outcome.OutputPath), outcome.Warnings,
		nullableString(outcome.Error), now, now, id,
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return requireRow(res, id)
}

// Get fetches a job by ID.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns jobs newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Delete removes a job record.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return requireRow(res, id)
}

// ClearFinished removes every job in a terminal status and returns the count.
func (s *Store) ClearFinished(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM jobs WHERE status IN (?, ?, ?)`,
		StatusSucceeded, StatusFailed, StatusKilled)
	if err != nil {
		return 0, fmt.Errorf("clear finished jobs: %w", err)
	}
	return res.RowsAffected()
}

// MarkAbandoned fails running jobs left behind by a crashed process.
func (s *Store) MarkAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))
	now := formatTime(time.Now())
	res, err := s.exec(ctx,
		`UPDATE jobs SET status = ?, error_message = ?, updated_at = ?, finished_at = ?
         WHERE status IN (?, ?) AND updated_at < ?`,
		StatusFailed, "abandoned: no progress recorded", now, now,
		StatusPending, StatusRunning, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("mark abandoned jobs: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res interface{ RowsAffected() (int64, error) }, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		job                                   Job
		language, stage, message, output, msg sql.NullString
		createdRaw, updatedRaw                string
		finishedRaw                           sql.NullString
	)
	if err := scanner.Scan(
		&job.ID, &job.FileID, &job.MediaPath, &job.Engine, &language, &job.Format,
		&job.Status, &stage, &message, &output, &job.Warnings, &msg,
		&createdRaw, &updatedRaw, &finishedRaw,
	); err != nil {
		return nil, err
	}
	job.Language = language.String
	job.Stage = stage.String
	job.Message = message.String
	job.OutputPath = output.String
	job.Error = msg.String
	if t, err := parseTimeString(createdRaw); err == nil {
		job.CreatedAt = t
	}
	if t, err := parseTimeString(updatedRaw); err == nil {
		job.UpdatedAt = t
	}
	if finishedRaw.Valid {
		if t, err := parseTimeString(finishedRaw.String); err == nil {
			job.FinishedAt = &t
		}
	}
	return &job, nil
}
