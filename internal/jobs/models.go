package jobs

import "time"

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusKilled    Status = "killed"
)

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusKilled:
		return true
	}
	return false
}

// Job is one subtitle generation request.
type Job struct {
	ID         string
	FileID     string
	MediaPath  string
	Engine     string
	Language   string
	Format     string
	Status     Status
	Stage      string
	Message    string
	OutputPath string
	Warnings   int
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt *time.Time
}

// Elapsed returns the time from creation to finish, or to now for running
// jobs.
func (j *Job) Elapsed(now time.Time) time.Duration {
	if j == nil {
		return 0
	}
	end := now
	if j.FinishedAt != nil {
		end = *j.FinishedAt
	}
	if end.Before(j.CreatedAt) {
		return 0
	}
	return end.Sub(j.CreatedAt)
}

// NewJob carries the fields known at submission.
type NewJob struct {
	// ID and FileID are generated when empty.
	ID        string
	FileID    string
	MediaPath string
	Engine    string
	Language  string
	Format    string
}

// Outcome is recorded when a job finishes.
type Outcome struct {
	Status     Status
	OutputPath string
	Warnings   int
	Error      string
}
