package jobs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subtitle2go/internal/jobs"
)

func openStore(t *testing.T) *jobs.Store {
	t.Helper()
	store, err := jobs.Open(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndFinish(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	job, err := store.Create(ctx, jobs.NewJob{MediaPath: "/media/talk.mp4", Engine: "kaldi", Language: "de", Format: "vtt"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.ID == "" || job.Status != jobs.StatusRunning || job.FileID == "" {
		t.Fatalf("unexpected job %+v", job)
	}

	if err := store.UpdateProgress(ctx, job.ID, "segmentation", "Running subtitle segmentation..."); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if err := store.Finish(ctx, job.ID, jobs.Outcome{Status: jobs.StatusSucceeded, OutputPath: "/media/talk.vtt", Warnings: 2}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != jobs.StatusSucceeded || got.Warnings != 2 || got.OutputPath != "/media/talk.vtt" {
		t.Fatalf("unexpected finished job %+v", got)
	}
	if got.Stage != "segmentation" || got.FinishedAt == nil {
		t.Fatalf("expected stage and finish time, got %+v", got)
	}
	if got.Elapsed(time.Now()) < 0 {
		t.Fatal("elapsed must not be negative")
	}
}

func TestFinishRejectsNonTerminalStatus(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	job, err := store.Create(ctx, jobs.NewJob{MediaPath: "a.wav", Engine: "whisper", Format: "srt"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Finish(ctx, job.ID, jobs.Outcome{Status: jobs.StatusRunning}); err == nil {
		t.Fatal("expected error for non-terminal status")
	}
}

func TestListFilterDeleteAndClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		job, err := store.Create(ctx, jobs.NewJob{MediaPath: name, Engine: "kaldi", Format: "vtt"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, job.ID)
	}
	if err := store.Finish(ctx, ids[0], jobs.Outcome{Status: jobs.StatusFailed, Error: "decode failed"}); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := store.Finish(ctx, ids[1], jobs.Outcome{Status: jobs.StatusKilled}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	running, err := store.List(ctx, jobs.StatusRunning)
	if err != nil || len(running) != 1 || running[0].ID != ids[2] {
		t.Fatalf("List running = %+v, %v", running, err)
	}

	cleared, err := store.ClearFinished(ctx)
	if err != nil || cleared != 2 {
		t.Fatalf("ClearFinished = %d, %v", cleared, err)
	}
	if err := store.Delete(ctx, ids[2]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, ids[2]); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, ids[2]); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMarkAbandoned(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	job, err := store.Create(ctx, jobs.NewJob{MediaPath: "x.mp4", Engine: "kaldi", Format: "vtt"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	n, err := store.MarkAbandoned(ctx, -time.Minute)
	if err != nil || n != 1 {
		t.Fatalf("MarkAbandoned = %d, %v", n, err)
	}
	got, _ := store.Get(ctx, job.ID)
	if got.Status != jobs.StatusFailed {
		t.Fatalf("expected failed, got %s", got.Status)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	store, err := jobs.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	job, err := store.Create(context.Background(), jobs.NewJob{MediaPath: "m.mp4", Engine: "kaldi", Format: "srt"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_ = store.Close()

	reopened, err := jobs.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(context.Background(), job.ID); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if _, err := os.Stat(reopened.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestAcquireLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.mp4")
	first, err := jobs.AcquireLock(filepath.Join(dir, "locks"), media)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if _, err := jobs.AcquireLock(filepath.Join(dir, "locks"), media); !errors.Is(err, jobs.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	second, err := jobs.AcquireLock(filepath.Join(dir, "locks"), media)
	if err != nil {
		t.Fatalf("AcquireLock after release: %v", err)
	}
	_ = second.Release()
}

func TestFileIDStable(t *testing.T) {
	a, err := jobs.FileID("dir/../talk.mp4")
	if err != nil {
		t.Fatalf("FileID: %v", err)
	}
	b, _ := jobs.FileID("talk.mp4")
	if a != b || len(a) != 16 {
		t.Fatalf("FileID mismatch %q vs %q", a, b)
	}
}
