package jobs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked means another process is already working on the media file.
var ErrLocked = errors.New("media file is already being processed")

// Lock is an exclusive, process-wide claim on one media file.
type Lock struct {
	lock *flock.Flock
}

// AcquireLock takes the lock for mediaPath without blocking. Lock files live
// in lockDir and are keyed by FileID.
func AcquireLock(lockDir, mediaPath string) (*Lock, error) {
	fileID, err := FileID(mediaPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock dir: %w", err)
	}
	fl := flock.New(filepath.Join(lockDir, fileID+".lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, mediaPath)
	}
	return &Lock{lock: fl}, nil
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
