// Package lock serializes sort jobs that target the same destination.
package lock

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"darion/internal/domain/sorter"
)

const retryDelay = 50 * time.Millisecond

// FileLocker takes OS-level advisory locks stored under dir, so two
// processes sorting into the same destination also exclude each other.
type FileLocker struct {
	dir     string
	timeout time.Duration
}

// NewFileLocker creates the lock directory if needed
func NewFileLocker(dir string, timeout time.Duration) (*FileLocker, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "darion-locks")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	if timeout <= 0 {
		timeout = time.Second
	}
	return &FileLocker{dir: dir, timeout: timeout}, nil
}

// Lock acquires the lock for key, waiting at most the configured timeout.
// The returned func releases it.
func (l *FileLocker) Lock(ctx context.Context, key string) (func() error, error) {
	fl := flock.New(l.path(key))

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", sorter.ErrDestinationBusy, key)
		}
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", sorter.ErrDestinationBusy, key)
	}
	return fl.Unlock, nil
}

func (l *FileLocker) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(l.dir, fmt.Sprintf("%x.lock", sum[:12]))
}
