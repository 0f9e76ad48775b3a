package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when the lock is still held by someone else
// when the timeout or the context deadline expires.
var ErrLockTimeout = errors.New("lock acquisition timeout")

const retryDelay = 10 * time.Millisecond

// Acquire takes an exclusive lock on path, creating parent directories as
// needed. It retries until the context deadline or, if ctx has none, until
// timeout; a non-positive timeout waits for as long as ctx allows. The caller
// releases the lock with Unlock.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lockCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && timeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fileLock := flock.New(path)
	locked, err := fileLock.TryLockContext(lockCtx, retryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}
		return nil, fmt.Errorf("failed to acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, path)
	}
	return fileLock, nil
}
