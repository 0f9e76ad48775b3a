package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/basakil/webapi-bench/internal/filelock"
	"github.com/basakil/webapi-bench/pkg/config"
)

// LockInstance takes the lock file named by lock.file, so that only one
// process per benchmark target runs at a time. lock.timeout is the wait in
// seconds (default 1, 0 waits until ctx is done). Without lock.file it does
// nothing. The returned func releases the lock.
func LockInstance(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(), error) {
	path := cfg.GetStringWithDefault("lock.file", "")
	if path == "" {
		return func() {}, nil
	}
	timeout := seconds(cfg.GetIntWithDefault("lock.timeout", 1))

	lock, err := filelock.Acquire(ctx, path, timeout)
	if err != nil {
		return nil, fmt.Errorf("another instance holds %s: %w", path, err)
	}
	logger.Info("Instance lock acquired", "file", path)

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release instance lock", "file", path, "error", err)
		}
	}, nil
}
