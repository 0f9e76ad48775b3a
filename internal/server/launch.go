package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/basakil/webapi-bench/pkg/config"
)

// BuildFunc creates the handler of a benchmark target.
type BuildFunc func(logger *slog.Logger) (http.Handler, error)

// Launch runs the target configured under the name sub-tree until SIGINT or
// SIGTERM and returns the process exit code. Every startup failure (bad
// configuration, held instance lock, route errors, bind errors) yields 1.
func Launch(name string, defaults Defaults, build BuildFunc) int {
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger := cfg.NewLogger()
	serverCfg := cfg.GetSubConfig(name)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	release, err := LockInstance(ctx, serverCfg, logger)
	if err != nil {
		logger.Error("Refusing to start", "server", name, "error", err)
		return 1
	}
	defer release()

	handler, err := build(logger)
	if err != nil {
		logger.Error("Failed to build routes", "server", name, "error", err)
		return 1
	}

	srv, err := New(name, serverCfg, handler, logger, defaults)
	if err != nil {
		logger.Error("Invalid server configuration", "server", name, "error", err)
		return 1
	}
	if err := srv.Run(ctx); err != nil {
		logger.Error("Server failed", "server", name, "error", err)
		return 1
	}
	return 0
}
