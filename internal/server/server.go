package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/basakil/webapi-bench/pkg/config"
	"github.com/basakil/webapi-bench/utils"
)

// Defaults are the listener settings used when the configuration is silent.
type Defaults struct {
	Host string
	Port int
}

// Server runs one HTTP handler on one listener
type Server struct {
	name       string
	httpServer *http.Server
	logger     *slog.Logger
	host       string
	port       int

	mu        sync.Mutex
	listener  net.Listener
	ready     chan struct{}
	readyOnce sync.Once
}

// ErrInvalidPort is returned when the configured port is not a number in 0..65535.
var ErrInvalidPort = errors.New("invalid port")

// New creates a server from its configuration sub-tree. Recognised keys:
// host, port and timeouts.{read,write,idle} in seconds, where 0 disables the
// timeout.
func New(name string, cfg *config.Config, handler http.Handler, logger *slog.Logger, defaults Defaults) (*Server, error) {
	host := cfg.GetStringWithDefault("host", defaults.Host)
	port, err := parsePort(cfg, defaults.Port)
	if err != nil {
		return nil, err
	}
	timeouts := cfg.GetSubConfig("timeouts")

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:      handler,
		ReadTimeout:  seconds(timeouts.GetIntWithDefault("read", 15)),
		WriteTimeout: seconds(timeouts.GetIntWithDefault("write", 15)),
		IdleTimeout:  seconds(timeouts.GetIntWithDefault("idle", 60)),
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelDebug),
	}

	return &Server{
		name:       name,
		httpServer: httpServer,
		logger:     logger.With("server", name),
		host:       host,
		port:       port,
		ready:      make(chan struct{}),
	}, nil
}

// parsePort reads port strictly: values such as RAW_PORT=tcp://10.0.0.7:8080,
// injected by container links, must fail instead of binding port 0.
func parsePort(cfg *config.Config, defaultPort int) (int, error) {
	if !cfg.Exists("port") {
		return defaultPort, nil
	}
	raw := strings.TrimSpace(cfg.GetString("port"))
	port, err := strconv.Atoi(raw)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("%w %q for %s.port", ErrInvalidPort, raw, cfg.Prefix())
	}
	return port, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Start binds the configured address and serves until the server is closed.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener. http.ErrServerClosed is reported as nil.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Info("Starting server", "address", ln.Addr().String(), "host", utils.GetHostname())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run starts the server and closes it as soon as ctx is done. In-flight
// requests are not drained.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Stopping server")
		if err := s.Close(); err != nil {
			return err
		}
		return <-errCh
	}
}

// Close stops the server immediately.
func (s *Server) Close() error {
	return s.httpServer.Close()
}

// Ready is closed once the server has a listener.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once listening, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Port returns the configured port
func (s *Server) Port() int {
	return s.port
}

// Name returns the server name used in logs
func (s *Server) Name() string {
	return s.name
}
