package webhook

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nickustinov/homebar/internal/action"
	"github.com/nickustinov/homebar/internal/infrastructure/config"
	"github.com/nickustinov/homebar/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// CommandExecutor runs a parsed command. *action.Engine implements it.
type CommandExecutor interface {
	Execute(ctx context.Context, req action.Request) action.Outcome
}

// BridgeStatus reports the state of the link to the home platform.
// *bridge.Executor implements it.
type BridgeStatus interface {
	BreakerState() string
}

// SnapshotVersioner reports how many snapshots have been published.
// *home.Store implements it.
type SnapshotVersioner interface {
	Version() uint64
}

// Deps holds the dependencies required by the webhook server.
type Deps struct {
	Config    config.WebhookConfig
	Pro       bool
	Logger    *logging.Logger
	Engine    CommandExecutor   // nil answers every command with 500
	Groups    GroupStore        // nil answers every group request with 500
	Bridge    BridgeStatus      // optional, reported by /health
	Snapshots SnapshotVersioner // optional, reported by /health
	Metrics   *Metrics          // nil creates a private set
	Version   string
}

// Server is the webhook HTTP server.
type Server struct {
	cfg       config.WebhookConfig
	pro       bool
	logger    *logging.Logger
	engine    CommandExecutor
	groups    GroupStore
	bridge    BridgeStatus
	snapshots SnapshotVersioner
	metrics   *Metrics
	limiter   *rate.Limiter
	version   string
	server    *http.Server
	listener  net.Listener

	cancel    context.CancelFunc
	stopped   chan error
	closeOnce sync.Once
	closeErr  error
}

// New creates a webhook server. It is not listening until Start is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If the logger is missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Server{
		cfg:       deps.Config,
		pro:       deps.Pro,
		logger:    deps.Logger,
		engine:    deps.Engine,
		groups:    deps.Groups,
		bridge:    deps.Bridge,
		snapshots: deps.Snapshots,
		metrics:   metrics,
		version:   deps.Version,
	}

	if rl := deps.Config.RateLimit; rl.Enabled && rl.RequestsPerMinute > 0 {
		burst := rl.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.RequestsPerMinute)), burst)
	}

	return s, nil
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start binds the listener and serves in a background goroutine. The server
// shuts down gracefully when ctx is cancelled or Close is called.
//
// Returns:
//   - error: If the address cannot be bound (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding webhook listener on %s: %w", addr, err)
	}
	s.listener = ln

	srvCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan error, 1)

	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("webhook server error", "error", err)
		}
	}()

	go func() {
		<-srvCtx.Done()
		s.stopped <- s.shutdown()
	}()

	s.logger.Info("webhook listening", "address", ln.Addr().String(), "pro", s.pro)
	return nil
}

// Port returns the bound TCP port, or 0 before Start.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// Close gracefully shuts down the server, waiting up to 10 seconds for
// in-flight requests. It is safe to call more than once.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = <-s.stopped
	})
	return s.closeErr
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("webhook server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("webhook shutdown incomplete", "error", err)
		return fmt.Errorf("shutting down webhook server: %w", err)
	}
	return nil
}
