package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tttarena/internal/runner"
	"github.com/vovakirdan/tttarena/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tttarena/host_key.
	HostKeyPath string

	// DBPath is the path to the runs database. Empty disables saving.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Delay is the initial pause between rendered placements.
	Delay time.Duration

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.tttarena/runs.db",
		IdleTimeout: 30 * time.Minute,
		Delay:       50 * time.Millisecond,
	}
}

// Session is one simulation prepared for a connected viewer.
type Session struct {
	Runner *runner.Runner
	Width  int
	Height int
}

// SessionFactory builds the simulation for a seed.
type SessionFactory func(seed int64) (Session, error)

// SSHServer serves live simulations over SSH. Each connection watches one
// run; the seed comes from the ssh command line ("ssh host 42") or the clock.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store
	factory SessionFactory
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, factory SessionFactory) (*SSHServer, error) {
	if factory == nil {
		return nil, errors.New("ssh: session factory is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tttarena-ssh",
		})
	}

	srv := &SSHServer{
		config:  cfg,
		factory: factory,
		logger:  logger,
	}

	if cfg.DBPath != "" {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("could not open runs database", "error", err)
			// Continue without storage
		} else {
			srv.store = store
		}
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.closeStore()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tttarena", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// SessionSeed picks the seed for a session from its command arguments.
func SessionSeed(args []string, now func() time.Time) (int64, error) {
	if len(args) == 0 {
		return now().UnixNano(), nil
	}
	seed, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", args[0])
	}
	return seed, nil
}

// teaHandler starts a run for the session and returns the model watching it.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		wish.Fatalln(sshSession, "no PTY requested; use ssh -t")
		return nil, nil
	}

	seed, err := SessionSeed(sshSession.Command(), time.Now)
	if err != nil {
		wish.Fatalln(sshSession, err.Error())
		return nil, nil
	}

	sess, err := s.factory(seed)
	if err != nil {
		s.logger.Error("cannot prepare session", "seed", seed, "error", err)
		wish.Fatalln(sshSession, "cannot start run:", err.Error())
		return nil, nil
	}

	ctx := sshSession.Context()
	obs := NewChannelObserver(ctx)
	go s.run(ctx, sess, seed, obs)

	title := fmt.Sprintf("%s · seed %d", sshSession.User(), seed)
	model := NewWatchModel(obs, title, s.config.Delay, DefaultTheme())
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) run(ctx context.Context, sess Session, seed int64, obs *ChannelObserver) {
	res, err := sess.Runner.Run(ctx, time.Now(), obs)
	if err != nil {
		s.logger.Error("run failed", "seed", seed, "error", err)
		return
	}

	if s.store != nil && res.Reason != runner.StopCanceled {
		if _, saveErr := s.store.SaveRun(storage.RecordFromResult(res, sess.Width, sess.Height)); saveErr != nil {
			s.logger.Warn("could not save run", "seed", seed, "error", saveErr)
		}
	}

	obs.Finish(res)
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
