package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/demonattack/internal/audio"
	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/draw"
	"github.com/tomz197/demonattack/internal/highscore"
	"github.com/tomz197/demonattack/internal/hub"
	"github.com/tomz197/demonattack/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultScoresPath  = "/app/data/highscores.yml"
)

// server holds what every session shares.
type server struct {
	cfg    config.Config
	hub    *hub.Hub
	scores *highscore.Store
	logger *log.Logger
	ctx    context.Context
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "demons-ssh",
		ReportTimestamp: true,
	})
	if config.GetEnv("DEMONS_DEBUG", "") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scoresPath := config.GetEnv("DEMONS_SCORES", defaultScoresPath)

	cfg, err := config.Load(config.GetEnv("DEMONS_CONFIG", ""))
	if err != nil {
		logger.Fatal("bad config", "err", err)
	}
	// Sessions run at the configured rate but never faster than the link
	// comfortably carries.
	cfg.FPS = min(cfg.FPS, config.GetEnvInt("SSH_MAX_FPS", 60))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &server{
		cfg:    cfg,
		hub:    hub.New(logger.WithPrefix("hub")),
		scores: highscore.Open(scoresPath, highscore.WithLogger(logger)),
		logger: logger,
		ctx:    ctx,
	}
	logger.Info("config", "host", host, "port", port, "hostKey", hostKeyPath, "scores", scoresPath, "fps", cfg.FPS)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down", "players", srv.hub.Count())
	srv.hub.Shutdown(15 * time.Second)
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one game per SSH session.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := srv.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(srv.ctx, bufio.NewReader(sess), sess, loop.Options{
			Config:       srv.cfg,
			Scores:       srv.scores,
			Sink:         audio.NewBell(sess),
			TermSizeFunc: sizeTracker.getSize,
			Hub:          srv.hub,
			Username:     sess.User(),
			Inactivity:   true,
			Logger:       logger,
		})
		if err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
