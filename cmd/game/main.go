package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/demonattack/internal/audio"
	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/highscore"
	"github.com/tomz197/demonattack/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "demons: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetEnv("DEMONS_CONFIG", ""))
	if err != nil {
		return err
	}

	// stdout is the game screen, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("DEMONS_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.NewWithOptions(logOut, log.Options{
		Prefix:          "demons",
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})

	scorePath := cfg.HighScores.Path
	if scorePath == "" {
		if scorePath, err = highscore.DefaultPath(); err != nil {
			logger.Warn("high scores kept in memory", "err", err)
		}
	}
	scores := highscore.Open(scorePath, highscore.WithLogger(logger))

	var sink audio.Sink = audio.Nop{}
	if cfg.Audio.Enabled {
		synth := audio.NewSynth(cfg.Audio.Master, logger)
		if err := synth.Init(); err != nil {
			logger.Warn("audio unavailable, playing silently", "err", err)
		} else {
			defer synth.Close()
			sink = synth
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "seed", cfg.Seed, "scores", scorePath)
	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Config: cfg,
		Scores: scores,
		Sink:   sink,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}
