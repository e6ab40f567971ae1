package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/sentinel/internal/config"
	"codeberg.org/mutker/sentinel/internal/errors"
	"codeberg.org/mutker/sentinel/internal/export"
	"codeberg.org/mutker/sentinel/internal/logger"
	"codeberg.org/mutker/sentinel/internal/pid"
	"codeberg.org/mutker/sentinel/internal/source"
	"codeberg.org/mutker/sentinel/internal/supervisor"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, config.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	if cfg.PrintConfig {
		if err := cfg.Dump(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "failed to print config: %v\n", err)
			return 1
		}
		return 0
	}

	logger.Init(cfg.Level(), cfg.LogFormat)
	logger.Debug().Str("config_file", cfg.ConfigFile).Msg("Config loaded")

	if cfg.PIDFile != "" {
		if err := pid.Write(cfg.PIDFile); err != nil {
			logError(err, "Failed to write PID file")
			return 1
		}
		defer func() {
			if err := releasePID(cfg.PIDFile); err != nil {
				logError(err, "Failed to remove PID file")
			}
		}()
	}

	sup, err := build(cfg)
	if err != nil {
		logError(err, "Failed to initialize collection")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	sup.Start(ctx)
	<-ctx.Done()
	sup.Wait()

	logger.Info().Msg("Exiting...")

	return 0
}

// build creates the exporter and the supervisor around the platform sources.
func build(cfg *config.Config) (*supervisor.Supervisor, error) {
	errFactory := errors.New()

	sink, err := export.NewSink(cfg.ExportFormat)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err).WithMessage("Failed to create exporter")
	}

	sup, err := supervisor.New(cfg.Supervisor(), source.Platform(logger.Global()), sink)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err).WithMessage("Failed to create supervisor")
	}

	return sup, nil
}

func releasePID(path string) error {
	if err := pid.Remove(path); err != nil {
		return errors.New().Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func logError(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}
