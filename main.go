package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"emperror.dev/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/domain"
	"github.com/yhkl-dev/naviplayer/library"
	"github.com/yhkl-dev/naviplayer/player"
	"github.com/yhkl-dev/naviplayer/ui"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "naviplayer:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.NewFlagSet("naviplayer")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: naviplayer [flags] [file or URL ...]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if write, _ := flags.GetBool("write-default-config"); write {
		return config.WriteDefault(os.Stdout)
	}

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	tracks, err := library.NewLocalLibrary(afero.NewOsFs(), flags.Args()...).Tracks()
	if err != nil {
		logger.Warn().Err(err).Msg("some sources were skipped")
	}
	playlist := domain.NewPlaylist(tracks...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := ui.NewApp(cfg, playlist, logger)
	media, err := newMedia(ctx, cfg.Player.Backend, app.Dispatch, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := media.Close(); err != nil {
			logger.Error().Err(err).Msg("cannot close media backend")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return app.Run(gctx, media)
	})
	g.Go(func() error {
		<-gctx.Done()
		app.Stop()
		return nil
	})

	err = g.Wait()
	logger.Info().Err(err).Msg("naviplayer stopped")
	return err
}

// newMedia creates the configured backend
func newMedia(ctx context.Context, backend string, dispatch player.Dispatcher, logger zerolog.Logger) (player.Media, error) {
	logger = logger.With().Str("backend", backend).Logger()
	if backend == config.BackendBeep {
		media, err := player.NewBeepMedia(ctx, dispatch, logger)
		if err != nil {
			return nil, err
		}
		return media, nil
	}
	media, err := player.NewMPVMedia(ctx, dispatch, logger)
	if err != nil {
		return nil, err
	}
	return media, nil
}

// newLogger logs to the configured file, the terminal belongs to the UI
func newLogger(cfg config.LogConfig) (zerolog.Logger, func(), error) {
	if cfg.File == "" {
		return zerolog.Nop(), func() {}, nil
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrapf(config.ErrInvalidConfig, "log level %q", cfg.Level)
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrap(err, "cannot open log file")
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}
