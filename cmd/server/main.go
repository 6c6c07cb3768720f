package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/emmarodam/music-quiz-jeopardy/internal/config"
	"github.com/emmarodam/music-quiz-jeopardy/internal/database"
	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
	"github.com/emmarodam/music-quiz-jeopardy/internal/migrations"
	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
	"github.com/emmarodam/music-quiz-jeopardy/internal/server"
	"github.com/emmarodam/music-quiz-jeopardy/internal/spotify"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite (saved catalogs) ---
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	catalogs := server.NewCatalogStore(db)
	if err := server.SeedDemo(ctx, logger, catalogs); err != nil {
		return fmt.Errorf("seeding demo catalog: %w", err)
	}

	// --- Session and collaborators ---
	session := game.NewSession()
	controller := playback.NewController(logger)
	defer controller.Close()

	var sp *spotify.Client
	if cfg.SpotifyClientID != "" {
		sp = spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURI)
		logger.Info("spotify client configured")
	}

	gate, err := server.NewModeratorGate(cfg.ModeratorPassword)
	if err != nil {
		return fmt.Errorf("hashing moderator password: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, &server.Env{
		Logger:    logger,
		Session:   session,
		Catalogs:  catalogs,
		Playback:  controller,
		Broker:    server.NewBroker(),
		Spotify:   sp,
		Moderator: gate,
		AppURL:    cfg.AppURL,
		SPADir:    cfg.SPADir,
		DB:        db,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
