package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
	"github.com/emmarodam/music-quiz-jeopardy/internal/spotify"
)

// Env bundles the collaborators every handler closes over.
type Env struct {
	Logger   *slog.Logger
	Session  *game.Session
	Catalogs *CatalogStore
	Playback *playback.Controller
	Broker   *Broker
	// Spotify is nil when no client credentials are configured; the
	// related endpoints then answer 503 and the clip provider still
	// works.
	Spotify *spotify.Client
	// Moderator is nil when no password is configured; mutating
	// routes are then open.
	Moderator *ModeratorGate
	AppURL    string
	SPADir    string
	DB        *sql.DB
}

func addRoutes(r chi.Router, e *Env) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Music Quiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(e.Logger, e.DB))

	// Read-only surface: spectators may watch state and the stream.
	r.Get("/api/game/state", handleGameState(e))
	r.Get("/api/game/events", handleEvents(e))
	r.Get("/api/game/playback", handlePlaybackStatus(e))
	r.Get("/api/catalogs", handleListCatalogs(e))
	r.Get("/api/catalogs/{catalogID}", handleGetCatalog(e))

	r.Post("/api/moderator/login", handleModeratorLogin(e.Moderator))
	r.Post("/api/moderator/logout", handleModeratorLogout(e.Moderator))

	// Moderator surface — everything that mutates the session.
	r.Group(func(r chi.Router) {
		r.Use(moderatorMiddleware(e.Moderator))

		r.Post("/api/game/select", handleSelect(e))
		r.Post("/api/game/correct", handleJudge(e, true))
		r.Post("/api/game/wrong", handleJudge(e, false))
		r.Post("/api/game/close", handleClose(e))
		r.Post("/api/game/reset", handleReset(e))
		r.Post("/api/game/new", handleNewGame(e))
		r.Post("/api/game/load/{catalogID}", handleLoadCatalog(e))
		r.Post("/api/game/celebration/clear", handleClearCelebration(e))
		r.Post("/api/game/turn", handleTurn(e))

		r.Post("/api/game/players", handleAddPlayer(e))
		r.Patch("/api/game/players/{playerID}", handleUpdatePlayer(e))
		r.Delete("/api/game/players/{playerID}", handleRemovePlayer(e))

		r.Post("/api/game/playback/load", handleLoadClip(e))
		r.Post("/api/game/playback/play", handlePlaybackCommand(e, "play"))
		r.Post("/api/game/playback/pause", handlePlaybackCommand(e, "pause"))
		r.Post("/api/game/playback/replay", handlePlaybackCommand(e, "replay"))

		r.Post("/api/catalogs", handleSaveCatalog(e))
		r.Delete("/api/catalogs/{catalogID}", handleDeleteCatalog(e))
	})

	// Spotify collaborators (authoring + premium playback).
	r.Get("/api/spotify/login", handleSpotifyLogin(e))
	r.Get("/api/spotify/callback", handleSpotifyCallback(e))
	r.Get("/api/spotify/me", handleSpotifyMe(e))
	r.Get("/api/spotify/search", handleSpotifySearch(e))

	if e.SPADir != "" {
		if info, err := os.Stat(e.SPADir); err == nil && info.IsDir() {
			e.Logger.Info("serving SPA", "dir", e.SPADir)
			r.NotFound(handleSPA(e.SPADir))
		}
	}
}
