package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
	"github.com/emmarodam/music-quiz-jeopardy/internal/spotify"
)

type LoadClipRequest struct {
	// Provider picks the adapter variant: "clip" (default) mirrors an
	// embedded widget or preview, "spotify" drives a Connect device
	// and needs a premium bearer token on the request.
	Provider string `json:"provider,omitempty"`
}

func handleLoadClip(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoadClipRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		snap := e.Session.Snapshot()
		q := snap.ActiveQuestion
		if q == nil {
			writeError(w, http.StatusConflict, "no active question")
			return
		}
		if !q.Type.HasAudio() {
			writeError(w, http.StatusConflict, "active question has no audio")
			return
		}

		opts := playback.Options{
			StartMs:    q.Media.StartMs,
			DurationMs: q.Media.ClipDurationMs(),
		}

		var (
			factory playback.Factory
			mediaID string
		)
		switch req.Provider {
		case "", "clip":
			factory = &playback.ClipFactory{}
			mediaID = q.Media.MediaID()
		case "spotify":
			if e.Spotify == nil {
				writeError(w, http.StatusServiceUnavailable, "spotify is not configured")
				return
			}
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "bearer token required for spotify playback")
				return
			}
			uri := q.Media.TrackURI
			if uri == "" && q.Media.TrackID != "" {
				uri = "spotify:track:" + q.Media.TrackID
			}
			if uri == "" {
				writeError(w, http.StatusConflict, "question has no track reference")
				return
			}
			factory = &spotify.DeviceFactory{Client: e.Spotify, AccessToken: token}
			mediaID = uri
		default:
			writeError(w, http.StatusBadRequest, "unknown provider")
			return
		}

		if mediaID == "" {
			writeError(w, http.StatusConflict, "question has no media reference")
			return
		}

		if err := e.Playback.Load(r.Context(), factory, mediaID, opts); err != nil {
			// Media failure degrades the question, never the session:
			// the moderator can still judge from text and answer.
			e.Logger.Warn("clip load failed", "provider", factory.Name(), "error", err)
			writeError(w, http.StatusBadGateway, "could not load clip")
			return
		}

		writeJSON(w, http.StatusOK, e.Playback.Status())
	}
}

func handlePlaybackStatus(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, e.Playback.Status())
	}
}

func handlePlaybackCommand(e *Env, cmd string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		switch cmd {
		case "play":
			err = e.Playback.Play()
		case "pause":
			err = e.Playback.Pause()
		case "replay":
			err = e.Playback.Replay()
		}
		if err != nil {
			e.Logger.Warn("playback command failed", "command", cmd, "error", err)
			writeError(w, http.StatusBadGateway, "playback command failed")
			return
		}
		writeJSON(w, http.StatusOK, e.Playback.Status())
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return ""
	}
	return token
}
