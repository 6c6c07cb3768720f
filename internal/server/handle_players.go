package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
)

type AddPlayerRequest struct {
	Name string `json:"name"`
}

func handleAddPlayer(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddPlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		err := e.Session.AddPlayer(req.Name)
		switch {
		case errors.Is(err, game.ErrNoGame):
			writeError(w, http.StatusConflict, "no game loaded")
			return
		case errors.Is(err, game.ErrPlayerLimit):
			writeError(w, http.StatusConflict, "maximum of 4 teams")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, e.publishState("players_changed"))
	}
}

func handleRemovePlayer(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "playerID")

		err := e.Session.RemovePlayer(id)
		switch {
		case errors.Is(err, game.ErrNoGame):
			writeError(w, http.StatusConflict, "no game loaded")
			return
		case errors.Is(err, game.ErrPlayerLimit):
			writeError(w, http.StatusConflict, "minimum of 2 teams")
			return
		case errors.Is(err, game.ErrPlayerNotFound):
			writeError(w, http.StatusNotFound, "player not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, e.publishState("players_changed"))
	}
}

type UpdatePlayerRequest struct {
	Name  *string `json:"name,omitempty"`
	Emoji *string `json:"emoji,omitempty"`
}

func handleUpdatePlayer(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "playerID")

		var req UpdatePlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == nil && req.Emoji == nil {
			writeError(w, http.StatusBadRequest, "nothing to update")
			return
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				writeError(w, http.StatusBadRequest, "name must not be empty")
				return
			}
			if err := mapPlayerErr(w, e.Session.UpdatePlayerName(id, name)); err != nil {
				return
			}
		}
		if req.Emoji != nil {
			if err := mapPlayerErr(w, e.Session.UpdatePlayerEmoji(id, *req.Emoji)); err != nil {
				return
			}
		}

		writeJSON(w, http.StatusOK, e.publishState("players_changed"))
	}
}

// mapPlayerErr writes the error response for a player field update and
// reports whether one was written.
func mapPlayerErr(w http.ResponseWriter, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, game.ErrNoGame):
		writeError(w, http.StatusConflict, "no game loaded")
	case errors.Is(err, game.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "player not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
	return err
}

type TurnRequest struct {
	// PlayerIndex hands the turn to a specific team; omitted advances
	// to the next team in order.
	PlayerIndex *int `json:"playerIndex,omitempty"`
}

func handleTurn(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TurnRequest
		if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		var err error
		if req.PlayerIndex != nil {
			err = e.Session.SetCurrentPlayer(*req.PlayerIndex)
		} else {
			err = e.Session.NextPlayer()
		}
		switch {
		case errors.Is(err, game.ErrNoGame):
			writeError(w, http.StatusConflict, "no game loaded")
			return
		case errors.Is(err, game.ErrBadPlayerIndex):
			writeError(w, http.StatusBadRequest, "player index out of range")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, e.publishState("turn_changed"))
	}
}
