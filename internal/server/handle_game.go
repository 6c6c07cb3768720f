package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
)

// publishState rebuilds the wire snapshot after a mutation and fans it
// out to SSE subscribers.
func (e *Env) publishState(eventType string) *StateResponse {
	resp := stateResponse(e.Session.Snapshot(), e.Playback)
	e.Broker.Publish(SSEEvent{Type: eventType, State: resp})
	if resp.Complete {
		e.Broker.Publish(SSEEvent{Type: "game_complete", State: resp})
	}
	return resp
}

func handleGameState(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stateResponse(e.Session.Snapshot(), e.Playback))
	}
}

type SelectRequest struct {
	CategoryIndex int `json:"categoryIndex"`
	QuestionIndex int `json:"questionIndex"`
}

func handleSelect(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		err := e.Session.SelectQuestion(game.Key{Category: req.CategoryIndex, Question: req.QuestionIndex})
		switch {
		case errors.Is(err, game.ErrNoGame):
			writeError(w, http.StatusConflict, "no game loaded")
			return
		case errors.Is(err, game.ErrNoSuchQuestion):
			writeError(w, http.StatusNotFound, "no question at that position")
			return
		case errors.Is(err, game.ErrAlreadyAnswered):
			writeError(w, http.StatusConflict, "question already answered")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// A new question tears down whatever clip was loaded before.
		e.Playback.Close()

		writeJSON(w, http.StatusOK, e.publishState("question_selected"))
	}
}

func handleJudge(e *Env, correct bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		if correct {
			err = e.Session.MarkCorrect()
		} else {
			err = e.Session.MarkWrong()
		}
		switch {
		case errors.Is(err, game.ErrNoGame):
			writeError(w, http.StatusConflict, "no game loaded")
			return
		case errors.Is(err, game.ErrNoActiveQuestion):
			writeError(w, http.StatusConflict, "no active question")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := stateResponse(e.Session.Snapshot(), e.Playback)
		e.Broker.Publish(SSEEvent{Type: "judged", State: resp, IsCorrect: correct})
		if resp.Complete {
			e.Broker.Publish(SSEEvent{Type: "game_complete", State: resp})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleClose(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := e.Session.CloseQuestion()
		switch {
		case errors.Is(err, game.ErrNoGame):
			writeError(w, http.StatusConflict, "no game loaded")
			return
		case errors.Is(err, game.ErrPanelClosed):
			writeError(w, http.StatusConflict, "no open question")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// The question is gone; its clip must not keep playing.
		e.Playback.Close()

		writeJSON(w, http.StatusOK, e.publishState("question_closed"))
	}
}

func handleReset(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := e.Session.ResetGame(); err != nil {
			writeError(w, http.StatusConflict, "no game loaded")
			return
		}
		e.Playback.Close()
		writeJSON(w, http.StatusOK, e.publishState("game_reset"))
	}
}

func handleNewGame(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.Session.NewGame()
		e.Playback.Close()
		writeJSON(w, http.StatusOK, e.publishState("game_loaded"))
	}
}

func handleLoadCatalog(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "catalogID")

		g, err := e.Catalogs.Get(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "catalog not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		e.Session.SetGame(g)
		e.Playback.Close()
		writeJSON(w, http.StatusOK, e.publishState("game_loaded"))
	}
}

func handleClearCelebration(e *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.Session.ClearCelebration()
		writeJSON(w, http.StatusOK, e.publishState("celebration_cleared"))
	}
}
