package server

import (
	"github.com/emmarodam/music-quiz-jeopardy/internal/game"
	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
)

// StateResponse is the wire form of a session snapshot, served by
// GET /api/game/state and embedded in every SSE event. Ranking and
// winner are derived here so clients never recompute scoring.
type StateResponse struct {
	Version            int64            `json:"version"`
	Game               *game.Game       `json:"game"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	ActiveQuestion     *game.Question   `json:"activeQuestion,omitempty"`
	PanelOpen          bool             `json:"panelOpen"`
	LastOutcome        game.Outcome     `json:"lastOutcome,omitempty"`
	CelebrationPending bool             `json:"celebrationPending"`
	AnsweredCount      int              `json:"answeredCount"`
	TotalQuestions     int              `json:"totalQuestions"`
	Complete           bool             `json:"complete"`
	Ranking            []game.Player    `json:"ranking,omitempty"`
	Winner             *game.Player     `json:"winner,omitempty"`
	Playback           *playback.Status `json:"playback,omitempty"`
}

func stateResponse(snap game.Snapshot, ctrl *playback.Controller) *StateResponse {
	resp := &StateResponse{
		Version:            snap.Version,
		Game:               snap.Game,
		CurrentPlayerIndex: snap.CurrentPlayerIndex,
		ActiveQuestion:     snap.ActiveQuestion,
		PanelOpen:          snap.PanelOpen,
		LastOutcome:        snap.LastOutcome,
		CelebrationPending: snap.CelebrationPending,
		AnsweredCount:      snap.AnsweredCount,
		Complete:           snap.Complete,
	}
	if snap.Game != nil {
		resp.TotalQuestions = snap.Game.TotalQuestions()
		resp.Ranking = game.Ranking(snap.Game.Players)
		if w, ok := game.Winner(snap.Game.Players); ok {
			resp.Winner = &w
		}
	}
	if ctrl != nil {
		st := ctrl.Status()
		if st.State != playback.StateUnloaded {
			resp.Playback = &st
		}
	}
	return resp
}
