package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
)

func decodeStatus(t *testing.T, body *json.Decoder) playback.Status {
	t.Helper()
	var st playback.Status
	if err := body.Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

func TestLoadClipRequiresActiveQuestion(t *testing.T) {
	r, _ := gameRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/game/playback/load", LoadClipRequest{})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestLoadClipRequiresAudioQuestion(t *testing.T) {
	r, _ := gameRouter(t)

	// (0,3) is a text-only question on the demo board.
	doJSON(t, r, http.MethodPost, "/api/game/select", SelectRequest{CategoryIndex: 0, QuestionIndex: 3})
	w := doJSON(t, r, http.MethodPost, "/api/game/playback/load", LoadClipRequest{})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestClipCommandsOverHTTP(t *testing.T) {
	r, _ := gameRouter(t)

	doJSON(t, r, http.MethodPost, "/api/game/select", SelectRequest{CategoryIndex: 3, QuestionIndex: 0})
	w := doJSON(t, r, http.MethodPost, "/api/game/playback/load", LoadClipRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("load: status = %d: %s", w.Code, w.Body.String())
	}
	st := decodeStatus(t, json.NewDecoder(w.Body))
	if st.State != playback.StateReady {
		t.Fatalf("state = %q after load, want %q", st.State, playback.StateReady)
	}
	if st.Provider != "clip" {
		t.Errorf("provider = %q, want clip", st.Provider)
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/playback/play", nil)
	if st = decodeStatus(t, json.NewDecoder(w.Body)); st.State != playback.StatePlaying {
		t.Fatalf("state = %q after play, want %q", st.State, playback.StatePlaying)
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/playback/pause", nil)
	if st = decodeStatus(t, json.NewDecoder(w.Body)); st.State != playback.StatePaused {
		t.Fatalf("state = %q after pause, want %q", st.State, playback.StatePaused)
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/playback/replay", nil)
	if st = decodeStatus(t, json.NewDecoder(w.Body)); st.State != playback.StatePlaying {
		t.Fatalf("state = %q after replay, want %q", st.State, playback.StatePlaying)
	}
}

func TestSpotifyProviderWithoutConfig(t *testing.T) {
	r, _ := gameRouter(t)

	doJSON(t, r, http.MethodPost, "/api/game/select", SelectRequest{CategoryIndex: 3, QuestionIndex: 0})
	w := doJSON(t, r, http.MethodPost, "/api/game/playback/load", LoadClipRequest{Provider: "spotify"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestUnknownProviderRejected(t *testing.T) {
	r, _ := gameRouter(t)

	doJSON(t, r, http.MethodPost, "/api/game/select", SelectRequest{CategoryIndex: 3, QuestionIndex: 0})
	w := doJSON(t, r, http.MethodPost, "/api/game/playback/load", LoadClipRequest{Provider: "vinyl"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
