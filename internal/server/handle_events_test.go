package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEventsStreamSendsInitialSnapshot(t *testing.T) {
	e := testEnv(t)
	h := handleEvents(e)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/game/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h(rec, req)
		close(done)
	}()

	// The snapshot is written before the event loop; a short grace
	// period is enough for the goroutine to get there.
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after disconnect")
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q", got)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "event: state\n") {
		t.Fatalf("stream must open with a state event, got %q", body)
	}
	payload, _, ok := strings.Cut(strings.TrimPrefix(body, "event: state\ndata: "), "\n")
	if !ok {
		t.Fatalf("no data line in %q", body)
	}

	var ev SSEEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != "state" {
		t.Errorf("type = %q", ev.Type)
	}
	if ev.State == nil || ev.State.Game == nil {
		t.Fatal("initial event must carry the current snapshot")
	}
	if ev.State.TotalQuestions != 30 {
		t.Errorf("totalQuestions = %d, want 30", ev.State.TotalQuestions)
	}
}
