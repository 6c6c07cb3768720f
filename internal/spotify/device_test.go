package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
)

// fakePlayerAPI records player endpoint calls and serves canned state.
type fakePlayerAPI struct {
	mu      sync.Mutex
	devices []string
	puts    []string // method-less paths with query
	playReq map[string]any
	state   playerState
}

func (f *fakePlayerAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/me/player/devices":
			type dev struct {
				ID string `json:"id"`
			}
			var out struct {
				Devices []dev `json:"devices"`
			}
			for _, id := range f.devices {
				out.Devices = append(out.Devices, dev{ID: id})
			}
			json.NewEncoder(w).Encode(out)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/me/player":
			json.NewEncoder(w).Encode(f.state)
		case r.Method == http.MethodPut:
			f.puts = append(f.puts, r.URL.Path+"?"+r.URL.RawQuery)
			if r.URL.Path == "/v1/me/player/play" && r.ContentLength > 0 {
				f.playReq = map[string]any{}
				json.NewDecoder(r.Body).Decode(&f.playReq)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newDeviceWidget(t *testing.T, api *fakePlayerAPI) (playback.Widget, *[]playback.Event) {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	c := NewClient("id", "secret", "http://localhost/cb", WithBaseURLs(srv.URL, srv.URL))
	f := &DeviceFactory{Client: c, AccessToken: "tok"}

	var events []playback.Event
	w, err := f.New(context.Background(), "spotify:track:t1", playback.Options{StartMs: 15000}, func(ev playback.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("new device widget: %v", err)
	}
	return w, &events
}

func TestDeviceReadyNeedsDevice(t *testing.T) {
	api := &fakePlayerAPI{} // no devices
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	c := NewClient("id", "secret", "http://localhost/cb", WithBaseURLs(srv.URL, srv.URL))
	f := &DeviceFactory{Client: c, AccessToken: "tok"}

	_, err := f.New(context.Background(), "spotify:track:t1", playback.Options{}, func(playback.Event) {})
	if err == nil {
		t.Fatal("expected error when no device is available")
	}
}

func TestDeviceFirstPlaySendsTrackAndOffset(t *testing.T) {
	api := &fakePlayerAPI{devices: []string{"dev-1"}}
	w, events := newDeviceWidget(t, api)

	if len(*events) != 1 || (*events)[0] != playback.EventReady {
		t.Fatalf("events = %v, want [ready]", *events)
	}

	if err := w.Play(); err != nil {
		t.Fatalf("play: %v", err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if api.playReq == nil {
		t.Fatal("first play must carry a request body")
	}
	uris, _ := api.playReq["uris"].([]any)
	if len(uris) != 1 || uris[0] != "spotify:track:t1" {
		t.Errorf("uris = %v", uris)
	}
	if pos, _ := api.playReq["position_ms"].(float64); pos != 15000 {
		t.Errorf("position_ms = %v, want 15000", api.playReq["position_ms"])
	}
	if len(api.puts) != 1 || !strings.Contains(api.puts[0], "device_id=dev-1") {
		t.Errorf("puts = %v, want play targeted at dev-1", api.puts)
	}
}

func TestDevicePositionReportsEnd(t *testing.T) {
	api := &fakePlayerAPI{devices: []string{"dev-1"}}
	api.state = playerState{IsPlaying: false, ProgressMs: 213573}
	api.state.Item.DurationMs = 213573

	w, events := newDeviceWidget(t, api)

	pos, err := w.Position()
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos != 213573 {
		t.Errorf("position = %d", pos)
	}
	found := false
	for _, ev := range *events {
		if ev == playback.EventEnded {
			found = true
		}
	}
	if !found {
		t.Error("reaching the track end must emit ended")
	}
}
