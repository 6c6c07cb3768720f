package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/emmarodam/music-quiz-jeopardy/internal/playback"
)

// DeviceFactory builds playback widgets backed by a Connect device.
// This is the premium path: the clip plays on whatever device the
// moderator's account has active, driven over the web API player
// endpoints.
type DeviceFactory struct {
	Client      *Client
	AccessToken string
	DeviceID    string // optional; empty targets the active device
}

func (f *DeviceFactory) Name() string { return "spotify" }

// New verifies the account actually has a usable device before
// signalling ready; a premium token with no open player would
// otherwise accept commands into the void.
func (f *DeviceFactory) New(ctx context.Context, trackURI string, opts playback.Options, sink playback.EventSink) (playback.Widget, error) {
	d := &device{
		client:   f.Client,
		token:    f.AccessToken,
		deviceID: f.DeviceID,
		trackURI: trackURI,
		startMs:  opts.StartMs,
	}
	if err := d.checkDevice(ctx); err != nil {
		return nil, err
	}
	sink(playback.EventReady)
	d.sink = sink
	return d, nil
}

type device struct {
	client   *Client
	token    string
	deviceID string
	trackURI string
	startMs  int
	started  bool
	sink     playback.EventSink
}

func (d *device) checkDevice(ctx context.Context) error {
	var resp struct {
		Devices []struct {
			ID string `json:"id"`
		} `json:"devices"`
	}
	if err := d.client.getJSON(ctx, d.token, "/v1/me/player/devices", &resp); err != nil {
		return err
	}
	if len(resp.Devices) == 0 {
		return fmt.Errorf("no playback device available")
	}
	if d.deviceID == "" {
		d.deviceID = resp.Devices[0].ID
	}
	return nil
}

func (d *device) Play() error {
	var body string
	if !d.started {
		// First play loads the track at the clip start offset.
		b, _ := json.Marshal(map[string]any{
			"uris":        []string{d.trackURI},
			"position_ms": d.startMs,
		})
		body = string(b)
	}
	if err := d.put("/v1/me/player/play", body); err != nil {
		return err
	}
	d.started = true
	d.emit(playback.EventPlaying)
	return nil
}

func (d *device) Pause() error {
	if err := d.put("/v1/me/player/pause", ""); err != nil {
		return err
	}
	d.emit(playback.EventPaused)
	return nil
}

func (d *device) Seek(ms int) error {
	return d.put("/v1/me/player/seek?position_ms="+strconv.Itoa(ms), "")
}

func (d *device) Position() (int, error) {
	st, err := d.playerState()
	if err != nil {
		return 0, err
	}
	if !st.IsPlaying && st.ProgressMs >= st.Item.DurationMs && st.Item.DurationMs > 0 {
		d.emit(playback.EventEnded)
	}
	return st.ProgressMs, nil
}

func (d *device) Duration() (int, error) {
	st, err := d.playerState()
	if err != nil {
		return 0, err
	}
	return st.Item.DurationMs, nil
}

// Destroy pauses whatever is playing; losing the device mid-clip is
// not an error worth surfacing.
func (d *device) Destroy() error {
	if d.started {
		_ = d.put("/v1/me/player/pause", "")
	}
	return nil
}

func (d *device) emit(ev playback.Event) {
	if d.sink != nil {
		d.sink(ev)
	}
}

type playerState struct {
	IsPlaying  bool `json:"is_playing"`
	ProgressMs int  `json:"progress_ms"`
	Item       struct {
		DurationMs int `json:"duration_ms"`
	} `json:"item"`
}

func (d *device) playerState() (playerState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var st playerState
	if err := d.client.getJSON(ctx, d.token, "/v1/me/player", &st); err != nil {
		return playerState{}, err
	}
	return st, nil
}

func (d *device) put(path, body string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u := d.client.apiURL + path
	if d.deviceID != "" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + "device_id=" + url.QueryEscape(d.deviceID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("PUT %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("PUT %s: status %d", path, resp.StatusCode)
	}
	return nil
}
