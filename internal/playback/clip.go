package playback

import (
	"context"
	"sync"
	"time"
)

// ClipFactory produces wall-clock widgets: playback position is derived
// from elapsed time over a clip window of known length. This backs the
// embedded-widget path, where the audible clip runs in the browser and
// the server only mirrors its timing.
type ClipFactory struct {
	// Now is the clock; nil means time.Now. Tests inject their own.
	Now func() time.Time
}

func (f *ClipFactory) Name() string { return "clip" }

func (f *ClipFactory) New(_ context.Context, mediaID string, opts Options, sink EventSink) (Widget, error) {
	now := f.Now
	if now == nil {
		now = time.Now
	}
	d := opts.DurationMs
	if d <= 0 {
		d = 30000
	}
	c := &clip{
		mediaID:    mediaID,
		startMs:    opts.StartMs,
		durationMs: d,
		positionMs: opts.StartMs,
		now:        now,
		sink:       sink,
	}
	// A clock needs no initialization; it is ready immediately.
	sink(EventReady)
	return c, nil
}

type clip struct {
	mu         sync.Mutex
	mediaID    string
	startMs    int
	durationMs int
	now        func() time.Time

	playing    bool
	playedAt   time.Time // wall time of the last Play
	positionMs int       // position when not playing
	ended      bool
	sink       EventSink
}

func (c *clip) Play() error {
	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return nil
	}
	if c.ended || c.positionMs >= c.endMs() {
		c.positionMs = c.startMs
		c.ended = false
	}
	c.playing = true
	c.playedAt = c.now()
	c.mu.Unlock()
	c.sink(EventPlaying)
	return nil
}

func (c *clip) Pause() error {
	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return nil
	}
	c.positionMs = c.currentMs()
	c.playing = false
	c.mu.Unlock()
	c.sink(EventPaused)
	return nil
}

func (c *clip) Seek(ms int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positionMs = ms
	c.ended = false
	if c.playing {
		c.playedAt = c.now()
	}
	return nil
}

// Position also detects end-of-clip: once the window elapses the clip
// stops and emits EventEnded exactly once.
func (c *clip) Position() (int, error) {
	c.mu.Lock()
	pos := c.currentMs()
	if c.playing && pos >= c.endMs() {
		c.playing = false
		c.positionMs = c.endMs()
		c.ended = true
		pos = c.positionMs
		c.mu.Unlock()
		c.sink(EventEnded)
		return pos, nil
	}
	c.mu.Unlock()
	return pos, nil
}

func (c *clip) Duration() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endMs(), nil
}

func (c *clip) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	return nil
}

func (c *clip) currentMs() int {
	if !c.playing {
		return c.positionMs
	}
	return c.positionMs + int(c.now().Sub(c.playedAt)/time.Millisecond)
}

func (c *clip) endMs() int {
	return c.startMs + c.durationMs
}
