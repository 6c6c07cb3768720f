// Package playback drives an audio-bearing clip through a small
// ready/play/pause/progress lifecycle. The Controller is provider
// agnostic: anything that can play, pause, seek, and report time works,
// whether it is a wall-clock preview clip or a streaming-service device.
package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State of the controller's clip.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StatePlaying  State = "playing"
	StatePaused   State = "paused"
	StateEnded    State = "ended"
)

// Event is a provider-originated lifecycle signal.
type Event string

const (
	EventReady   Event = "ready"
	EventPlaying Event = "playing"
	EventPaused  Event = "paused"
	EventEnded   Event = "ended"
)

// EventSink receives provider events. Providers may call it from any
// goroutine.
type EventSink func(Event)

// Widget is the handle a provider gives out for one loaded clip.
// All times are in milliseconds.
type Widget interface {
	Play() error
	Pause() error
	Seek(ms int) error
	Position() (int, error)
	Duration() (int, error)
	Destroy() error
}

// Options describe the clip window to play.
type Options struct {
	// StartMs is where the clip window begins within the track.
	StartMs int
	// DurationMs is the window length; 0 means play to the end and
	// compute progress against the widget-reported duration.
	DurationMs int
}

// Factory creates widgets for one concrete provider.
type Factory interface {
	// Name identifies the provider ("clip", "spotify", ...).
	Name() string
	// New loads mediaID and must eventually deliver EventReady on sink.
	New(ctx context.Context, mediaID string, opts Options, sink EventSink) (Widget, error)
}

// DefaultPollInterval is how often progress is sampled while playing.
const DefaultPollInterval = 500 * time.Millisecond

// Controller owns one widget at a time and enforces the lifecycle:
// commands are ignored until the provider signals ready, progress is
// polled only while playing, and teardown is unconditional.
type Controller struct {
	logger   *slog.Logger
	interval time.Duration

	mu       sync.Mutex
	provider string
	widget   Widget
	opts     Options
	state    State
	progress float64
	stop     chan struct{}
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{
		logger:   logger,
		interval: DefaultPollInterval,
		state:    StateUnloaded,
	}
}

// Status is the controller's published view of the clip.
type Status struct {
	Provider string  `json:"provider,omitempty"`
	State    State   `json:"state"`
	Progress float64 `json:"progress"`
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{Provider: c.provider, State: c.state, Progress: c.progress}
}

// Load tears down any previous widget and acquires a new one from f.
// The controller stays in Loading until the provider delivers
// EventReady; until then Play, Pause, and Replay are ignored.
func (c *Controller) Load(ctx context.Context, f Factory, mediaID string, opts Options) error {
	c.Close()

	c.mu.Lock()
	c.provider = f.Name()
	c.state = StateLoading
	c.progress = 0
	c.opts = opts
	c.mu.Unlock()

	w, err := f.New(ctx, mediaID, opts, c.handleEvent)
	if err != nil {
		c.mu.Lock()
		c.state = StateUnloaded
		c.provider = ""
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.state == StateUnloaded {
		c.mu.Unlock()
		// Closed while loading; release the late widget.
		return w.Destroy()
	}
	// Events may already have arrived during New; an eager provider can
	// have moved the state past Ready before the widget was recorded,
	// so polling is started here instead.
	c.widget = w
	if c.state == StatePlaying {
		c.startPollingLocked()
	}
	c.mu.Unlock()
	return nil
}

// Play starts playback. Ignored unless the clip is ready or paused.
func (c *Controller) Play() error {
	c.mu.Lock()
	w, ok := c.widget, c.state == StateReady || c.state == StatePaused
	c.mu.Unlock()
	if !ok || w == nil {
		return nil
	}
	return w.Play()
}

// Pause stops playback. Ignored unless the clip is playing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	w, ok := c.widget, c.state == StatePlaying
	c.mu.Unlock()
	if !ok || w == nil {
		return nil
	}
	return w.Pause()
}

// Replay seeks back to the clip start and plays again. Legal from
// playing, paused, and ended.
func (c *Controller) Replay() error {
	c.mu.Lock()
	w := c.widget
	ok := c.state == StatePlaying || c.state == StatePaused || c.state == StateEnded
	start := c.opts.StartMs
	c.mu.Unlock()
	if !ok || w == nil {
		return nil
	}
	if err := w.Seek(start); err != nil {
		return err
	}
	return w.Play()
}

// Close releases the widget regardless of state. Safe to call multiple
// times; the question-change path and the shutdown path both use it.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopPollingLocked()
	w := c.widget
	c.widget = nil
	c.provider = ""
	c.state = StateUnloaded
	c.progress = 0
	c.mu.Unlock()

	if w != nil {
		if err := w.Destroy(); err != nil {
			c.logger.Warn("widget teardown failed", "error", err)
		}
	}
}

func (c *Controller) handleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev {
	case EventReady:
		if c.state == StateLoading {
			c.state = StateReady
		}
	case EventPlaying:
		if c.state == StateUnloaded || c.state == StateLoading {
			return
		}
		c.state = StatePlaying
		c.startPollingLocked()
	case EventPaused:
		if c.state != StatePlaying {
			return
		}
		c.state = StatePaused
		c.stopPollingLocked()
	case EventEnded:
		if c.state == StateUnloaded {
			return
		}
		c.state = StateEnded
		c.progress = 100
		c.stopPollingLocked()
	}
}

func (c *Controller) startPollingLocked() {
	// No widget yet means Load is still recording it; Load starts the
	// poll once the widget is in place.
	if c.stop != nil || c.widget == nil {
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	w := c.widget
	go c.poll(w, stop)
}

// stopPollingLocked cancels the poll loop. A sample already in flight
// re-checks the stop channel under the lock before writing, so no
// progress update lands after the state left Playing.
func (c *Controller) stopPollingLocked() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.stop = nil
}

func (c *Controller) poll(w Widget, stop chan struct{}) {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.sample(w, stop)
		}
	}
}

func (c *Controller) sample(w Widget, stop chan struct{}) {
	pos, err := w.Position()
	if err != nil {
		return
	}
	total := c.windowMs(w)
	if total <= 0 {
		return
	}

	p := float64(pos-c.opts.StartMs) / float64(total) * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	c.mu.Lock()
	select {
	case <-stop:
		// Polling was cancelled while sampling; discard.
	default:
		if c.state == StatePlaying {
			c.progress = p
		}
	}
	c.mu.Unlock()
}

func (c *Controller) windowMs(w Widget) int {
	if c.opts.DurationMs > 0 {
		return c.opts.DurationMs
	}
	d, err := w.Duration()
	if err != nil {
		return 0
	}
	return d - c.opts.StartMs
}
