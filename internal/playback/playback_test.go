package playback

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// fakeWidget is a scriptable provider widget. The factory captures the
// event sink so tests can drive the lifecycle by hand.
type fakeWidget struct {
	mu        sync.Mutex
	playCalls int
	seekCalls []int
	destroyed bool
	posMs     int
	durMs     int
}

func (f *fakeWidget) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls++
	return nil
}

func (f *fakeWidget) Pause() error { return nil }

func (f *fakeWidget) Seek(ms int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seekCalls = append(f.seekCalls, ms)
	return nil
}

func (f *fakeWidget) Position() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posMs, nil
}

func (f *fakeWidget) Duration() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.durMs, nil
}

func (f *fakeWidget) Destroy() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
	return nil
}

func (f *fakeWidget) setPosition(ms int) {
	f.mu.Lock()
	f.posMs = ms
	f.mu.Unlock()
}

type fakeFactory struct {
	widget *fakeWidget
	sink   EventSink
	ready  bool // deliver EventReady during New
	eager  bool // deliver EventPlaying during New as well
}

func (f *fakeFactory) Name() string { return "fake" }

func (f *fakeFactory) New(_ context.Context, _ string, _ Options, sink EventSink) (Widget, error) {
	f.sink = sink
	if f.ready {
		sink(EventReady)
	}
	if f.eager {
		sink(EventPlaying)
	}
	return f.widget, nil
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.interval = 2 * time.Millisecond
	t.Cleanup(c.Close)
	return c
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestCommandsIgnoredBeforeReady(t *testing.T) {
	c := newTestController(t)
	f := &fakeFactory{widget: &fakeWidget{durMs: 30000}}

	if err := c.Load(context.Background(), f, "clip-1", Options{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Status().State; got != StateLoading {
		t.Fatalf("state = %q, want %q", got, StateLoading)
	}

	c.Play()
	c.Pause()
	c.Replay()
	if f.widget.playCalls != 0 {
		t.Error("play must be ignored before the widget is ready")
	}

	f.sink(EventReady)
	if got := c.Status().State; got != StateReady {
		t.Fatalf("state = %q after ready, want %q", got, StateReady)
	}

	if err := c.Play(); err != nil {
		t.Fatalf("play: %v", err)
	}
	if f.widget.playCalls != 1 {
		t.Errorf("play calls = %d, want 1", f.widget.playCalls)
	}
}

func TestProgressPolledOnlyWhilePlaying(t *testing.T) {
	c := newTestController(t)
	f := &fakeFactory{widget: &fakeWidget{durMs: 10000}, ready: true}

	if err := c.Load(context.Background(), f, "clip-1", Options{DurationMs: 10000}); err != nil {
		t.Fatalf("load: %v", err)
	}

	f.widget.setPosition(2500)
	f.sink(EventPlaying)
	waitFor(t, func() bool { return c.Status().Progress > 0 }, "progress never advanced while playing")

	if got := c.Status().Progress; got < 24 || got > 26 {
		t.Errorf("progress = %.1f, want ~25", got)
	}

	f.sink(EventPaused)
	if got := c.Status().State; got != StatePaused {
		t.Fatalf("state = %q, want %q", got, StatePaused)
	}
	frozen := c.Status().Progress

	// Position keeps moving but nothing may sample it while paused.
	f.widget.setPosition(9000)
	time.Sleep(20 * time.Millisecond)
	if got := c.Status().Progress; got != frozen {
		t.Errorf("progress = %.1f while paused, want frozen at %.1f", got, frozen)
	}
}

func TestEndedClampsProgress(t *testing.T) {
	c := newTestController(t)
	f := &fakeFactory{widget: &fakeWidget{durMs: 10000}, ready: true}

	if err := c.Load(context.Background(), f, "clip-1", Options{DurationMs: 10000}); err != nil {
		t.Fatalf("load: %v", err)
	}
	f.sink(EventPlaying)
	f.sink(EventEnded)

	st := c.Status()
	if st.State != StateEnded {
		t.Errorf("state = %q, want %q", st.State, StateEnded)
	}
	if st.Progress != 100 {
		t.Errorf("progress = %.1f at end, want 100", st.Progress)
	}
}

func TestReplaySeeksToClipStart(t *testing.T) {
	c := newTestController(t)
	f := &fakeFactory{widget: &fakeWidget{durMs: 90000}, ready: true}

	if err := c.Load(context.Background(), f, "clip-1", Options{StartMs: 15000, DurationMs: 30000}); err != nil {
		t.Fatalf("load: %v", err)
	}
	f.sink(EventPlaying)

	if err := c.Replay(); err != nil {
		t.Fatalf("replay: %v", err)
	}

	f.widget.mu.Lock()
	defer f.widget.mu.Unlock()
	if len(f.widget.seekCalls) != 1 || f.widget.seekCalls[0] != 15000 {
		t.Errorf("seek calls = %v, want [15000]", f.widget.seekCalls)
	}
	if f.widget.playCalls != 1 {
		t.Errorf("play calls = %d, want 1", f.widget.playCalls)
	}
}

func TestCloseDestroysWidgetInAnyState(t *testing.T) {
	c := newTestController(t)
	f := &fakeFactory{widget: &fakeWidget{durMs: 10000}, ready: true}

	if err := c.Load(context.Background(), f, "clip-1", Options{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	f.sink(EventPlaying)

	c.Close()

	if !f.widget.destroyed {
		t.Error("close must destroy the widget")
	}
	st := c.Status()
	if st.State != StateUnloaded || st.Progress != 0 {
		t.Errorf("status after close = %+v, want unloaded", st)
	}
	// Second close is a no-op.
	c.Close()
}

func TestLoadWithEagerProvider(t *testing.T) {
	c := newTestController(t)
	f := &fakeFactory{widget: &fakeWidget{durMs: 10000}, ready: true, eager: true}

	// The provider reports playing before New even returns; the widget
	// must be kept and progress polling still has to start.
	if err := c.Load(context.Background(), f, "clip-1", Options{DurationMs: 10000}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Status().State; got != StatePlaying {
		t.Fatalf("state = %q, want %q", got, StatePlaying)
	}
	if f.widget.destroyed {
		t.Fatal("eager widget must not be destroyed")
	}

	f.widget.setPosition(5000)
	waitFor(t, func() bool { return c.Status().Progress > 0 }, "progress never advanced for eager provider")
}

func TestLoadReplacesPreviousWidget(t *testing.T) {
	c := newTestController(t)
	first := &fakeFactory{widget: &fakeWidget{durMs: 10000}, ready: true}
	second := &fakeFactory{widget: &fakeWidget{durMs: 10000}, ready: true}

	if err := c.Load(context.Background(), first, "clip-1", Options{}); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := c.Load(context.Background(), second, "clip-2", Options{}); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if !first.widget.destroyed {
		t.Error("loading a new clip must destroy the previous widget")
	}
	if second.widget.destroyed {
		t.Error("current widget must stay alive")
	}
}
