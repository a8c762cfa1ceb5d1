package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guidoenr/spectra/internal/analyzer"
	"github.com/guidoenr/spectra/internal/display"
	"github.com/guidoenr/spectra/internal/params"
	"github.com/guidoenr/spectra/internal/render"
)

// stubPresenter records frames and runs an optional hook after each one.
type stubPresenter struct {
	w, h    int
	frames  int
	sizes   []image.Point
	onFrame func(n int) error
}

func (p *stubPresenter) Size() (int, int, bool) { return p.w, p.h, true }

func (p *stubPresenter) Present(frame *image.RGBA, _ string) error {
	p.frames++
	p.sizes = append(p.sizes, frame.Bounds().Size())
	if p.onFrame != nil {
		return p.onFrame(p.frames)
	}
	return nil
}

func (p *stubPresenter) Close() error { return nil }

type countingMirror struct{ n int }

func (m *countingMirror) Offer(*image.RGBA) { m.n++ }

func silentSource() *analyzer.StaticSource {
	wave := make([]byte, 256)
	for i := range wave {
		wave[i] = 128
	}
	return analyzer.NewStaticSource(analyzer.Frame{Frequency: make([]byte, 128), TimeDomain: wave})
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if cfg.TargetFPS == 0 {
		cfg.TargetFPS = 500
	}
	if cfg.Log == nil {
		cfg.Log = log.New(io.Discard, "", 0)
	}
	cfg.Seed = 1
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func runWithTimeout(t *testing.T, a *App) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.Run(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("Run did not stop on its own")
	}
	return err
}

func TestRunWithoutSourceDoesNotTick(t *testing.T) {
	var logs bytes.Buffer
	p := &stubPresenter{w: 32, h: 24}
	a := newTestApp(t, Config{Presenter: p, Log: log.New(&logs, "", 0)})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.frames != 0 {
		t.Fatalf("presented %d frames without a source", p.frames)
	}
	if !strings.Contains(logs.String(), "not running") {
		t.Fatalf("log = %q", logs.String())
	}
}

func TestRunStopsWhenSourceCloses(t *testing.T) {
	src := silentSource()
	mirror := &countingMirror{}
	p := &stubPresenter{w: 32, h: 24}
	p.onFrame = func(n int) error {
		if n == 3 {
			src.Close()
		}
		return nil
	}
	a := newTestApp(t, Config{Source: src, Presenter: p, Mirror: mirror})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.frames != 3 {
		t.Fatalf("presented %d frames, want 3", p.frames)
	}
	if mirror.n != 3 {
		t.Fatalf("mirrored %d frames, want 3", mirror.n)
	}
	if got := a.Status().Frames; got != 3 {
		t.Fatalf("status frames = %d", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := &stubPresenter{w: 32, h: 24}
	p.onFrame = func(n int) error {
		if n == 2 {
			cancel()
		}
		return nil
	}
	a := newTestApp(t, Config{Source: silentSource(), Presenter: p})
	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if p.frames != 2 {
		t.Fatalf("presented %d frames after cancel, want 2", p.frames)
	}
}

func TestRunStopsWhenPresenterCloses(t *testing.T) {
	p := &stubPresenter{w: 32, h: 24}
	p.onFrame = func(int) error { return display.ErrClosed }
	a := newTestApp(t, Config{Source: silentSource(), Presenter: p})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.frames != 1 {
		t.Fatalf("presented %d frames, want 1", p.frames)
	}
}

func TestControlsApplyBetweenTicks(t *testing.T) {
	src := silentSource()
	p := &stubPresenter{w: 32, h: 24}
	p.onFrame = func(n int) error {
		if n == 2 {
			src.Close()
		}
		return nil
	}
	a := newTestApp(t, Config{Source: src, Presenter: p, HueShift: 350})
	a.Send(Control{Kind: ControlSetMode, Mode: params.ModeNebula})
	a.Send(Control{Kind: ControlShiftHue, Hue: HueStep})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
	st := a.Status()
	if st.Mode != "nebula" || st.HueShift != 5 {
		t.Fatalf("status = %+v, want nebula with hue 5", st)
	}
}

func TestQuitControlStopsRun(t *testing.T) {
	p := &stubPresenter{w: 32, h: 24}
	a := newTestApp(t, Config{Source: silentSource(), Presenter: p})
	a.Send(Control{Kind: ControlQuit})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestSendNeverBlocks(t *testing.T) {
	a := newTestApp(t, Config{Source: silentSource(), Presenter: &stubPresenter{w: 8, h: 8}})
	accepted := 0
	for i := 0; i < 100; i++ {
		if a.Send(Control{Kind: ControlNextMode}) {
			accepted++
		}
	}
	if accepted != cap(a.controls) {
		t.Fatalf("accepted %d controls, want %d", accepted, cap(a.controls))
	}
}

func TestCanvasFollowsPresenterSize(t *testing.T) {
	src := silentSource()
	p := &stubPresenter{w: 40, h: 30}
	p.onFrame = func(n int) error {
		switch n {
		case 1:
			p.w, p.h = 20, 16
		case 2:
			src.Close()
		}
		return nil
	}
	a := newTestApp(t, Config{Source: src, Presenter: p, Mode: params.ModeRadialInk})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []image.Point{{40, 30}, {20, 16}}
	if len(p.sizes) != 2 || p.sizes[0] != want[0] || p.sizes[1] != want[1] {
		t.Fatalf("frame sizes = %v, want %v", p.sizes, want)
	}
	if noise := a.engine.Fields().Shards(a.engine.Fields().Bounds()).Noise.Bounds().Size(); noise != want[1] {
		t.Fatalf("noise raster = %v, want %v", noise, want[1])
	}
}

// flakySource panics on its first read.
type flakySource struct {
	*analyzer.StaticSource
	reads int
}

func (s *flakySource) FrequencyData() []byte {
	s.reads++
	if s.reads == 1 {
		panic("boom")
	}
	return s.StaticSource.FrequencyData()
}

func TestPanickingTickIsSkipped(t *testing.T) {
	var logs bytes.Buffer
	src := &flakySource{StaticSource: silentSource()}
	p := &stubPresenter{w: 16, h: 16}
	p.onFrame = func(int) error {
		src.Close()
		return nil
	}
	a := newTestApp(t, Config{Source: src, Presenter: p, Log: log.New(&logs, "", 0)})
	if err := runWithTimeout(t, a); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.frames != 1 {
		t.Fatalf("presented %d frames, want 1", p.frames)
	}
	if !strings.Contains(logs.String(), "panic: boom") {
		t.Fatalf("panic not logged: %q", logs.String())
	}
}

func TestKeyControl(t *testing.T) {
	tests := []struct {
		key  rune
		want Control
		ok   bool
	}{
		{'1', Control{Kind: ControlSetMode, Mode: params.ModeCircular}, true},
		{'7', Control{Kind: ControlSetMode, Mode: params.ModeRadialInk}, true},
		{'n', Control{Kind: ControlNextMode}, true},
		{'P', Control{Kind: ControlPrevMode}, true},
		{'+', Control{Kind: ControlShiftHue, Hue: HueStep}, true},
		{'-', Control{Kind: ControlShiftHue, Hue: -HueStep}, true},
		{'q', Control{Kind: ControlQuit}, true},
		{'8', Control{}, false},
		{'x', Control{}, false},
	}
	for _, tc := range tests {
		got, ok := keyControl(tc.key)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("keyControl(%q) = %+v, %v; want %+v, %v", tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSyntheticSource(t *testing.T) {
	src := NewSyntheticSource(2048, 3)
	var m analyzer.Metrics
	for i := 0; i < 10; i++ {
		frame := analyzer.Read(src)
		if len(frame.Frequency) != 1024 || len(frame.TimeDomain) != 2048 {
			t.Fatalf("frame sizes %d/%d", len(frame.Frequency), len(frame.TimeDomain))
		}
		m = analyzer.Extract(frame.Frequency)
	}
	if m.Bass <= 0 || m.Mid <= 0 {
		t.Fatalf("synthetic signal too quiet: %+v", m)
	}
	src.Close()
	select {
	case <-src.Done():
	default:
		t.Fatal("Done not closed")
	}
	src.Close()
}

func TestSyntheticWindowIsReadOnce(t *testing.T) {
	src := NewSyntheticSource(1024, 5)
	src.FrequencyData()
	t0 := src.t
	src.TimeDomainData()
	if src.t != t0 {
		t.Fatalf("paired TimeDomainData advanced the signal: %v -> %v", t0, src.t)
	}
	src.TimeDomainData()
	if src.t == t0 {
		t.Fatal("second TimeDomainData reused a window that was already read")
	}
}

func TestProfilerWritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.csv")
	p := newProfiler(path, log.New(io.Discard, "", 0))
	p.beginFrame()
	p.mark("render")
	p.endFrame()
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || lines[0] != "frame,section,ms" {
		t.Fatalf("profile = %q", data)
	}
	if !strings.HasPrefix(lines[1], "1,render,") || !strings.HasPrefix(lines[2], "1,total,") {
		t.Fatalf("profile rows = %q", lines[1:])
	}

	var nilProf *profiler
	nilProf.beginFrame()
	nilProf.mark("x")
	if err := nilProf.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestStatusLine(t *testing.T) {
	a := newTestApp(t, Config{Presenter: &stubPresenter{w: 8, h: 8}, Mode: params.ModeBars, HueShift: 30})
	got := statusLine(renderInfo(params.ModeBars), a.engine.Params(), 59.94)
	if !strings.HasPrefix(got, "BARS | hue 30 | bass 0.50") || !strings.HasSuffix(got, "fps 59.9") {
		t.Fatalf("statusLine = %q", got)
	}
}

func renderInfo(m params.Mode) render.FrameInfo {
	return render.FrameInfo{Mode: m, Metrics: analyzer.Metrics{Bass: 0.5, Mid: 0.25, High: 0.125}}
}
