package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/echoflaresat/orrery/kinematics"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func newTestAnimator(t *testing.T, reg *prometheus.Registry) (*Animator, *Metrics) {
	t.Helper()
	var m *Metrics
	if reg != nil {
		var err error
		m, err = NewMetrics(reg)
		if err != nil {
			t.Fatalf("NewMetrics: %v", err)
		}
	}
	a := New(Config{
		Render:  render.Options{Width: 96, Height: 54, Workers: 2, ShadowSamples: 1},
		Scene:   scene.DefaultOptions(),
		Metrics: m,
	})
	return a, m
}

func TestTick_ThreadsStateIntoScene(t *testing.T) {
	a, _ := newTestAnimator(t, nil)
	for i := 0; i < 200; i++ {
		a.Tick()
	}

	want := kinematics.Advance(kinematics.State{}, 200)
	if got := a.State(); got != want {
		t.Fatalf("state = %+v, want %+v", got, want)
	}
	if math.Abs(a.State().Time-1.0) > 1e-9 || math.Abs(a.State().SelfRotation-2.0) > 1e-9 {
		t.Fatalf("state after 200 ticks = %+v", a.State())
	}
	if a.Ticks() != 200 {
		t.Fatalf("Ticks = %d", a.Ticks())
	}

	o := a.Orrery()
	if o.EarthGroup.Rotation.Y != want.Time {
		t.Errorf("group orbit = %v, want %v", o.EarthGroup.Rotation.Y, want.Time)
	}
	if o.Earth.Rotation.Y != want.SelfRotation {
		t.Errorf("earth spin = %v, want %v", o.Earth.Rotation.Y, want.SelfRotation)
	}
	if !o.Sun.Target.ApproxEqual(o.Earth.WorldPosition(), 1e-12) {
		t.Errorf("sun target %+v does not follow earth %+v", o.Sun.Target, o.Earth.WorldPosition())
	}
	// earth sits on the 20-unit orbit in the XZ plane
	if d := o.Earth.WorldPosition().Norm(); math.Abs(d-kinematics.PrimaryOrbitDistance) > 1e-9 {
		t.Errorf("earth distance = %v", d)
	}
}

func TestNew_StartState(t *testing.T) {
	start, err := kinematics.NewState(1.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	a := New(Config{Render: render.Options{Width: 8, Height: 8}, Scene: scene.DefaultOptions(), Start: start})
	if a.State() != start {
		t.Fatalf("state = %+v", a.State())
	}
	if a.Orrery().EarthGroup.Rotation.Y != 1.5 || a.Orrery().Earth.Rotation.Y != 0.25 {
		t.Fatal("scene not posed from the start state")
	}
}

func TestTick_Metrics(t *testing.T) {
	a, m := newTestAnimator(t, prometheus.NewRegistry())
	for i := 0; i < 3; i++ {
		a.Tick()
	}
	if got := testutil.ToFloat64(m.Ticks); got != 3 {
		t.Errorf("ticks = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.SimTime); math.Abs(got-0.015) > 1e-12 {
		t.Errorf("sim time = %v, want 0.015", got)
	}
	if got := testutil.ToFloat64(m.SelfRotation); math.Abs(got-0.03) > 1e-12 {
		t.Errorf("self rotation = %v, want 0.03", got)
	}
}

func TestFrame(t *testing.T) {
	a, m := newTestAnimator(t, prometheus.NewRegistry())
	img, err := a.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 96, 54) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := testutil.ToFloat64(m.Frames); got != 1 {
		t.Errorf("frames = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.FrameDuration); n != 1 {
		t.Errorf("frame duration series = %d, want 1", n)
	}
	var pb dto.Metric
	if err := m.FrameDuration.Write(&pb); err != nil {
		t.Fatal(err)
	}
	if got := pb.GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("frame duration samples = %d, want 1", got)
	}
}

func TestFrame_PanelAndHelperOverlays(t *testing.T) {
	a, _ := newTestAnimator(t, nil)
	a.Resize(320, 180)

	a.Panel().Hidden = true
	bare, err := a.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	a.Panel().Hidden = false
	withPanel, err := a.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	w, h := render.TextBlockSize([]render.TextLine{{Text: "v Ambient light"}})
	corner := image.Rect(320-overlayMargin-w, overlayMargin, 320-overlayMargin, overlayMargin+h)
	if !regionDiffers(bare, withPanel, corner) {
		t.Error("panel not drawn in the top-right corner")
	}

	a.Panel().Hidden = true
	a.Panel().ShowHelper.Set(true)
	withHelper, err := a.Frame(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(bare.Pix, withHelper.Pix) {
		t.Error("light helper not drawn")
	}
}

func TestHelperVisibility_FollowsPanelToggle(t *testing.T) {
	a, _ := newTestAnimator(t, nil)
	if a.HelperVisible() {
		t.Fatal("helper visible at start")
	}

	p := a.Panel()
	p.Activate() // open the sun folder
	for p.Focused() != p.ShowHelper {
		p.Next()
	}
	p.Activate()
	if !a.HelperVisible() {
		t.Fatal("toggle on did not show the helper")
	}
	p.Nudge(1)
	if a.HelperVisible() {
		t.Fatal("toggle off did not hide the helper")
	}
}

func TestNextFrame_OneTickPerFrame(t *testing.T) {
	a, m := newTestAnimator(t, prometheus.NewRegistry())
	for i := 0; i < 3; i++ {
		if _, err := a.NextFrame(context.Background()); err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
	}
	if got := testutil.ToFloat64(m.Frames); got != 3 {
		t.Errorf("frames = %v, want 3", got)
	}
	if a.Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", a.Ticks())
	}
	if got := a.State().Time; math.Abs(got-0.015) > 1e-12 {
		t.Errorf("time after 3 frames = %v, want 0.015", got)
	}
}

func regionDiffers(a, b *image.NRGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if a.NRGBAAt(x, y) != b.NRGBAAt(x, y) {
				return true
			}
		}
	}
	return false
}

func TestFrame_Cancelled(t *testing.T) {
	a, m := newTestAnimator(t, prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Frame(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := testutil.ToFloat64(m.Frames); got != 0 {
		t.Errorf("cancelled frame counted: %v", got)
	}
}

func TestResize_LeavesStateAlone(t *testing.T) {
	a, _ := newTestAnimator(t, nil)
	a.Tick()
	before := a.State()

	a.Resize(200, 100)
	if w, h := a.Size(); w != 200 || h != 100 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if a.Camera().Aspect != 2 {
		t.Errorf("aspect = %v, want 2", a.Camera().Aspect)
	}
	if a.State() != before {
		t.Errorf("resize changed state: %+v -> %+v", before, a.State())
	}

	a.Resize(0, 100)
	if w, _ := a.Size(); w != 200 {
		t.Error("zero width accepted")
	}
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second NewMetrics: %v", err)
	}
	m1.Frames.Inc()
	if got := testutil.ToFloat64(m2.Frames); got != 1 {
		t.Errorf("second registration did not share the counter: %v", got)
	}
}
