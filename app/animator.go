// Package app drives the orrery: it threads the kinematics state through
// fixed ticks, poses the scene, and renders frames with the overlays.
package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/echoflaresat/orrery/controls"
	"github.com/echoflaresat/orrery/kinematics"
	"github.com/echoflaresat/orrery/panel"
	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

// Camera defaults of the orrery view.
const (
	CameraFOV  = 50.0
	CameraNear = 0.1
	CameraFar  = 1000.0
)

// InfoLines is the usage hint drawn in the top-left corner.
var InfoLines = []string{
	"Drag to orbit the camera",
	"Scroll to zoom",
	"The pink marker is Japan",
}

const overlayMargin = 8

type Config struct {
	Render render.Options
	Scene  scene.Options
	Start  kinematics.State

	Metrics *Metrics     // optional
	Logger  *slog.Logger // optional
}

// Animator owns the kinematics state and everything posed from it.
// It is not safe for concurrent use; Tick and Frame are called from one loop.
type Animator struct {
	state    kinematics.State
	ticks    uint64
	orrery   *scene.Orrery
	camera   *render.Camera
	controls *controls.Orbit
	panel    *panel.LightPanel
	renderer *render.Renderer
	metrics  *Metrics
	log      *slog.Logger

	showHelper bool
}

func New(cfg Config) *Animator {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := render.NewRenderer(cfg.Render)
	opts := r.Options()

	cam := render.NewPerspective(CameraFOV, float64(opts.Width)/float64(opts.Height), CameraNear, CameraFar)
	cam.SetPosition(vectors.New(30, 30, 30))
	cam.LookAt(vectors.Zero())

	o := scene.NewOrrery(cfg.Scene)
	a := &Animator{
		state:    cfg.Start,
		orrery:   o,
		camera:   cam,
		controls: controls.NewOrbit(cam, vectors.Zero()),
		panel:    panel.NewLightPanel(o.Scene),
		renderer: r,
		metrics:  cfg.Metrics,
		log:      log,
	}
	a.panel.ShowHelper.OnChange = func(v bool) {
		a.showHelper = v
		a.log.Debug("light helper", "visible", v)
	}
	a.orrery.ApplyPose(kinematics.PoseAt(a.state))
	a.observeState()
	log.Debug("animator ready",
		"width", opts.Width, "height", opts.Height,
		"time", a.state.Time, "self_rotation", a.state.SelfRotation)
	return a
}

// Tick advances the state by one step, poses the scene from it and lets
// the camera controls settle one step further.
func (a *Animator) Tick() {
	a.state = kinematics.Step(a.state)
	a.ticks++
	a.orrery.ApplyPose(kinematics.PoseAt(a.state))
	a.controls.Update(a.camera)

	if a.metrics != nil {
		a.metrics.Ticks.Inc()
	}
	a.observeState()
}

func (a *Animator) observeState() {
	if a.metrics == nil {
		return
	}
	a.metrics.SimTime.Set(a.state.Time)
	a.metrics.SelfRotation.Set(a.state.SelfRotation)
}

// Frame renders the current scene and draws the info text, the light panel
// and, when enabled, the light helper on top.
func (a *Animator) Frame(ctx context.Context) (*image.NRGBA, error) {
	start := time.Now()
	img, err := a.renderer.Render(ctx, a.orrery.Scene, a.camera)
	if err != nil {
		return nil, fmt.Errorf("render frame at tick %d: %w", a.ticks, err)
	}

	if a.showHelper {
		render.DrawLightHelper(img, a.camera, a.orrery.Sun.Position, a.orrery.Sun.Target)
	}

	info := make([]render.TextLine, len(InfoLines))
	for i, s := range InfoLines {
		info[i] = render.TextLine{Text: s}
	}
	render.DrawTextBlock(img, overlayMargin, overlayMargin, info)

	if !a.panel.Hidden {
		lines := a.panel.Lines()
		rows := make([]render.TextLine, len(lines))
		for i, l := range lines {
			rows[i] = render.TextLine{Text: l.Text, Focus: l.Focus}
		}
		w, _ := render.TextBlockSize(rows)
		render.DrawTextBlock(img, img.Bounds().Dx()-w-overlayMargin, overlayMargin, rows)
	}

	elapsed := time.Since(start)
	if a.metrics != nil {
		a.metrics.Frames.Inc()
		a.metrics.FrameDuration.Observe(elapsed.Seconds())
	}
	a.log.Debug("frame rendered", "tick", a.ticks, "elapsed", elapsed)
	return img, nil
}

// NextFrame ticks once and renders the result, so simulated time moves
// one step per presented frame.
func (a *Animator) NextFrame(ctx context.Context) (*image.NRGBA, error) {
	a.Tick()
	return a.Frame(ctx)
}

// Resize changes the output size and the camera aspect. The kinematics
// state is untouched.
func (a *Animator) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	opts := a.renderer.Options()
	if opts.Width == width && opts.Height == height {
		return
	}
	a.renderer.Resize(width, height)
	a.camera.SetAspect(float64(width) / float64(height))
	a.log.Debug("resized", "width", width, "height", height)
}

// State is the current kinematics state.
func (a *Animator) State() kinematics.State { return a.state }

// Ticks is the number of ticks applied since New.
func (a *Animator) Ticks() uint64 { return a.ticks }

// HelperVisible reports whether Frame draws the light helper.
func (a *Animator) HelperVisible() bool { return a.showHelper }

// Size is the current output size.
func (a *Animator) Size() (width, height int) {
	opts := a.renderer.Options()
	return opts.Width, opts.Height
}

func (a *Animator) Orrery() *scene.Orrery { return a.orrery }
func (a *Animator) Camera() *render.Camera { return a.camera }
func (a *Animator) Controls() *controls.Orbit { return a.controls }
func (a *Animator) Panel() *panel.LightPanel { return a.panel }
func (a *Animator) Renderer() *render.Renderer { return a.renderer }
