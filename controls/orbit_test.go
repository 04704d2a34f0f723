package controls

import (
	"math"
	"testing"

	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/vectors"
)

func newCamera() *render.Camera {
	cam := render.NewPerspective(50, 16.0/9.0, 0.1, 1000)
	cam.SetPosition(vectors.New(30, 30, 30))
	cam.LookAt(vectors.Zero())
	return cam
}

func TestUpdate_NoInputKeepsPosition(t *testing.T) {
	cam := newCamera()
	o := NewOrbit(cam, vectors.Zero())
	start := cam.Position

	for i := 0; i < 10; i++ {
		o.Update(cam)
	}
	if !cam.Position.ApproxEqual(start, 1e-9) {
		t.Fatalf("camera drifted: %+v -> %+v", start, cam.Position)
	}
	if math.Abs(o.Distance()-start.Norm()) > 1e-9 {
		t.Fatalf("distance = %v, want %v", o.Distance(), start.Norm())
	}
}

func TestRotate_DampedConvergesToFullDelta(t *testing.T) {
	cam := newCamera()
	o := NewOrbit(cam, vectors.Zero())
	_, theta0, _ := toSpherical(cam.Position)

	o.Rotate(-100, 0, 400) // quarter turn
	settling := true
	for i := 0; i < 2000 && settling; i++ {
		settling = o.Update(cam)
	}
	if settling {
		t.Fatal("damped rotation never settled")
	}

	_, theta1, _ := toSpherical(cam.Position)
	// geometric series: sum of f*(1-f)^k -> 1
	if d := theta1 - theta0; math.Abs(d-math.Pi/2) > 1e-3 {
		t.Errorf("azimuth change = %v, want ~pi/2", d)
	}
	if math.Abs(cam.Position.Norm()-o.Distance()) > 1e-9 {
		t.Error("rotation changed the distance")
	}
}

func TestRotate_FirstUpdateMovesOnlyFraction(t *testing.T) {
	cam := newCamera()
	o := NewOrbit(cam, vectors.Zero())
	_, theta0, _ := toSpherical(cam.Position)

	o.Rotate(-100, 0, 400)
	o.Update(cam)
	_, theta1, _ := toSpherical(cam.Position)
	if d := theta1 - theta0; math.Abs(d-math.Pi/2*DefaultDampingFactor) > 1e-9 {
		t.Errorf("first step = %v, want %v", d, math.Pi/2*DefaultDampingFactor)
	}
}

func TestRotate_PolarClamp(t *testing.T) {
	cam := newCamera()
	o := NewOrbit(cam, vectors.Zero())
	o.EnableDamping = false

	o.Rotate(0, 10000, 100)
	o.Update(cam)
	_, _, phi := toSpherical(cam.Position)
	if phi < 0 || phi > math.Pi {
		t.Fatalf("phi out of range: %v", phi)
	}
	if math.IsNaN(cam.Forward.X) {
		t.Fatal("camera basis degenerated at the pole")
	}
}

func TestDolly(t *testing.T) {
	cam := newCamera()
	o := NewOrbit(cam, vectors.Zero())
	d0 := o.Distance()

	o.Dolly(-1)
	o.Update(cam)
	if got := o.Distance(); math.Abs(got-d0*dollyBase) > 1e-9 {
		t.Errorf("zoom in: distance %v, want %v", got, d0*dollyBase)
	}

	o.Dolly(1)
	o.Dolly(1)
	o.Update(cam)
	if got := o.Distance(); math.Abs(got-d0/dollyBase) > 1e-9 {
		t.Errorf("zoom out: distance %v, want %v", got, d0/dollyBase)
	}

	for i := 0; i < 500; i++ {
		o.Dolly(-1)
	}
	o.Update(cam)
	if o.Distance() != o.MinDistance {
		t.Errorf("distance %v not clamped to %v", o.Distance(), o.MinDistance)
	}
}
