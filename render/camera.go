package render

import (
	"math"

	"github.com/echoflaresat/orrery/vectors"
)

// Camera is a perspective pinhole camera with a vertical field of view.
type Camera struct {
	FOVDeg     float64
	Aspect     float64
	Near, Far  float64
	TanHalfFOV float64
	Position   vectors.Vec3
	Target     vectors.Vec3
	Forward    vectors.Vec3
	Right      vectors.Vec3
	Up         vectors.Vec3
}

var worldUp = vectors.New(0, 1, 0)

// NewPerspective returns a camera at the origin looking down -Z.
func NewPerspective(fovDeg, aspect, near, far float64) *Camera {
	c := &Camera{
		FOVDeg: fovDeg,
		Near:   near,
		Far:    far,
		Target: vectors.New(0, 0, -1),
	}
	c.SetAspect(aspect)
	c.LookAt(c.Target)
	return c
}

// SetAspect updates the projection for a new viewport shape.
func (c *Camera) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		aspect = 1
	}
	c.Aspect = aspect
	c.TanHalfFOV = math.Tan(c.FOVDeg * math.Pi / 180.0 / 2.0)
}

// SetPosition moves the camera and re-aims it at its current target.
func (c *Camera) SetPosition(p vectors.Vec3) {
	c.Position = p
	c.LookAt(c.Target)
}

// LookAt orients the camera towards target, keeping +Y as the up hint.
func (c *Camera) LookAt(target vectors.Vec3) {
	c.Target = target
	fwd := target.Sub(c.Position).Normalize()
	if fwd.Norm() == 0 {
		fwd = vectors.New(0, 0, -1)
	}
	right := fwd.Cross(worldUp)
	if right.Norm() < 1e-6 {
		right = vectors.New(1, 0, 0) // fallback when looking straight up or down
	}
	right = right.Normalize()
	c.Forward = fwd
	c.Right = right
	c.Up = right.Cross(fwd).Normalize()
}

// ComputeRay returns the normalized viewing direction for pixel (i,j)
// given the image dimensions (width,height). i,j can be fractional (for supersampling).
func (c *Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	xNDC, yNDC := toNDC(i, j, width, height)

	xPlane := xNDC * c.TanHalfFOV * c.Aspect
	yPlane := yNDC * c.TanHalfFOV

	dir := c.Right.Scale(xPlane).
		Add(c.Up.Scale(yPlane)).
		Add(c.Forward)

	return dir.Normalize()
}

// Project maps a world point to fractional pixel coordinates. ok is false
// for points outside the near/far range.
func (c *Camera) Project(p vectors.Vec3, width, height int) (x, y float64, ok bool) {
	d := p.Sub(c.Position)
	z := d.Dot(c.Forward)
	if z < c.Near || z > c.Far {
		return 0, 0, false
	}
	xNDC := d.Dot(c.Right) / (z * c.TanHalfFOV * c.Aspect)
	yNDC := d.Dot(c.Up) / (z * c.TanHalfFOV)

	hw := halfExtent(width)
	hh := halfExtent(height)
	return xNDC*hw + hw, -yNDC*hh + hh, true
}

// toNDC maps pixel coordinates into [-1, +1], flipping Y so +up is up.
func toNDC(i, j float64, width, height int) (float64, float64) {
	hw := halfExtent(width)
	hh := halfExtent(height)
	return (i - hw) / hw, -((j - hh) / hh)
}

func halfExtent(n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return float64(n-1) / 2.0
}
