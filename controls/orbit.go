// Package controls moves a camera around a target point in response to
// pointer drags and scroll input, with damped motion.
package controls

import (
	"math"

	"github.com/echoflaresat/orrery/render"
	"github.com/echoflaresat/orrery/vectors"
)

const (
	DefaultDampingFactor = 0.05
	DefaultRotateSpeed   = 1.0
	DefaultZoomSpeed     = 1.0

	minPolar  = 1e-6
	dollyBase = 0.95
)

// Orbit keeps the camera on a sphere around Target. Input accumulates into
// pending deltas that Update applies, a fraction per call when damping is on.
type Orbit struct {
	Target        vectors.Vec3
	EnableDamping bool
	DampingFactor float64
	RotateSpeed   float64
	ZoomSpeed     float64
	MinDistance   float64
	MaxDistance   float64

	radius, theta, phi float64 // current spherical offset of the camera
	dTheta, dPhi       float64 // pending rotation
	scale              float64 // pending dolly
}

// NewOrbit starts from cam's current position relative to target.
func NewOrbit(cam *render.Camera, target vectors.Vec3) *Orbit {
	o := &Orbit{
		Target:        target,
		EnableDamping: true,
		DampingFactor: DefaultDampingFactor,
		RotateSpeed:   DefaultRotateSpeed,
		ZoomSpeed:     DefaultZoomSpeed,
		MinDistance:   1,
		MaxDistance:   500,
		scale:         1,
	}
	o.radius, o.theta, o.phi = toSpherical(cam.Position.Sub(target))
	return o
}

// toSpherical uses Y as the polar axis: theta is the azimuth about Y
// measured from +Z, phi the angle from +Y.
func toSpherical(v vectors.Vec3) (radius, theta, phi float64) {
	radius = v.Norm()
	if radius == 0 {
		return 0, 0, 0
	}
	theta = math.Atan2(v.X, v.Z)
	phi = math.Acos(math.Max(-1, math.Min(1, v.Y/radius)))
	return radius, theta, phi
}

func fromSpherical(radius, theta, phi float64) vectors.Vec3 {
	s := math.Sin(phi) * radius
	return vectors.New(s*math.Sin(theta), math.Cos(phi)*radius, s*math.Cos(theta))
}

// Rotate queues a drag of (dx, dy) pixels in a viewport of the given height.
// A drag across the full height turns the camera once around the target.
func (o *Orbit) Rotate(dx, dy float64, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	o.dTheta -= 2 * math.Pi * dx / h * o.RotateSpeed
	o.dPhi -= 2 * math.Pi * dy / h * o.RotateSpeed
}

// Dolly queues a scroll; positive delta moves the camera away from the target.
func (o *Orbit) Dolly(delta float64) {
	if delta == 0 {
		return
	}
	step := math.Pow(dollyBase, o.ZoomSpeed)
	if delta > 0 {
		o.scale /= step
	} else {
		o.scale *= step
	}
}

// Distance is the current camera distance from the target.
func (o *Orbit) Distance() float64 {
	return o.radius
}

// Update applies pending input and positions cam. It returns true while
// damped motion is still settling.
func (o *Orbit) Update(cam *render.Camera) bool {
	if o.EnableDamping {
		o.theta += o.dTheta * o.DampingFactor
		o.phi += o.dPhi * o.DampingFactor
	} else {
		o.theta += o.dTheta
		o.phi += o.dPhi
	}
	o.phi = math.Max(minPolar, math.Min(math.Pi-minPolar, o.phi))

	o.radius = math.Max(o.MinDistance, math.Min(o.MaxDistance, o.radius*o.scale))
	o.scale = 1

	cam.SetPosition(o.Target.Add(fromSpherical(o.radius, o.theta, o.phi)))
	cam.LookAt(o.Target)

	if o.EnableDamping {
		o.dTheta *= 1 - o.DampingFactor
		o.dPhi *= 1 - o.DampingFactor
	} else {
		o.dTheta, o.dPhi = 0, 0
	}
	return math.Abs(o.dTheta) > 1e-6 || math.Abs(o.dPhi) > 1e-6
}
