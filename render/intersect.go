package render

import (
	"math"

	"github.com/echoflaresat/orrery/scene"
	"github.com/echoflaresat/orrery/vectors"
)

const hitEpsilon = 1e-4

// Ray is O + t*D with D normalized.
type Ray struct {
	Origin    vectors.Vec3
	Direction vectors.Vec3
}

func (r Ray) At(t float64) vectors.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit describes the nearest intersection of a ray with one instance.
type Hit struct {
	T        float64
	Point    vectors.Vec3
	Normal   vectors.Vec3 // world space, facing the ray origin
	Local    vectors.Vec3 // hit point in the instance's local frame
	Instance *scene.Instance
}

// intersectSphere calculates the intersection of a ray (O + t*D) with a
// sphere of radius r centred at c. Returns the closest t > tMin, or -1.
func intersectSphere(O, D, c vectors.Vec3, r, tMin float64) float64 {
	oc := O.Sub(c)
	halfB := oc.Dot(D)
	cc := oc.Dot(oc) - r*r

	discriminant := halfB*halfB - cc
	if discriminant < 0 {
		return -1.0
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := -halfB - sqrtDisc
	t2 := -halfB + sqrtDisc

	if t1 > tMin {
		return t1
	}
	if t2 > tMin {
		return t2
	}
	return -1.0
}

// intersectRing intersects a ray with an annulus lying in the local XY plane
// of world. Returns -1 on a miss.
func intersectRing(ray Ray, world scene.Transform, inner, outer, tMin float64) float64 {
	n := world.ApplyDir(vectors.New(0, 0, 1))
	denom := n.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return -1.0
	}
	t := world.Pos.Sub(ray.Origin).Dot(n) / denom
	if t <= tMin {
		return -1.0
	}
	d := vectors.Distance(ray.At(t), world.Pos)
	if d < inner || d > outer {
		return -1.0
	}
	return t
}

// intersect tests a ray against one instance.
func intersect(ray Ray, inst *scene.Instance, tMin float64) (Hit, bool) {
	shape := inst.Mesh.Shape
	var t float64
	switch shape.Kind {
	case scene.ShapeSphere:
		t = intersectSphere(ray.Origin, ray.Direction, inst.Center(), shape.Radius, tMin)
	case scene.ShapeRing:
		t = intersectRing(ray, inst.World, shape.Inner, shape.Outer, tMin)
	default:
		return Hit{}, false
	}
	if t < 0 {
		return Hit{}, false
	}

	p := ray.At(t)
	var n vectors.Vec3
	if shape.Kind == scene.ShapeSphere {
		n = p.Sub(inst.Center()).Normalize()
	} else {
		n = inst.World.ApplyDir(vectors.New(0, 0, 1))
	}
	if n.Dot(ray.Direction) > 0 {
		if shape.Kind == scene.ShapeRing && !inst.Mesh.Material.DoubleSided {
			return Hit{}, false
		}
		n = n.Scale(-1)
	}

	return Hit{
		T:        t,
		Point:    p,
		Normal:   n,
		Local:    inst.ToLocal(p),
		Instance: inst,
	}, true
}
