package scene

import (
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/vectors"
)

// DirectionalLight shines parallel rays from Position towards Target.
type DirectionalLight struct {
	Color      colors.Color4
	Intensity  float64
	Position   vectors.Vec3
	Target     vectors.Vec3
	CastShadow bool
}

// Direction is the unit vector from a lit surface towards the light.
// If Position and Target coincide the light shines straight down.
func (l *DirectionalLight) Direction() vectors.Vec3 {
	d := l.Position.Sub(l.Target)
	if d.Norm() == 0 {
		return vectors.New(0, 1, 0)
	}
	return d.Normalize()
}

// Radiance is the light color scaled by intensity.
func (l *DirectionalLight) Radiance() colors.Color4 {
	return l.Color.ScaleRGB(l.Intensity)
}

type AmbientLight struct {
	Color     colors.Color4
	Intensity float64
}

func (l *AmbientLight) Radiance() colors.Color4 {
	return l.Color.ScaleRGB(l.Intensity)
}
