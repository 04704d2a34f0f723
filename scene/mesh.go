package scene

import (
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/texture"
)

// ShapeKind identifies mesh geometry.
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	// ShapeRing is a flat annulus in the local XY plane, normal +Z.
	ShapeRing
)

// Shape is the analytic geometry of a mesh.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // sphere radius
	Inner  float64 // ring inner radius
	Outer  float64 // ring outer radius
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

func Ring(inner, outer float64) Shape {
	return Shape{Kind: ShapeRing, Inner: inner, Outer: outer}
}

// Shading selects the lighting model of a material.
type Shading int

const (
	// ShadingBasic ignores lights entirely.
	ShadingBasic Shading = iota
	// ShadingPhong is Blinn-Phong with ambient, diffuse and specular terms.
	ShadingPhong
)

type Material struct {
	Shading     Shading
	Color       colors.Color4
	Specular    colors.Color4
	Shininess   float64
	Opacity     float64 // 1 is opaque
	DoubleSided bool
	Map         texture.Texture // optional surface map, multiplied with Color
}

func BasicMaterial(c colors.Color4) Material {
	return Material{Shading: ShadingBasic, Color: c, Opacity: 1}
}

func PhongMaterial(c colors.Color4, shininess float64) Material {
	return Material{
		Shading:   ShadingPhong,
		Color:     c,
		Specular:  colors.Hex(0x111111),
		Shininess: shininess,
		Opacity:   1,
	}
}

// Transparent reports whether the material lets light through.
func (m Material) Transparent() bool {
	return m.Opacity < 1
}

type Mesh struct {
	Shape         Shape
	Material      Material
	CastShadow    bool
	ReceiveShadow bool
}
