package scene

import (
	"math"

	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/kinematics"
	"github.com/echoflaresat/orrery/texture"
	"github.com/echoflaresat/orrery/vectors"
)

// Node names used by the orrery scene.
const (
	NameSun        = "sun"
	NameEarthGroup = "earth-group"
	NameEarth      = "earth"
	NameMarker     = "marker"
	NameMoon       = "moon"
	NameOrbit      = "earth-orbit"
)

// Defaults for the orrery lighting.
const (
	DefaultSunIntensity     = 2.0
	DefaultAmbientIntensity = 0.2
)

type Options struct {
	SunColor         colors.Color4
	SunIntensity     float64
	AmbientIntensity float64
	EarthMap         texture.Texture // optional
}

func DefaultOptions() Options {
	return Options{
		SunColor:         colors.White(),
		SunIntensity:     DefaultSunIntensity,
		AmbientIntensity: DefaultAmbientIntensity,
	}
}

// Orrery is the sun, earth, moon and surface marker scene together with
// handles to the nodes that move every tick.
type Orrery struct {
	*Scene

	SunBody    *Node
	EarthGroup *Node
	Earth      *Node
	Marker     *Node
	Moon       *Node
	Orbit      *Node
}

func NewOrrery(opts Options) *Orrery {
	s := New()
	s.Background = colors.Hex(0x000000)

	sun := NewMeshNode(NameSun, &Mesh{
		Shape:    Sphere(5),
		Material: BasicMaterial(colors.Hex(0xffff00)),
	})
	s.Add(sun)

	group := NewNode(NameEarthGroup)
	s.Add(group)

	earthMat := PhongMaterial(colors.Hex(0x2233ff), 25)
	earthMat.Specular = colors.Hex(0x222222)
	if opts.EarthMap.Valid() {
		earthMat.Color = colors.White()
		earthMat.Map = opts.EarthMap
	}
	earth := NewMeshNode(NameEarth, &Mesh{
		Shape:         Sphere(2),
		Material:      earthMat,
		CastShadow:    true,
		ReceiveShadow: true,
	})
	earth.Position = vectors.New(kinematics.PrimaryOrbitDistance, 0, 0)
	group.Add(earth)

	marker := NewMeshNode(NameMarker, &Mesh{
		Shape:         Sphere(0.5),
		Material:      PhongMaterial(colors.Hex(0xff00ff), 5),
		CastShadow:    true,
		ReceiveShadow: true,
	})
	marker.Position = kinematics.JapanMarker()
	earth.Add(marker)

	moon := NewMeshNode(NameMoon, &Mesh{
		Shape:         Sphere(0.5),
		Material:      PhongMaterial(colors.Hex(0x888888), 5),
		CastShadow:    true,
		ReceiveShadow: true,
	})
	group.Add(moon)

	orbitMat := BasicMaterial(colors.Hex(0x444444))
	orbitMat.Opacity = 0.3
	orbitMat.DoubleSided = true
	orbit := NewMeshNode(NameOrbit, &Mesh{
		Shape:    Ring(kinematics.PrimaryOrbitDistance-0.5, kinematics.PrimaryOrbitDistance+0.5),
		Material: orbitMat,
	})
	orbit.Rotation.X = math.Pi / 2
	s.Add(orbit)

	s.Sun = &DirectionalLight{
		Color:      opts.SunColor,
		Intensity:  opts.SunIntensity,
		Position:   vectors.Zero(),
		CastShadow: true,
	}
	s.Ambient = &AmbientLight{
		Color:     colors.Hex(0x404040),
		Intensity: opts.AmbientIntensity,
	}

	o := &Orrery{
		Scene:      s,
		SunBody:    sun,
		EarthGroup: group,
		Earth:      earth,
		Marker:     marker,
		Moon:       moon,
		Orbit:      orbit,
	}
	o.ApplyPose(kinematics.PoseAt(kinematics.State{}))
	return o
}

// ApplyPose writes the kinematic pose into the scene graph and re-aims the
// sun light at the earth's current world position.
func (o *Orrery) ApplyPose(p kinematics.Pose) {
	o.Earth.Rotation.Y = p.SelfRotation
	o.EarthGroup.Rotation.Y = p.GroupOrbit
	o.Moon.Position.X = p.SatelliteOffset.X
	o.Moon.Position.Z = p.SatelliteOffset.Z

	o.Sun.Target = o.Earth.WorldPosition()
}
