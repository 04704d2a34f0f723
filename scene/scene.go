package scene

import (
	"github.com/echoflaresat/orrery/colors"
	"github.com/echoflaresat/orrery/vectors"
)

// Scene is a graph root plus its lighting.
type Scene struct {
	Background colors.Color4
	Root       *Node
	Sun        *DirectionalLight
	Ambient    *AmbientLight
}

func New() *Scene {
	return &Scene{
		Background: colors.Black(),
		Root:       NewNode("scene"),
		Sun:        &DirectionalLight{Color: colors.White(), Intensity: 1},
		Ambient:    &AmbientLight{Color: colors.White(), Intensity: 0},
	}
}

func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Instance is a mesh placed in world space.
type Instance struct {
	Name  string
	Mesh  *Mesh
	World Transform
}

// Center is the world-space origin of the instance.
func (i Instance) Center() vectors.Vec3 {
	return i.World.Pos
}

// ToLocal maps a world point into the instance's local frame.
func (i Instance) ToLocal(p vectors.Vec3) vectors.Vec3 {
	return i.World.Rot.Transpose().Apply(p.Sub(i.World.Pos))
}

// Instances flattens the visible meshes of the graph into world space.
func (s *Scene) Instances() []Instance {
	var out []Instance
	s.Root.Walk(func(n *Node, world Transform) {
		if n.Mesh == nil {
			return
		}
		out = append(out, Instance{Name: n.Name, Mesh: n.Mesh, World: world})
	})
	return out
}
