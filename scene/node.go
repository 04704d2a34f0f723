// Package scene is a small retained scene graph: positioned and rotated nodes
// carrying meshes, plus the lights that illuminate them.
package scene

import (
	"github.com/echoflaresat/orrery/vectors"
)

// Transform maps a point from a node's local frame into its parent's frame
// (or the world frame for a world transform): p' = Rot*p + Pos.
type Transform struct {
	Rot vectors.Mat3
	Pos vectors.Vec3
}

func IdentityTransform() Transform {
	return Transform{Rot: vectors.Identity()}
}

// Apply transforms a point.
func (t Transform) Apply(p vectors.Vec3) vectors.Vec3 {
	return t.Rot.Apply(p).Add(t.Pos)
}

// ApplyDir transforms a direction (no translation).
func (t Transform) ApplyDir(d vectors.Vec3) vectors.Vec3 {
	return t.Rot.Apply(d)
}

// Then returns the transform that applies child first and then t.
func (t Transform) Then(child Transform) Transform {
	return Transform{
		Rot: t.Rot.Mul(child.Rot),
		Pos: t.Rot.Apply(child.Pos).Add(t.Pos),
	}
}

// Node is an element of the scene graph. Rotation holds Euler angles in
// radians applied in X, Y, Z order.
type Node struct {
	Name     string
	Position vectors.Vec3
	Rotation vectors.Vec3
	Mesh     *Mesh
	Visible  bool

	parent   *Node
	children []*Node
}

// NewNode returns an empty visible node.
func NewNode(name string) *Node {
	return &Node{Name: name, Visible: true}
}

// NewMeshNode returns a visible node carrying mesh.
func NewMeshNode(name string, mesh *Mesh) *Node {
	return &Node{Name: name, Mesh: mesh, Visible: true}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// LocalTransform is the node's transform relative to its parent.
func (n *Node) LocalTransform() Transform {
	return Transform{Rot: vectors.Euler(n.Rotation), Pos: n.Position}
}

// WorldTransform composes the local transforms from the root down to n.
func (n *Node) WorldTransform() Transform {
	if n.parent == nil {
		return n.LocalTransform()
	}
	return n.parent.WorldTransform().Then(n.LocalTransform())
}

// WorldPosition is the origin of n's local frame in world coordinates.
func (n *Node) WorldPosition() vectors.Vec3 {
	return n.WorldTransform().Pos
}

// Walk visits n and its descendants depth first with their world transforms.
// Invisible nodes and their subtrees are skipped.
func (n *Node) Walk(fn func(node *Node, world Transform)) {
	n.walk(IdentityTransform(), fn)
}

func (n *Node) walk(parent Transform, fn func(*Node, Transform)) {
	if !n.Visible {
		return
	}
	world := parent.Then(n.LocalTransform())
	fn(n, world)
	for _, c := range n.children {
		c.walk(world, fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
