// Package source defines the read-only view of the authoring tool's shader graph.
//
// The host object model (materials, nodes, sockets) is owned by the authoring
// tool. This package describes only the capabilities the translator reads, so
// handler logic can be exercised against plain data fixtures as well as a real
// host adapter such as [github.com/matzehuels/gslbridge/pkg/source/snapshot].
//
// # Capability Views
//
// Every node implements [Node]. Nodes whose type carries extra settings may
// additionally implement a per-type view ([MixNode], [MathNode], [ImageNode],
// ...). Handlers type-assert to the view they need and fall back to defaults
// when the view is missing, so an incomplete adapter degrades a translation
// instead of aborting it.
//
// # Identity
//
// Node implementations must be comparable (typically pointer types) because the
// translator keys its node-to-id table by Node value. Sockets are compared by
// [Socket.Identifier], which must be unique per node side.
package source

// Host is the entry point into the authoring tool's current state.
type Host interface {
	// ActiveObject returns the selected object, or nil when nothing is active.
	ActiveObject() (Object, error)
}

// Object is a scene object that may carry a material.
type Object interface {
	// ActiveMaterial returns the object's active material, or nil.
	ActiveMaterial() Material
}

// Material is a shader material with an optional node tree.
type Material interface {
	Name() string
	// UseNodes reports whether node-based shading is enabled.
	UseNodes() bool
	// Tree returns the node tree. Only meaningful when UseNodes is true.
	Tree() Tree
}

// Tree is an ordered node graph.
type Tree interface {
	Nodes() []Node
	Links() []Link
}

// Node is the common view of every shader node.
type Node interface {
	// Type returns the host type identifier (e.g. "ShaderNodeMath").
	Type() string
	// Name returns the unique display name inside the tree.
	Name() string
	Inputs() []Socket
	Outputs() []Socket
}

// Socket is a typed connection point on a node.
type Socket struct {
	// Identifier is unique among the node's inputs (or outputs).
	Identifier string
	// Name is the display name. Several sockets on one node may share it.
	Name string
	// Linked is true when a link targets (or leaves) this socket.
	Linked bool
	// Default is the constant value carried while unlinked.
	Default any
	// HasDefault is false for socket types without a default value (shaders).
	HasDefault bool
	// Disabled sockets are not available in the node's current configuration.
	Disabled bool
	// Hidden sockets are collapsed in the UI.
	Hidden bool
}

// Visible reports whether the socket is enabled and not hidden.
func (s Socket) Visible() bool {
	return !s.Disabled && !s.Hidden
}

// Link connects an output socket to an input socket.
type Link struct {
	FromNode   Node
	FromSocket Socket
	ToNode     Node
	ToSocket   Socket
}

// IndexByName returns the position of the first socket named name, or -1.
func IndexByName(sockets []Socket, name string) int {
	for i, s := range sockets {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// IndexOf returns the position of the socket with the same identifier as s, or -1.
func IndexOf(sockets []Socket, s Socket) int {
	for i, cand := range sockets {
		if cand.Identifier == s.Identifier {
			return i
		}
	}
	return -1
}
