// Package snapshot implements the source model over a JSON scene snapshot.
//
// The authoring tool writes a snapshot of its current scene (objects, their
// active materials, and node trees) to disk. [FileHost] re-reads that file on
// every request so each translation sees the latest exported state.
//
// # Format
//
//	{
//	  "active_object": "Cube",
//	  "base_dir": "/projects/scene",
//	  "objects": [{"name": "Cube", "active_material": "Wood"}],
//	  "materials": [{
//	    "name": "Wood",
//	    "use_nodes": true,
//	    "nodes": [{
//	      "type": "ShaderNodeMath",
//	      "name": "Math",
//	      "attrs": {"operation": "MULTIPLY_ADD"},
//	      "inputs": [{"name": "Value", "default": {"kind": "float", "value": 2.0}}],
//	      "outputs": [{"name": "Value"}]
//	    }],
//	    "links": [{"from_node": "Math", "from_socket": 0, "to_node": "Out", "to_socket": 0}]
//	  }]
//	}
//
// Socket defaults may be tagged ({"kind": "euler", "value": [...]}) or bare
// JSON values. Tags preserve the vector/color/euler distinction the value
// coercion relies on.
package snapshot

import (
	"github.com/matzehuels/gslbridge/pkg/source"
)

// Scene is an in-memory snapshot. It implements [source.Host].
type Scene struct {
	Active  *Object
	Objects []*Object
}

// Object is a scene object with an optional material.
type Object struct {
	ObjectName string
	Material   *Material
}

// Material is a plain-data material.
type Material struct {
	MaterialName string
	UseNodesFlag bool
	NodeList     []*Node
	LinkList     []source.Link
}

var (
	_ source.Host     = (*Scene)(nil)
	_ source.Material = (*Material)(nil)
	_ source.Tree     = (*Material)(nil)
)

// ActiveObject returns the active object, or nil.
func (s *Scene) ActiveObject() (source.Object, error) {
	if s == nil || s.Active == nil {
		return nil, nil
	}
	return s.Active, nil
}

// ActiveMaterial returns the object's material, or nil.
func (o *Object) ActiveMaterial() source.Material {
	if o.Material == nil {
		return nil
	}
	return o.Material
}

func (m *Material) Name() string { return m.MaterialName }
func (m *Material) UseNodes() bool { return m.UseNodesFlag }
func (m *Material) Tree() source.Tree { return m }
func (m *Material) Links() []source.Link { return m.LinkList }

// Nodes returns the tree's nodes in source order.
func (m *Material) Nodes() []source.Node {
	out := make([]source.Node, len(m.NodeList))
	for i, n := range m.NodeList {
		out[i] = n
	}
	return out
}

// Connect appends a link between output socket from of src and input socket
// to of dst, marking both sockets linked.
func (m *Material) Connect(src *Node, from int, dst *Node, to int) {
	src.Out[from].Linked = true
	dst.In[to].Linked = true
	m.LinkList = append(m.LinkList, source.Link{
		FromNode:   src,
		FromSocket: src.Out[from],
		ToNode:     dst,
		ToSocket:   dst.In[to],
	})
}
