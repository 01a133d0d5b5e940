package snapshot

import (
	"github.com/matzehuels/gslbridge/pkg/source"
)

// Node is a plain-data shader node. It implements [source.Node] and every
// per-type view, reading type-specific settings from Attrs.
type Node struct {
	NodeType string
	NodeName string
	In       []source.Socket
	Out      []source.Socket
	Attrs    map[string]any
	Img      *Image
	Ramp     *Ramp
}

var (
	_ source.MappingNode    = (*Node)(nil)
	_ source.ImageNode      = (*Node)(nil)
	_ source.MixNode        = (*Node)(nil)
	_ source.MathNode       = (*Node)(nil)
	_ source.VectorMathNode = (*Node)(nil)
	_ source.NoiseNode      = (*Node)(nil)
	_ source.ColorRampNode  = (*Node)(nil)
)

func (n *Node) Type() string { return n.NodeType }
func (n *Node) Name() string { return n.NodeName }
func (n *Node) Inputs() []source.Socket { return n.In }
func (n *Node) Outputs() []source.Socket { return n.Out }
func (n *Node) VectorType() string { return n.str("vector_type", "POINT") }
func (n *Node) Interpolation() string { return n.str("interpolation", "Linear") }
func (n *Node) Projection() string { return n.str("projection", "FLAT") }
func (n *Node) ProjectionBlend() float64 { return n.num("projection_blend", 0) }
func (n *Node) Extension() string { return n.str("extension", "REPEAT") }
func (n *Node) AlphaMode() string { return n.str("alpha_mode", "STRAIGHT") }
func (n *Node) ColorSpace() string { return n.str("colorspace", "") }
func (n *Node) DataType() string { return n.str("data_type", "RGBA") }
func (n *Node) BlendType() string { return n.str("blend_type", "MIX") }
func (n *Node) ClampFactor() bool { return n.flag("clamp_factor") }
func (n *Node) ClampResult() bool { return n.flag("clamp_result") }
func (n *Node) FactorMode() string { return n.str("factor_mode", "UNIFORM") }
func (n *Node) Operation() string { return n.str("operation", "ADD") }
func (n *Node) UseClamp() bool { return n.flag("use_clamp") }

// Attr returns the raw attribute named k.
func (n *Node) Attr(k string) (any, bool) {
	v, ok := n.Attrs[k]
	return v, ok
}

// Image returns the attached image, or nil.
func (n *Node) Image() source.Image {
	if n.Img == nil {
		return nil
	}
	return n.Img
}

// ColorRamp returns the node's gradient, or nil.
func (n *Node) ColorRamp() source.ColorRamp {
	if n.Ramp == nil {
		return nil
	}
	return n.Ramp
}

func (n *Node) str(key, def string) string {
	if s, ok := n.Attrs[key].(string); ok {
		return s
	}
	return def
}

func (n *Node) num(key string, def float64) float64 {
	switch v := n.Attrs[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func (n *Node) flag(key string) bool {
	b, _ := n.Attrs[key].(bool)
	return b
}

// Image is a plain-data image reference.
type Image struct {
	ImageName  string
	Path       string
	Resolved   string
	Colorspace string
}

func (i *Image) Name() string { return i.ImageName }
func (i *Image) FilePath() string { return i.Path }
func (i *Image) ColorSpace() string { return i.Colorspace }

// AbsPath returns the resolved path, falling back to the raw path.
func (i *Image) AbsPath() string {
	if i.Resolved != "" {
		return i.Resolved
	}
	return i.Path
}

// Ramp is a plain-data color gradient.
type Ramp struct {
	Mode   string
	Points []source.RampElement
}

func (r *Ramp) Interpolation() string { return r.Mode }
func (r *Ramp) Elements() []source.RampElement { return r.Points }
