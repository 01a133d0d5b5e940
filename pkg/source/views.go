package source

// Vector is a vector socket default (2 to 4 components).
type Vector []float64

// Color is an RGBA color socket default.
type Color []float64

// Euler is a rotation triple in radians.
type Euler [3]float64

// MappingNode exposes the mapping node's vector type.
type MappingNode interface {
	Node
	VectorType() string
}

// ImageNode exposes image texture sampling settings.
type ImageNode interface {
	Node
	Interpolation() string
	Projection() string
	ProjectionBlend() float64
	Extension() string
	AlphaMode() string
	// ColorSpace is the node-level color space name, used when no image is attached.
	ColorSpace() string
	// Image returns the attached image, or nil.
	Image() Image
}

// Image is an image datablock referenced by a texture node.
type Image interface {
	Name() string
	// FilePath is the raw path as stored by the host (possibly relative).
	FilePath() string
	// AbsPath resolves FilePath against the host's project location.
	AbsPath() string
	ColorSpace() string
}

// MixNode exposes the mix node's configuration attributes.
type MixNode interface {
	Node
	DataType() string
	BlendType() string
	ClampFactor() bool
	ClampResult() bool
	FactorMode() string
}

// MathNode exposes the scalar math node's settings.
type MathNode interface {
	Node
	Operation() string
	UseClamp() bool
}

// VectorMathNode exposes the vector math node's operation.
type VectorMathNode interface {
	Node
	Operation() string
}

// NoiseNode exposes raw attribute probing. The noise node's attribute names
// changed across host versions, so handlers look up several candidates.
type NoiseNode interface {
	Node
	Attr(name string) (any, bool)
}

// ColorRampNode exposes the color gradient of a ramp node.
type ColorRampNode interface {
	Node
	// ColorRamp returns the gradient, or nil when unavailable. A typed nil
	// pointer is treated the same as nil.
	ColorRamp() ColorRamp
}

// ColorRamp is an ordered list of gradient control points.
type ColorRamp interface {
	Interpolation() string
	Elements() []RampElement
}

// RampElement is one gradient control point.
type RampElement struct {
	Position float64
	Color    [4]float64
}
