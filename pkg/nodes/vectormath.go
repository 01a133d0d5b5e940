package nodes

import (
	"context"

	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/value"
)

// Vector math operations referenced by the slot post-processing.
const (
	vmMultiplyAdd = 4
	vmRefract     = 8
	vmFaceforward = 9
	vmScale       = 13
	vmWrap        = 24
)

var vectorMathOps = map[string]int{
	"ADD":           0,
	"SUBTRACT":      1,
	"MULTIPLY":      2,
	"DIVIDE":        3,
	"MULTIPLY_ADD":  4,
	"CROSS_PRODUCT": 5,
	"PROJECT":       6,
	"REFLECT":       7,
	"REFRACT":       8,
	"FACEFORWARD":   9,
	"DOT_PRODUCT":   10,
	"DISTANCE":      11,
	"LENGTH":        12,
	"SCALE":         13,
	"NORMALIZE":     14,
	"ABSOLUTE":      15,
	"POWER":         16,
	"SIGN":          17,
	"MINIMUM":       18,
	"MAXIMUM":       19,
	"FLOOR":         20,
	"CEIL":          21,
	"FRACTION":      22,
	"MODULO":        23,
	"WRAP":          24,
	"SNAP":          25,
	"SINE":          26,
	"COSINE":        27,
	"TANGENT":       28,
}

// vectorSlots maps known socket names to logical slots.
var vectorSlots = map[string]string{
	"VECTOR":     "a",
	"VECTOR_001": "b",
	"VECTOR_002": "c",
	"SCALE":      "b",
	"MIN":        "b",
	"STEP":       "b",
	"IOR":        "c",
	"MAX":        "c",
}

var (
	// vectorBOps expect a vec3 B.
	vectorBOps = newIntSet(0, 1, 2, 3, 5, 6, 7, 8, 9, 10, 11, 16, 18, 19, 23, 24, 25)
	// binaryVectorOps declare two inputs.
	binaryVectorOps = newIntSet(0, 1, 2, 3, 5, 6, 7, 10, 11, 13, 16, 18, 19, 23, 25, 26, 27, 28)
	// ternaryVectorOps declare three inputs.
	ternaryVectorOps = newIntSet(vmMultiplyAdd, vmRefract, vmFaceforward, vmWrap)
)

// VectorMathPorts returns the declared inputs for a vector math operation ordinal.
func VectorMathPorts(op int) []string {
	switch {
	case ternaryVectorOps.has(op):
		return []string{"A", "B", "C"}
	case binaryVectorOps.has(op):
		return []string{"A", "B"}
	}
	return []string{"A"}
}

func handleVectorMath(_ context.Context, _ Env, n source.Node, info *ir.Node) {
	p := info.Params
	raw := "ADD"
	if m, ok := n.(source.VectorMathNode); ok {
		raw = m.Operation()
	}
	op := ordinal(vectorMathOps, opKey(raw), 0)
	p["operation"] = op

	taken := make(map[string]bool, 3)
	for _, s := range n.Inputs() {
		if s.Linked || !s.HasDefault || s.Default == nil {
			continue
		}
		slot := vectorSlot(s, p, taken)
		if slot == "" {
			continue
		}
		p[slot] = numOrList(s.Default)
		taken[slot] = true
	}

	if b, ok := p["b"]; ok && vectorBOps.has(op) {
		p["b"] = broadcast3(b)
	}
	switch op {
	case vmRefract:
		if c, ok := p["c"]; ok {
			p["c"] = strictFloat(c)
		}
	case vmFaceforward, vmMultiplyAdd, vmWrap:
		if c, ok := p["c"]; ok {
			p["c"] = broadcast3(c)
		}
	}
	if b, ok := p["b"]; ok && op == vmScale {
		p["b"] = strictFloat(b)
	}
	if op == vmRefract && !p.Has("c") {
		if v, ok := p["ior"]; ok {
			p["c"] = strictFloat(v)
		} else if v, ok := p["scale"]; ok {
			p["c"] = strictFloat(v)
		}
	}

	info.Inputs = VectorMathPorts(op)
}

// vectorSlot picks the logical slot for a socket. Known identifiers win over
// known names; unknown sockets take the first free slot in a, b, c order.
func vectorSlot(s source.Socket, p ir.Params, taken map[string]bool) string {
	for _, key := range []string{s.Identifier, s.Name} {
		if slot, ok := vectorSlots[opKey(key)]; ok {
			return slot
		}
	}
	for _, slot := range []string{"a", "b", "c"} {
		if !p.Has(slot) && !taken[slot] {
			return slot
		}
	}
	return ""
}

// numOrList converts sequences to float lists without alpha, scalars to
// float64, and leaves anything else unchanged.
func numOrList(v any) any {
	if value.IsSequence(v) {
		if fs, ok := value.Floats(v); ok {
			return value.Truncate3(fs)
		}
	}
	if f, ok := value.Float(v); ok {
		return f
	}
	return v
}

func broadcast3(v any) any {
	if value.IsNumber(v) {
		f, _ := value.Float(v)
		return []float64{f, f, f}
	}
	if value.IsSequence(v) {
		if fs, ok := value.Floats(v); ok {
			fs = value.Truncate3(fs)
			if len(fs) == 3 {
				return fs
			}
		}
	}
	return v
}

func strictFloat(v any) any {
	if f, ok := value.Float(v); ok {
		return f
	}
	return v
}
