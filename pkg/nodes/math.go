package nodes

import (
	"context"

	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/value"
)

// mathOps is the MathModule operation table, aliases included.
var mathOps = map[string]int{
	"ADD":                0,
	"SUBTRACT":           1,
	"MULTIPLY":           2,
	"DIVIDE":             3,
	"MULTIPLY_ADD":       4,
	"POWER":              5,
	"LOGARITHM":          6,
	"SQRT":               7,
	"INVERSE_SQRT":       8,
	"ABSOLUTE":           9,
	"EXPONENT":           10,
	"SINE":               11,
	"COSINE":             12,
	"TANGENT":            13,
	"FLOOR":              14,
	"CEIL":               15,
	"FRACT":              16,
	"FRACTION":           16,
	"MINIMUM":            17,
	"MAXIMUM":            18,
	"LESS_THAN":          19,
	"GREATER_THAN":       20,
	"SIGN":               21,
	"MODULO":             22,
	"TRUNCATED_MODULO":   23,
	"FLOORED_MODULO":     24,
	"WRAP":               25,
	"SNAP":               26,
	"PINGPONG":           27,
	"ARCTAN2":            28,
	"ATAN2":              28,
	"COMPARE":            29,
	"ROUND":              30,
	"TRUNC":              31,
	"TRUNCATE":           31,
	"SMOOTH_MIN":         32,
	"SMOOTH_MAX":         33,
	"ARCSINE":            34,
	"ASIN":               34,
	"ARCCOSINE":          35,
	"ACOS":               35,
	"ARCTANGENT":         36,
	"ATAN":               36,
	"HYPERBOLIC_SINE":    37,
	"SINH":               37,
	"HYPERBOLIC_COSINE":  38,
	"COSH":               38,
	"HYPERBOLIC_TANGENT": 39,
	"TANH":               39,
	"TO_RADIANS":         40,
	"RADIANS":            40,
	"TO_DEGREES":         41,
	"DEGREES":            41,
}

var ternaryMathOps = newSet("MULTIPLY_ADD", "COMPARE", "WRAP", "SMOOTH_MIN", "SMOOTH_MAX")

var unaryMathOps = newSet(
	"ABSOLUTE", "LOGARITHM", "SQRT", "INVERSE_SQRT", "EXPONENT",
	"SINE", "COSINE", "TANGENT", "FLOOR", "CEIL", "FRACT", "FRACTION",
	"ROUND", "TRUNC", "TRUNCATE", "SIGN",
	"ARCSINE", "ARCCOSINE", "ARCTANGENT",
	"HYPERBOLIC_SINE", "HYPERBOLIC_COSINE", "HYPERBOLIC_TANGENT",
	"TO_RADIANS", "TO_DEGREES",
)

var mathPorts = [][]string{1: {"A"}, 2: {"A", "B"}, 3: {"A", "B", "C"}}

// MathOperation returns the ordinal of a math operation name. Unknown names
// map to ADD.
func MathOperation(raw string) int {
	return ordinal(mathOps, opKey(raw), 0)
}

// MathArity returns the number of active inputs for a math operation name.
func MathArity(raw string) int {
	key := opKey(raw)
	switch {
	case ternaryMathOps.has(key):
		return 3
	case unaryMathOps.has(key):
		return 1
	}
	return 2
}

// MathOperationOf reads the operation of a math node, defaulting to ADD.
func MathOperationOf(n source.Node) string {
	if m, ok := n.(source.MathNode); ok {
		return m.Operation()
	}
	return "ADD"
}

func handleMath(_ context.Context, _ Env, n source.Node, info *ir.Node) {
	p := info.Params
	raw := MathOperationOf(n)
	var clamp bool
	if m, ok := n.(source.MathNode); ok {
		clamp = m.UseClamp()
	}

	p["operation"] = MathOperation(raw)
	p["bl_operation"] = raw
	p["use_clamp"] = clamp

	delete(p, "value")
	arity := MathArity(raw)
	inputs := n.Inputs()
	slots := []string{"a", "b"}
	if arity == 3 && len(inputs) > 2 {
		slots = append(slots, "c")
	}
	for i, key := range slots {
		if i >= len(inputs) {
			break
		}
		s := inputs[i]
		if s.Linked || !s.HasDefault {
			continue
		}
		if f, ok := value.Float(s.Default); ok {
			p[key] = f
		}
	}

	info.Inputs = append([]string(nil), mathPorts[arity]...)
}
