package nodes

import (
	"context"
	"strings"

	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/value"
)

// Mix data types.
const (
	MixFloat  = 0
	MixVector = 1
	MixColor  = 2
)

var mixDataTypes = map[string]int{"FLOAT": MixFloat, "VECTOR": MixVector, "RGBA": MixColor, "COLOR": MixColor}

var blendTypes = map[string]int{
	"MIX":          0,
	"DARKEN":       1,
	"MULTIPLY":     2,
	"BURN":         3,
	"LIGHTEN":      4,
	"SCREEN":       5,
	"DODGE":        6,
	"ADD":          7,
	"OVERLAY":      8,
	"SOFT_LIGHT":   9,
	"LINEAR_LIGHT": 10,
	"DIFFERENCE":   11,
	"EXCLUSION":    12,
	"SUBTRACT":     13,
	"DIVIDE":       14,
	"HUE":          15,
	"SATURATION":   16,
	"COLOR":        17,
	"VALUE":        18,
}

type mixSignature struct {
	dataType   int
	factorMode int
}

// mixPorts is the engine MixModule input signature per data type and factor mode.
var mixPorts = map[mixSignature][]string{
	{MixFloat, 0}:  {"Factor", "A_Float", "B_Float"},
	{MixFloat, 1}:  {"Factor", "A_Float", "B_Float"},
	{MixVector, 0}: {"Factor", "A_Vector", "B_Vector"},
	{MixVector, 1}: {"NonUniformFactor", "A_Vector", "B_Vector"},
	{MixColor, 0}:  {"Factor", "A_Color", "B_Color"},
	{MixColor, 1}:  {"Factor", "A_Color", "B_Color"},
}

// MixPorts returns the declared inputs of a mix node with the given data type
// and factor mode.
func MixPorts(dataType, factorMode int) []string {
	ports, ok := mixPorts[mixSignature{dataType, factorMode}]
	if !ok {
		ports = mixPorts[mixSignature{MixColor, 0}]
	}
	return append([]string(nil), ports...)
}

func handleMix(_ context.Context, _ Env, n source.Node, info *ir.Node) {
	p := info.Params
	dataType, blend, factorMode := "RGBA", "MIX", "UNIFORM"
	var clampFactor, clampResult bool
	if m, ok := n.(source.MixNode); ok {
		dataType, blend, factorMode = m.DataType(), m.BlendType(), m.FactorMode()
		clampFactor, clampResult = m.ClampFactor(), m.ClampResult()
	}

	dt := ordinal(mixDataTypes, dataType, MixColor)
	p["data_type"] = dt
	p["blend_type"] = ordinal(blendTypes, blend, 0)
	p["clamp_factor"] = clampFactor
	p["clamp_result"] = clampResult

	uniform := strings.ToUpper(factorMode) == "UNIFORM"
	mode := 1
	if uniform {
		mode = 0
	}
	p["vector_factor_mode"] = mode

	inputs := n.Inputs()
	if uniform && len(inputs) > 0 {
		if s := inputs[0]; !s.Linked && s.HasDefault {
			if v, ok := uniformFactor(s.Default); ok {
				p["factor"] = v
			}
		}
	}

	delete(p, "a")
	delete(p, "b")

	for _, s := range inputs {
		if !s.Visible() || s.Linked || !s.HasDefault {
			continue
		}
		key := mixSlot(strings.ToUpper(s.Name), p)
		if key == "" {
			continue
		}
		if key != "factor" && p.Has(key) {
			continue
		}
		if s.Default == nil {
			continue
		}
		v, ok := mixSocketValue(s.Default)
		if !ok {
			continue
		}
		p[key] = v
	}

	if dt == MixVector {
		if f, ok := p["factor"]; ok {
			if fs, isList := f.([]float64); isList && len(fs) >= 3 {
				p["nonuniformfactor"] = f
				delete(p, "factor")
				mode = 1
			} else {
				mode = 0
			}
		}
		p["vector_factor_mode"] = mode
	}
	if p.Has("nonuniformfactor") {
		mode = 1
		p["vector_factor_mode"] = mode
	}

	info.Inputs = MixPorts(dt, mode)
}

// mixSlot maps an upper-cased socket name to its logical parameter key.
func mixSlot(name string, p ir.Params) string {
	switch {
	case strings.HasPrefix(name, "A"):
		return "a"
	case strings.HasPrefix(name, "B"):
		return "b"
	case strings.HasPrefix(name, "NONUNIFORMFACTOR"):
		return "factor"
	case strings.HasPrefix(name, "FACTOR") && !p.Has("factor"):
		return "factor"
	}
	return ""
}

// uniformFactor converts the first socket's default to a scalar, or to a
// list when it carries more than one component.
func uniformFactor(v any) (any, bool) {
	if value.IsNumber(v) {
		f, _ := value.Float(v)
		return f, true
	}
	if !value.IsSequence(v) {
		return nil, false
	}
	fs, ok := value.Floats(v)
	if !ok {
		return nil, false
	}
	if len(fs) == 1 {
		return fs[0], true
	}
	return fs, true
}

// mixSocketValue converts a socket default, dropping the alpha of colors.
func mixSocketValue(v any) (any, bool) {
	if value.IsNumber(v) {
		f, _ := value.Float(v)
		return f, true
	}
	if !value.IsSequence(v) {
		return nil, false
	}
	fs, ok := value.Floats(v)
	if !ok {
		return nil, false
	}
	return value.Truncate3(fs), true
}
