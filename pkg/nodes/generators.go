package nodes

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/value"
)

// =============================================================================
// Noise Texture
// =============================================================================

var noiseDimensions = map[string]int{"1D": 0, "2D": 1, "3D": 2, "4D": 3}

var fractalTypes = map[string]int{
	"MULTIFRACTAL":        0,
	"RIDGED_MULTIFRACTAL": 1,
	"HYBRID_MULTIFRACTAL": 2,
	"FBM":                 3,
	"HETERO_TERRAIN":      4,
}

// Attribute names the noise node used across host versions, newest first.
var (
	dimensionAttrs = []string{"noise_dimensions", "noise_dimensionality"}
	fractalAttrs   = []string{"fractal_type", "musgrave_type", "noise_type"}
)

func handleNoise(_ context.Context, env Env, n source.Node, info *ir.Node) {
	p := info.Params
	nn, ok := n.(source.NoiseNode)
	if !ok {
		p["dimensions"] = noiseDimensions["3D"]
		return
	}

	dims := "3D"
	if v, ok := firstAttr(nn, dimensionAttrs); ok {
		dims = fmt.Sprint(v)
	}
	p["dimensions"] = ordinal(noiseDimensions, strings.ToUpper(dims), 2)

	if v, ok := nn.Attr("normalize"); ok {
		p["normalize"] = truthy(v)
	}

	if v, ok := firstAttr(nn, fractalAttrs); ok && v != nil {
		switch x := v.(type) {
		case int, int8, int16, int32, int64:
			p["fractal_type"] = value.Coerce(x)
		case float64:
			// JSON snapshots carry integer enums as floats.
			if x == math.Trunc(x) {
				p["fractal_type"] = int(x)
			} else {
				p["fractal_type"] = fractalTypes["FBM"]
			}
		default:
			p["fractal_type"] = ordinal(fractalTypes, opKey(fmt.Sprint(v)), 3)
		}
	}

	for _, name := range []string{"lacunarity", "gain", "offset"} {
		v, ok := nn.Attr(name)
		if !ok {
			continue
		}
		f, ok := value.Float(v)
		if !ok {
			env.logger().Warn("ignoring noise attribute", "node", n.Name(), "attr", name, "value", v)
			continue
		}
		p[name] = f
	}
}

func firstAttr(n source.NoiseNode, names []string) (any, bool) {
	for _, name := range names {
		if v, ok := n.Attr(name); ok {
			return v, true
		}
	}
	return nil, false
}

// truthy mirrors the host's boolean conversion of loosely typed attributes.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := value.Float(v); ok {
		return f != 0
	}
	if n, ok := value.Floats(v); ok {
		return len(n) > 0
	}
	return true
}

// =============================================================================
// Color Ramp
// =============================================================================

// Ramp interpolation modes understood by ColorRampModule.
const (
	RampConstant = "CONSTANT"
	RampLinear   = "LINEAR"
)

func handleColorRamp(_ context.Context, env Env, n source.Node, info *ir.Node) {
	info.Class = "ColorRampModule"
	info.Inputs = []string{"Fac"}
	info.Outputs = []string{"Color", "Alpha"}

	var ramp source.ColorRamp
	if cr, ok := n.(source.ColorRampNode); ok {
		ramp = cr.ColorRamp()
	}
	if isNil(ramp) || len(ramp.Elements()) == 0 {
		env.logger().Warn("color ramp has no stops, leaving node unchanged", "node", n.Name())
		return
	}

	elems := ramp.Elements()
	stops := make([]any, 0, len(elems))
	for _, el := range elems {
		c := el.Color
		stops = append(stops, []any{el.Position, []float64{c[0], c[1], c[2], c[3]}})
	}
	info.Params["stops"] = stops

	if strings.ToUpper(ramp.Interpolation()) == RampConstant {
		info.Params["mode"] = RampConstant
	} else {
		info.Params["mode"] = RampLinear
	}
}

// isNil also catches a nil pointer stored in a non-nil interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
