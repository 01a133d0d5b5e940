// Package value converts untyped socket defaults into JSON-safe values.
//
// Host sockets carry defaults of many shapes: scalars, flags, vectors,
// colors, rotation triples, or arbitrary sequences. [Coerce] narrows any of
// them to one of bool, int, float64 or []float64 and never fails: shapes it
// cannot interpret degrade to a zero value.
//
// # Classification Order
//
// The order is part of the contract:
//
//  1. [source.Euler] → degrees, rounded to 3 decimals
//  2. [source.Vector], [source.Color] → []float64
//  3. bool
//  4. integers
//  5. floats
//  6. any other sequence with a length → []float64, or a zero-filled list of
//     the same length when an element is not numeric
//  7. anything else → 0.0
package value

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/matzehuels/gslbridge/pkg/source"
)

// Sequence is a host-provided iterable with a reported length.
// Len may return a negative number when the length is unknown.
type Sequence interface {
	Len() int
	At(i int) any
}

// defaultSeqLen is the zero-fill length used when a sequence cannot report one.
const defaultSeqLen = 3

// Coerce converts v into a canonical JSON-safe value.
func Coerce(v any) any {
	switch x := v.(type) {
	case source.Euler:
		out := make([]float64, len(x))
		for i, a := range x {
			out[i] = Round3(a * 180 / math.Pi)
		}
		return out
	case source.Vector:
		return append([]float64(nil), x...)
	case source.Color:
		return append([]float64(nil), x...)
	case bool:
		return x
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return int(reflect.ValueOf(x).Convert(reflect.TypeOf(0)).Int())
	case float32:
		return float64(x)
	case float64:
		return x
	}

	if n, ok := seqLen(v); ok {
		if fs, ok := Floats(v); ok {
			return fs
		}
		if n < 0 {
			n = defaultSeqLen
		}
		return make([]float64, n)
	}
	return 0.0
}

// Round3 rounds f to 3 decimal places.
func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// Float converts a scalar to float64. Booleans and numeric strings convert
// the way a permissive scripting runtime would.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return float64(x), true
	case int8, int16, int32, int64:
		return float64(reflect.ValueOf(x).Int()), true
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(x).Uint()), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// IsNumber reports whether v is a scalar number or bool.
func IsNumber(v any) bool {
	switch v.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// IsSequence reports whether v is an iterable with a length.
func IsSequence(v any) bool {
	_, ok := seqLen(v)
	return ok
}

// Floats converts every element of a sequence to float64. It reports false
// when v is not a sequence or an element is not numeric.
func Floats(v any) ([]float64, bool) {
	switch x := v.(type) {
	case []float64:
		return append([]float64(nil), x...), true
	case source.Vector:
		return append([]float64(nil), x...), true
	case source.Color:
		return append([]float64(nil), x...), true
	case source.Euler:
		return x[:], true
	case Sequence:
		n := x.Len()
		if n < 0 {
			return nil, false
		}
		out := make([]float64, n)
		for i := range n {
			f, ok := Float(x.At(i))
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case string:
		out := make([]float64, 0, len(x))
		for _, r := range x {
			f, ok := Float(string(r))
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]float64, rv.Len())
	for i := range rv.Len() {
		f, ok := Float(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Truncate3 drops the alpha component of a 4-element color.
func Truncate3(fs []float64) []float64 {
	if len(fs) == 4 {
		return fs[:3]
	}
	return fs
}

func seqLen(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case Sequence:
		return x.Len(), true
	case string:
		return len([]rune(x)), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}
