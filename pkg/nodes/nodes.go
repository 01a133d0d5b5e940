// Package nodes converts type-specific shader node settings into engine
// parameters.
//
// The translator fills each exported node's params from its unlinked socket
// defaults first. A [Handler] registered for the node's type then overrides
// that generic picture: it resolves enum attributes to fixed ordinals,
// renames or drops parameters, and rewrites the declared port names so they
// match the engine module's signature.
//
// # Ordinal Tables
//
// The integer values assigned to enum names are a wire contract with the
// engine's node modules. They must not be reordered.
//
// # Failure Model
//
// Handlers never fail. A node that does not implement the capability view a
// handler expects is treated as carrying default settings. Unusable values
// are skipped and logged.
//
// # Usage
//
//	reg := nodes.Default()
//	if h, ok := reg.Lookup(n.Type()); ok {
//	    h.Handle(ctx, env, n, &exported)
//	}
package nodes

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gslbridge/pkg/assets"
	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/source"
)

// Host type identifiers with built-in handlers.
const (
	TypeMapping    = "ShaderNodeMapping"
	TypeTexImage   = "ShaderNodeTexImage"
	TypeMix        = "ShaderNodeMix"
	TypeMath       = "ShaderNodeMath"
	TypeVectorMath = "ShaderNodeVectorMath"
	TypeTexNoise   = "ShaderNodeTexNoise"
	TypeColorRamp  = "ShaderNodeValToRGB"
	TypeNormalMap  = "ShaderNodeNormalMap"
	TypeBump       = "ShaderNodeBump"
)

// Env carries per-translation settings shared by all handlers.
type Env struct {
	// Material is the name of the material being translated.
	Material string
	// DestDir is the engine project root. Empty disables texture copying.
	DestDir string
	// Copier copies textures. Nil uses a zero Copier.
	Copier *assets.Copier
	Logger *log.Logger
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

func (e Env) copier() *assets.Copier {
	if e.Copier == nil {
		return &assets.Copier{Logger: e.Logger}
	}
	return e.Copier
}

// Handler rewrites an exported node for one host node type. info.Params is
// non-nil and already holds the generically coerced socket defaults.
type Handler interface {
	Handle(ctx context.Context, env Env, n source.Node, info *ir.Node)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(ctx context.Context, env Env, n source.Node, info *ir.Node)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, env Env, n source.Node, info *ir.Node) {
	f(ctx, env, n, info)
}

// =============================================================================
// Registry
// =============================================================================

// Registry maps host type identifiers to handlers. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Default returns a registry holding every built-in handler.
func Default() *Registry {
	r := NewRegistry()
	r.Register(TypeMapping, HandlerFunc(handleMapping))
	r.Register(TypeTexImage, HandlerFunc(handleImage))
	r.Register(TypeMix, HandlerFunc(handleMix))
	r.Register(TypeMath, HandlerFunc(handleMath))
	r.Register(TypeVectorMath, HandlerFunc(handleVectorMath))
	r.Register(TypeTexNoise, HandlerFunc(handleNoise))
	r.Register(TypeColorRamp, HandlerFunc(handleColorRamp))
	r.Register(TypeNormalMap, Passthrough)
	r.Register(TypeBump, Passthrough)
	return r
}

// Register sets the handler for typeID, replacing any previous one.
func (r *Registry) Register(typeID string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[typeID] = h
}

// Lookup returns the handler for typeID.
func (r *Registry) Lookup(typeID string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[typeID]
	return h, ok
}

// Types returns the registered type identifiers in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Passthrough keeps the generic translation unchanged.
var Passthrough Handler = HandlerFunc(func(context.Context, Env, source.Node, *ir.Node) {})

// =============================================================================
// Helpers
// =============================================================================

// ordinal looks key up in table, returning def when absent.
func ordinal(table map[string]int, key string, def int) int {
	if v, ok := table[key]; ok {
		return v
	}
	return def
}

// opKey normalizes an operation name: upper case, spaces as underscores.
func opKey(raw string) string {
	return strings.ReplaceAll(strings.ToUpper(raw), " ", "_")
}

type set map[string]struct{}

func newSet(keys ...string) set {
	s := make(set, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s set) has(k string) bool {
	_, ok := s[k]
	return ok
}

type intSet map[int]struct{}

func newIntSet(keys ...int) intSet {
	s := make(intSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s intSet) has(k int) bool {
	_, ok := s[k]
	return ok
}
