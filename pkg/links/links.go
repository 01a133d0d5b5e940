// Package links reconciles host socket positions with engine port indices.
//
// A link's destination index defaults to the position of the first input
// sharing the target socket's name. Some node types expose sockets the
// engine module does not have (hidden flags, inputs unused by the current
// operation). An [Adapter] registered for the destination type recomputes the
// index from the node's current configuration, or drops the link when it
// targets a port that is inactive.
package links

import (
	"sync"

	"github.com/matzehuels/gslbridge/pkg/nodes"
	"github.com/matzehuels/gslbridge/pkg/source"
)

// Adapter recomputes the destination input index of a link. It returns
// ok=false when the link targets an inactive port and must be dropped.
type Adapter interface {
	Adapt(dst source.Node, socket source.Socket, naive int) (index int, ok bool)
}

// AdapterFunc adapts a function to [Adapter].
type AdapterFunc func(dst source.Node, socket source.Socket, naive int) (int, bool)

// Adapt calls f.
func (f AdapterFunc) Adapt(dst source.Node, socket source.Socket, naive int) (int, bool) {
	return f(dst, socket, naive)
}

// Registry maps destination type identifiers to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Default returns a registry holding the mix and math adapters.
func Default() *Registry {
	r := NewRegistry()
	r.Register(nodes.TypeMix, AdapterFunc(adaptMix))
	r.Register(nodes.TypeMath, AdapterFunc(adaptMath))
	return r
}

// Register sets the adapter for typeID.
func (r *Registry) Register(typeID string, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[typeID] = a
}

// Lookup returns the adapter for typeID.
func (r *Registry) Lookup(typeID string) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[typeID]
	return a, ok
}

// adaptMix counts only enabled inputs: the hidden clamp flag occupies a host
// slot but no engine port.
func adaptMix(dst source.Node, socket source.Socket, naive int) (int, bool) {
	var enabled []source.Socket
	for _, s := range dst.Inputs() {
		if !s.Disabled {
			enabled = append(enabled, s)
		}
	}
	if i := source.IndexOf(enabled, socket); i >= 0 {
		return i, true
	}
	return max(0, naive-1), true
}

// adaptMath drops links into inputs beyond the operation's arity. Active
// inputs are always the first N in declaration order.
func adaptMath(dst source.Node, socket source.Socket, _ int) (int, bool) {
	arity := nodes.MathArity(nodes.MathOperationOf(dst))
	pos := source.IndexOf(dst.Inputs(), socket)
	if pos < 0 {
		pos = 0
	}
	if pos >= arity {
		return 0, false
	}
	return pos, true
}
