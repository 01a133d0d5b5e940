// Package translate walks a shader material's node tree and builds its IR.
//
// A translation run is a single pass over the tree:
//
//  1. Every node, in source order, gets an id derived from its name (or type)
//     and position, a class derived from its type, and one generic parameter
//     per unlinked socket default (see [GenericParams]).
//  2. The node handler registered for the node's type (package nodes) then
//     rewrites parameters and port names.
//  3. Every link, in source order, is resolved to output and input indices by
//     socket name. A link adapter registered for the destination type (package
//     links) may correct the input index or drop the link.
//
// The result is built fresh on every call. Translating an unchanged tree
// twice yields identical output.
//
// # Usage
//
//	tr := translate.New(nil, nil, logger)
//	res, err := tr.Translate(ctx, material, translate.Options{DestDir: dir})
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gslbridge/pkg/assets"
	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/links"
	"github.com/matzehuels/gslbridge/pkg/nodes"
	"github.com/matzehuels/gslbridge/pkg/observability"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/value"
)

// Translator converts materials to IR. It holds no per-run state and is safe
// for concurrent use.
type Translator struct {
	Nodes  *nodes.Registry
	Links  *links.Registry
	Logger *log.Logger
}

// Options configures a single translation run.
type Options struct {
	// DestDir is the engine project root textures are copied into.
	// Empty disables copying and passes absolute paths through.
	DestDir string
	// Copier performs texture copies. Nil uses a default copier.
	Copier *assets.Copier
}

// New creates a translator. Nil registries fall back to the built-in
// handlers and adapters; a nil logger falls back to log.Default().
func New(nr *nodes.Registry, lr *links.Registry, logger *log.Logger) *Translator {
	if nr == nil {
		nr = nodes.Default()
	}
	if lr == nil {
		lr = links.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Translator{Nodes: nr, Links: lr, Logger: logger}
}

// Translate builds the IR of mat. It fails only when the material has no
// usable node tree; per-node and per-link problems degrade locally.
func (t *Translator) Translate(ctx context.Context, mat source.Material, opts Options) (*ir.Result, error) {
	if mat == nil {
		return nil, errors.New(errors.ErrCodeNoActiveMaterial, "object has no active material")
	}
	if !mat.UseNodes() {
		return nil, errors.New(errors.ErrCodeNodesDisabled, "material.use_nodes is False")
	}

	name := mat.Name()
	start := time.Now()
	observability.Translate().OnTranslateStart(ctx, name)

	res := &ir.Result{Material: name, Nodes: []ir.Node{}, Links: []ir.Link{}}
	tree := mat.Tree()
	if tree == nil {
		observability.Translate().OnTranslateComplete(ctx, name, 0, 0, time.Since(start), nil)
		return res, nil
	}

	copier := opts.Copier
	if copier == nil {
		copier = &assets.Copier{Logger: t.Logger}
	}
	env := nodes.Env{Material: name, DestDir: opts.DestDir, Copier: copier, Logger: t.Logger}

	srcNodes := tree.Nodes()
	ids := make(map[source.Node]string, len(srcNodes))
	for idx, n := range srcNodes {
		info := t.exportNode(ctx, env, n, idx)
		ids[n] = info.ID
		res.Nodes = append(res.Nodes, info)
	}

	for _, l := range tree.Links() {
		link, ok := t.resolveLink(l, ids)
		if !ok {
			observability.Translate().OnLinkDropped(ctx, name, describe(l))
			continue
		}
		res.Links = append(res.Links, link)
	}

	t.Logger.Info(fmt.Sprintf("material '%s': nodes=%d, links=%d", name, len(res.Nodes), len(res.Links)))
	observability.Translate().OnTranslateComplete(ctx, name, len(res.Nodes), len(res.Links), time.Since(start), nil)
	return res, nil
}

// exportNode builds the IR node at position idx.
func (t *Translator) exportNode(ctx context.Context, env nodes.Env, n source.Node, idx int) ir.Node {
	label := n.Name()
	if label == "" {
		label = n.Type()
	}
	info := ir.Node{
		ID:      ir.NodeID(label, idx),
		Name:    n.Name(),
		Class:   ir.ClassName(n.Type()),
		Inputs:  socketNames(n.Inputs()),
		Outputs: socketNames(n.Outputs()),
		Params:  GenericParams(n.Inputs()),
	}

	if h, ok := t.Nodes.Lookup(n.Type()); ok {
		t.handle(ctx, env, h, n, &info)
	}
	if len(info.Params) == 0 {
		info.Params = nil
	}
	return info
}

// handle runs h, recovering from panics raised by host adapters.
func (t *Translator) handle(ctx context.Context, env nodes.Env, h nodes.Handler, n source.Node, info *ir.Node) {
	defer func() {
		if r := recover(); r != nil {
			t.Logger.Warn("node handler failed, keeping generic parameters",
				"node", n.Name(), "type", n.Type(), "panic", r)
		}
	}()
	h.Handle(ctx, env, n, info)
}

// resolveLink maps a host link to IR indices. It reports false when the link
// must be omitted.
func (t *Translator) resolveLink(l source.Link, ids map[source.Node]string) (ir.Link, bool) {
	if l.FromNode == nil || l.ToNode == nil {
		return ir.Link{}, false
	}
	fromID, ok := ids[l.FromNode]
	if !ok {
		return ir.Link{}, false
	}
	toID, ok := ids[l.ToNode]
	if !ok {
		return ir.Link{}, false
	}

	out := source.IndexByName(l.FromNode.Outputs(), l.FromSocket.Name)
	in := source.IndexByName(l.ToNode.Inputs(), l.ToSocket.Name)
	if a, ok := t.Links.Lookup(l.ToNode.Type()); ok {
		if in, ok = a.Adapt(l.ToNode, l.ToSocket, in); !ok {
			return ir.Link{}, false
		}
	}
	if out < 0 || in < 0 {
		return ir.Link{}, false
	}
	return ir.Link{From: fromID, OutIndex: out, To: toID, InIndex: in}, true
}

// GenericParams coerces the defaults of unlinked sockets, keyed by
// [ParamKey]. Sockets sharing a key overwrite each other in order.
func GenericParams(sockets []source.Socket) ir.Params {
	p := ir.Params{}
	for _, s := range sockets {
		if s.Linked || !s.HasDefault || s.Default == nil {
			continue
		}
		p[ParamKey(s.Name)] = value.Coerce(s.Default)
	}
	return p
}

// ParamKey derives a generic parameter name from a socket name.
func ParamKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func socketNames(sockets []source.Socket) []string {
	out := make([]string, len(sockets))
	for i, s := range sockets {
		out[i] = s.Name
	}
	return out
}

func describe(l source.Link) string {
	from, to := "?", "?"
	if l.FromNode != nil {
		from = l.FromNode.Name()
	}
	if l.ToNode != nil {
		to = l.ToNode.Name()
	}
	return fmt.Sprintf("%s.%s -> %s.%s", from, l.FromSocket.Name, to, l.ToSocket.Name)
}
