// Package pkg holds the libraries behind gslbridge.
//
// gslbridge reads the active material of a shader authoring tool, translates
// its node graph into a flat JSON description, and serves it to a game
// engine over loopback HTTP. Data flows through the packages in this order:
//
//	[source] host object model (live adapter or [source/snapshot] file)
//	   ↓
//	[translate] node ids, per-type [nodes] handlers, [links] renumbering
//	   ↓
//	[ir] Result / Payload, encoded as compact UTF-8 JSON
//	   ↓
//	[bridge] collector on the [mainthread] pump
//	   ↓
//	[transport] GET /link router and service lifecycle, [notify] status
//
// Supporting packages: [value] coerces socket defaults, [assets] copies image
// textures into the engine project, [config] loads settings, [errors] carries
// coded errors, [observability] exposes hooks, and [render/nodelink] draws
// results as Graphviz diagrams.
package pkg
