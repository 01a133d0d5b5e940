// Package nodelink renders translated shader graphs as node-link diagrams.
//
// # Overview
//
// This package turns an [ir.Result] into Graphviz DOT and renders it in
// process. It is a debugging aid: the diagram shows the node ids, the link
// list and, in detailed mode, each node's class and parameters, i.e. exactly
// what the engine receives.
//
// # Usage
//
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes. Edge tail and head labels show "index:socket" for both endpoints.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for rendering.
package nodelink
