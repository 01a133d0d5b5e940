// Package render groups the diagram renderers for translation results.
//
// The [nodelink] subpackage draws an [ir.Result] as a Graphviz node-link
// diagram (DOT, SVG or PNG). It backs the --format flag of the export command.
package render
