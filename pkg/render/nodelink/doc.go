// Package nodelink exports the aim graph as a node-link diagram.
//
// Where the aim map in [aimmap] places circles at their stored positions,
// this package hands the graph to Graphviz for automatic layout. Aims become
// nodes and contributions become edges styled by type.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. SVG rendering runs in process via [github.com/goccy/go-graphviz].
//
// [aimmap]: github.com/bowmanhq/bowman/pkg/render/aimmap
package nodelink
