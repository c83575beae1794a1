// Package render groups the aim graph renderers.
//
//   - [aimmap]: the positioned aim map, circles joined by flow bands
//   - [nodelink]: a Graphviz node-link diagram with automatic layout
//
// Both take a [store.Graph] snapshot and can memoize their output in a
// [cache.Cache].
//
//	g, _ := store.LoadGraph(ctx, s)
//	svg := aimmap.RenderSVG(g)
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//
// [aimmap]: github.com/bowmanhq/bowman/pkg/render/aimmap
// [nodelink]: github.com/bowmanhq/bowman/pkg/render/nodelink
// [store.Graph]: github.com/bowmanhq/bowman/pkg/store.Graph
// [cache.Cache]: github.com/bowmanhq/bowman/pkg/cache.Cache
package render
