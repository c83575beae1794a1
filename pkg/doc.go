// Package pkg holds the bowman libraries.
//
// Data flows from a .quiver repository to a drawing:
//
//	.quiver/ (aims, contributions, meta.json)
//	         ↓
//	    [store] (file or MongoDB backend, Graph snapshot)
//	         ↓
//	    [render/aimmap] (layout + SVG, one flow band per contribution)
//	         ↓
//	    [geom/connector] (band outline between two circles)
//
// [aim] defines the data model, [server] exposes it over HTTP and a
// websocket, and [cache] memoizes rendered maps on disk or in Redis.
// [render/nodelink] exports the same graph as Graphviz DOT.
package pkg
