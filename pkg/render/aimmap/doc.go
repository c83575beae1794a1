// Package aimmap renders a repository graph as an SVG aim map.
//
// Each aim is a circle sized by effort (see [aim.Radius]). Each contribution
// is a filled band drawn by [connector.MakeCircularPath] from the
// contributing circle into the receiving one, ending in an arrowhead on the
// receiver's boundary.
//
// # Flow Width
//
// A band's width is the contribution's share of everything flowing into the
// receiver, scaled by the receiver's radius:
//
//	share = strength / sum(strengths into receiver)
//	width = max(1, share * receiver.R * 0.5)
//
// Pairs of overlapping circles cannot be connected and are skipped.
//
// # Usage
//
//	g, _ := store.LoadGraph(ctx, s)
//	svg := aimmap.RenderSVG(g, aimmap.WithLabels(true))
//
// [Cached] memoizes the result in a [cache.Cache] keyed by a hash of the
// graph and options.
//
// [aim.Radius]: github.com/bowmanhq/bowman/pkg/aim.Radius
// [connector.MakeCircularPath]: github.com/bowmanhq/bowman/pkg/geom/connector.MakeCircularPath
package aimmap
