// Package aim defines the goal-tracking data model stored in a .quiver
// directory.
//
// # Core Types
//
//   - [Aim]: a goal node with title, status, tags and map metadata
//   - [Contribution]: a directed, weighted edge from one aim into another
//   - [ContributionRef]: the source-side record of an outgoing contribution
//   - [Meta]: the repository pointer to the root aim
//
// Field names match the JSON documents written by the .quiver store, so the
// types marshal directly to and from disk and the REST API.
//
// # Map Footprint
//
// Each aim is drawn as a circle. Its position comes from metadata.position
// and its radius from effort via [Radius]:
//
//	r = clamp(20, 100, 20 + 5*sqrt(effort))
//
// [Aim.Circle] packages both for the connector geometry in
// pkg/geom/connector.
package aim
