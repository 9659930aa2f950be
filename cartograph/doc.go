// Package cartograph serves routing queries over a road-graph artifact
// produced by package generator.
//
// Open memory-loads the whole artifact: the graph is rebuilt node by node
// and edge by edge from the six delta-encoded columns, and every edge is
// projected into the Web-Mercator plane and inserted, one edge at a time,
// into an R-tree (the tree is not bulk-loaded). After
// Open returns, the Cartograph never touches the filesystem again and all
// queries are read-only, so a single instance can serve any number of
// goroutines.
//
// The query surface:
//
//   - SampleEdges: a stable, priority-stratified sample of the edges
//     intersecting a rectangle, for rendering map tiles at any zoom.
//   - Project: snap an arbitrary point to the nearest edge.
//   - ShortestPath: A* between two projected points, returning the geometry
//     and the distance in meters.
//   - ShortestPathMulti: one source, many targets, distances only, sharing
//     a single search frontier.
//
// Distances are meters along the graph; there is no notion of travel time.
package cartograph
