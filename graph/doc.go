// Package graph holds the directed road graph built by the generator and
// served by the cartograph, together with the surgery that turns the raw
// extracted arcs into a single strongly connected routable network.
//
// The representation is an arena: nodes and edges live in dense slices and
// refer to each other by index, with per-node incoming and outgoing adjacency
// lists of edge indices. Cycles and back-edges — the normal case for a road
// network — cost nothing, and every index doubles as the stable id used by
// the serializer and the spatial index.
//
// Construction goes through PushArc, which collapses duplicate arcs for the
// same ordered endpoint pair by keeping the highest road level and the
// shortest distance; roundabouts tagged twice and parallel carriageways
// collapse there. After construction, three surgery steps run in order:
//
//  1. RetainReachable prunes everything that cannot be reached from the
//     arterial skeleton (edges of road level ≤ 2).
//  2. FixDeadEnds doubles every edge that weakly connects two strongly
//     connected components, making one-way spurs round-trip accessible.
//  3. StronglyConnect bridges every remaining minor component to the largest
//     one with a pair of synthesized level-5 arcs between their closest
//     nodes.
//
// After step 3 the graph is one strongly connected component.
package graph
