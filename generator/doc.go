// Package generator turns a raw OSM PBF extract into the compact road-graph
// artifact served by package cartograph.
//
// The pipeline is a sequence of streaming passes over the extract, each fed
// by a bounded queue of sequenced batches and consumed by a fixed pool of
// workers:
//
//  1. Survey: node count and highest node id, which sizes the classifier.
//  2. Junction pass: every road way marks its first and last node reference
//     as a junction and the interior ones as internal; a node interior to
//     two ways promotes to junction (package junction, shared lock-free).
//  3. Node pass: nodes referenced by at least one road way are kept in the
//     id-indexed store (package nodestore); everything else is dropped.
//  4. Arc pass: each road way is re-read and split into arcs at junctions,
//     skipping segments that contain a blocking barrier and honouring the
//     one-way rules; duplicate arcs collapse on insertion.
//  5. Surgery: prune nodes unreachable from the arterial skeleton, double
//     dead-end edges, bridge the remaining components (package graph).
//  6. Serialize: sort, delta-encode and gzip the graph into six columns
//     behind a fixed header, compressing columns in parallel.
//
// Per-worker partial results merge deterministically: node builders cover
// disjoint ascending id blocks, arc batches are applied in file order, and
// arc insertion itself is commutative. The same extract always produces the
// same artifact, byte for byte, regardless of worker count.
package generator
