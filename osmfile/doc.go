// Package osmfile reads OSM PBF extracts for the generator.
//
// The low-level frame, zlib and protobuf decoding is delegated to
// github.com/paulmach/osm/osmpbf, a streaming scanner that decodes blobs on a
// pool of its own workers while preserving file order. On top of it this
// package exposes the three regions of a PBF file — nodes, then ways, then
// relations — as sequenced batches pushed onto a bounded queue, which is the
// unit of work the generator's worker pools consume.
//
// A PBF extract always stores all nodes before all ways, so the node scan
// stops at the first way object instead of draining the rest of the file.
//
// The package also owns the tag tables of the road model: the highway →
// road-level mapping, the oneway/junction direction rules, and the set of
// barrier values that block routing. These tables are a frozen contract; do
// not extend them to "obviously similar" values.
package osmfile
