// Package ptolemy builds and serves routable road networks out of raw
// OpenStreetMap extracts.
//
// The module is two halves that meet at a compact binary artifact:
//
//   - generator/ ingests an OSM PBF extract and produces the artifact: a
//     pruned, strongly connected, distance-weighted directed road graph in
//     six delta-encoded gzipped columns.
//   - cartograph/ memory-loads the artifact and answers queries: spatial
//     edge sampling for rendering, nearest-edge projection, and shortest
//     paths (single- and multi-target) by distance.
//
// Everything else is supporting machinery in the order the generator needs
// it: geo/ (micro-degree angles, haversine, Web-Mercator), diskvec/
// (mmap-backed arrays that let the OS page out cold data on continent-scale
// runs), nodestore/ (the id-indexed columnar node database), junction/ (the
// lock-free node classifier), osmfile/ (PBF passes and the road tag tables),
// graph/ (the arena graph and its surgery) and sampler/ (stable
// priority-stratified thinning).
//
// The command-line entry point and any HTTP or FFI surface live outside this
// module; it does no network I/O and needs no configuration beyond the
// function arguments.
package ptolemy
