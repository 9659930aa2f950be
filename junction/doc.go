// Package junction implements the concurrent node classifier of the
// generator's way-scanning pass.
//
// Every node id gets a 2-bit state — Unused, Internal or Junction — packed
// four per byte in a disk-mapped array sized by the highest node id in the
// extract. States only move up the lattice Unused → Internal → Junction,
// which makes the structure safe to share lock-free between workers: a
// compare-and-swap retry can never regress a state, and once all writers have
// joined, plain loads read the final classification.
//
// The marking protocol: the first and last node reference of every road way
// is marked a junction; every interior reference is marked internal, and a
// node marked internal twice — referenced by the interior of two ways —
// promotes to junction.
//
// Because the array is indexed by raw OSM node id and ids run into the
// billions, the backing storage is a diskvec: pages for id ranges the extract
// never touches are never materialized.
package junction
