// Package nodestore implements the ordered, id-indexed store of OSM nodes
// used by the generator.
//
// Nodes arrive in blocks of ascending id — one block per group of the source
// PBF stream — and are laid out in columnar sections backed by disk-mapped
// vectors (see package diskvec): one column for ids, one for coordinates and
// a bit column for barrier flags. Only the ids column is touched while
// resolving references during the junction and graph passes; the coordinate
// column is only paged in during arc extraction. Splitting the columns keeps
// the hot pass's working set small.
//
// Each block's ids are padded to the next page boundary so that the binary
// search for an id touches at most two pages: one in the block index, one in
// the block itself. Padding ids are zero and are excluded from Len and from
// the dense offsets.
//
// The dense offset returned by Store.Offset is the rank of the id across the
// whole store; it is the node's address in every downstream structure.
package nodestore
