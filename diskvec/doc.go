// Package diskvec implements fixed-capacity arrays backed by anonymous
// temporary files mapped into the process address space.
//
// The point is memory pressure relief, not persistence: when a continent-scale
// extract pushes the generator past resident RAM, the kernel can write stale
// pages of these arrays back to disk and reclaim them, instead of either
// OOM-killing the process or forcing swap onto unrelated allocations. Pages
// that are never touched — common for the sparse id-space bitmaps — cost
// neither RAM nor disk.
//
// A Vec never reallocates. Its capacity is fixed at creation (the backing
// mapping is rounded up to a whole number of OS pages, the element capacity is
// exactly what was requested), and Push past capacity is a programmer error
// that panics. Creation returns filesystem errors to the caller.
package diskvec
