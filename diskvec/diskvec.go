package diskvec

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Vec is a fixed-capacity sequence of T backed by an unlinked temporary file.
//
// The zero value is not usable; create one with New or NewZeroed. A Vec is not
// safe for concurrent mutation, but concurrent reads of committed elements are
// fine, as is handing the Slice view to code that performs its own atomic
// element access.
type Vec[T any] struct {
	mem   []byte
	elems []T
	len   int
}

// New creates an empty Vec able to hold capacity elements. The backing file
// is created in the system temporary directory and unlinked immediately, so
// its space is reclaimed as soon as the mapping goes away.
func New[T any](capacity int) (*Vec[T], error) {
	return create[T](capacity, 0)
}

// NewZeroed creates a Vec of exactly capacity elements, all zero.
//
// No page is touched: a fresh file mapping reads as zeros, so even a huge
// zeroed Vec starts with no resident memory at all.
func NewZeroed[T any](capacity int) (*Vec[T], error) {
	return create[T](capacity, capacity)
}

func create[T any](capacity, length int) (*Vec[T], error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if capacity < 0 {
		panic(fmt.Sprintf("diskvec: negative capacity %d", capacity))
	}

	// Round the byte size up to whole pages. A zero-length mapping is not
	// allowed by mmap, so one page is the floor.
	pageSize := unix.Getpagesize()
	bytes := capacity * elemSize
	bytes = (bytes + pageSize - 1) / pageSize * pageSize
	if bytes == 0 {
		bytes = pageSize
	}

	file, err := os.CreateTemp("", "ptolemy-diskvec-*")
	if err != nil {
		return nil, fmt.Errorf("diskvec: create backing file: %w", err)
	}
	// Unlink right away: the mapping keeps the data alive.
	if err := os.Remove(file.Name()); err != nil {
		file.Close()
		return nil, fmt.Errorf("diskvec: unlink backing file: %w", err)
	}
	if err := file.Truncate(int64(bytes)); err != nil {
		file.Close()
		return nil, fmt.Errorf("diskvec: size backing file: %w", err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, bytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	// The mapping holds its own reference; the descriptor is no longer needed.
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("diskvec: mmap backing file: %w", err)
	}

	var elems []T
	if capacity > 0 {
		elems = unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), capacity)
	}

	return &Vec[T]{mem: mem, elems: elems, len: length}, nil
}

// Push appends value. Pushing past capacity panics.
func (v *Vec[T]) Push(value T) {
	if v.len == len(v.elems) {
		panic(fmt.Sprintf("diskvec: push past capacity %d", len(v.elems)))
	}
	v.elems[v.len] = value
	v.len++
}

// At returns the element at offset i, which must be < Len.
func (v *Vec[T]) At(i int) T {
	if i >= v.len {
		panic(fmt.Sprintf("diskvec: index %d out of range %d", i, v.len))
	}
	return v.elems[i]
}

// Set overwrites the element at offset i, which must be < Len.
func (v *Vec[T]) Set(i int, value T) {
	if i >= v.len {
		panic(fmt.Sprintf("diskvec: index %d out of range %d", i, v.len))
	}
	v.elems[i] = value
}

// Slice returns the committed elements as a plain slice sharing the mapping.
// The slice is invalidated by Close.
func (v *Vec[T]) Slice() []T {
	return v.elems[:v.len]
}

// Len returns the number of committed elements.
func (v *Vec[T]) Len() int {
	return v.len
}

// Cap returns the fixed capacity.
func (v *Vec[T]) Cap() int {
	return len(v.elems)
}

// Close unmaps the backing memory. The Vec and every slice obtained from it
// must not be used afterwards. Close is idempotent.
func (v *Vec[T]) Close() error {
	if v.mem == nil {
		return nil
	}
	mem := v.mem
	v.mem = nil
	v.elems = nil
	v.len = 0
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("diskvec: munmap: %w", err)
	}
	return nil
}
