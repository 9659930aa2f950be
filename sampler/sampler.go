package sampler

import (
	"math"
	"slices"
)

// Sampler keeps a stable, order-independent sample of at most maxNum items.
type Sampler[T any] struct {
	hash   func(T) uint64
	kept   []entry[T]
	maxNum int
	mask   uint64
	seen   int
}

type entry[T any] struct {
	item T
	hash uint64
}

// New creates a Sampler keeping at most maxNum items. hash must be a stable
// function of the item: the same item must hash the same across runs for the
// order-independence guarantee to mean anything.
func New[T any](maxNum int, hash func(T) uint64) *Sampler[T] {
	return &Sampler[T]{
		hash:   hash,
		kept:   make([]entry[T], 0, maxNum),
		maxNum: maxNum,
	}
}

// Update offers one item to the sampler.
func (s *Sampler[T]) Update(item T) {
	s.seen++
	if s.maxNum == 0 {
		return
	}

	hash := s.hash(item)
	if hash&s.mask != 0 {
		return
	}

	// Make room: every extra mask bit evicts about half of the kept list.
	for len(s.kept) == s.maxNum {
		s.mask = s.mask<<1 | 1
		s.thin()
	}

	// The mask may have moved past this item's hash in the meantime.
	if hash&s.mask == 0 {
		s.kept = append(s.kept, entry[T]{item: item, hash: hash})
	}
}

// Resample lowers the target size to newMaxNum, which must not exceed the
// current one, thinning the kept list as needed.
func (s *Sampler[T]) Resample(newMaxNum int) {
	if newMaxNum > s.maxNum {
		panic("sampler: resample cannot grow the target size")
	}
	s.maxNum = newMaxNum
	for len(s.kept) > s.maxNum {
		s.mask = s.mask<<1 | 1
		s.thin()
	}
}

// Finish returns the kept items. The sampler must not be updated afterwards.
func (s *Sampler[T]) Finish() []T {
	items := make([]T, len(s.kept))
	for i, kept := range s.kept {
		items[i] = kept.item
	}
	return items
}

// Len returns the number of currently kept items.
func (s *Sampler[T]) Len() int {
	return len(s.kept)
}

// Seen returns how many items were offered in total.
func (s *Sampler[T]) Seen() int {
	return s.seen
}

func (s *Sampler[T]) thin() {
	kept := s.kept[:0]
	for _, e := range s.kept {
		if e.hash&s.mask == 0 {
			kept = append(kept, e)
		}
	}
	s.kept = kept
}

// Sample runs a Sampler over a whole slice.
func Sample[T any](items []T, maxNum int, hash func(T) uint64) []T {
	s := New(maxNum, hash)
	for _, item := range items {
		s.Update(item)
	}
	return s.Finish()
}

// PrioritySampler stratifies a Sampler by an integer priority. Higher
// priorities win: if some priority level alone can fill the budget, no item
// of a lower priority is returned.
type PrioritySampler[T any] struct {
	maxNum   int
	hash     func(T) uint64
	priority func(T) int32

	buckets     map[int32]*Sampler[T]
	minPriority int32
}

// NewPriority creates a PrioritySampler with a total budget of maxNum items.
func NewPriority[T any](maxNum int, hash func(T) uint64, priority func(T) int32) *PrioritySampler[T] {
	return &PrioritySampler[T]{
		maxNum:      maxNum,
		hash:        hash,
		priority:    priority,
		buckets:     make(map[int32]*Sampler[T]),
		minPriority: math.MinInt32,
	}
}

// Update offers one item to its priority's bucket.
func (p *PrioritySampler[T]) Update(item T) {
	priority := p.priority(item)
	if priority < p.minPriority {
		// This stratum can no longer contribute to the result.
		return
	}

	bucket := p.buckets[priority]
	if bucket == nil {
		bucket = New(p.maxNum, p.hash)
		p.buckets[priority] = bucket
	}
	bucket.Update(item)

	if bucket.Seen() >= p.maxNum {
		// This priority alone could answer the full query.
		p.minPriority = priority
	}
}

// Finish pays the budget out from the highest priority down, resampling each
// bucket to the residual budget, and returns the kept items per priority.
// Strata that end up empty are omitted.
func (p *PrioritySampler[T]) Finish() map[int32][]T {
	priorities := make([]int32, 0, len(p.buckets))
	for priority := range p.buckets {
		priorities = append(priorities, priority)
	}
	slices.Sort(priorities)
	slices.Reverse(priorities)

	result := make(map[int32][]T)
	total := 0
	for _, priority := range priorities {
		bucket := p.buckets[priority]
		bucket.Resample(p.maxNum - total)
		items := bucket.Finish()
		if len(items) > 0 {
			result[priority] = items
		}
		// Count what the stratum consumed, not what survived thinning: a
		// stratum that saw the whole budget closes the payout even when its
		// own thinning kept fewer items.
		total += bucket.Seen()
		if total >= p.maxNum {
			break
		}
	}
	return result
}

// SampleWithPriority runs a PrioritySampler over a whole slice.
func SampleWithPriority[T any](items []T, maxNum int, hash func(T) uint64, priority func(T) int32) map[int32][]T {
	p := NewPriority(maxNum, hash, priority)
	for _, item := range items {
		p.Update(item)
	}
	return p.Finish()
}
