package sampler_test

import (
	"testing"

	"github.com/sitegui/ptolemy/sampler"
)

func BenchmarkSample(b *testing.B) {
	items := intRange(100_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sampler.Sample(items, 1000, farmHash)
	}
}

func BenchmarkSampleWithPriority(b *testing.B) {
	items := intRange(100_000)
	priority := func(i int) int32 { return int32(i % 6) }
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sampler.SampleWithPriority(items, 1000, farmHash, priority)
	}
}
