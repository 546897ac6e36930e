package battito

import (
	Mt "github.com/maroda/battito/types"
)

// SampleBuffer is a fixed-capacity, time-ordered window of samples.
// At a fixed tick rate the capacity controls the analysis window:
// 300 samples at 60Hz is 5 seconds.
type SampleBuffer struct {
	Samples []Mt.Sample
	MaxSize int
}

// NewSampleBuffer allocates the rolling window up front
// so pushes never grow the backing array.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleBuffer{
		Samples: make([]Mt.Sample, 0, capacity),
		MaxSize: capacity,
	}
}

// Push appends a sample. When the buffer is full, exactly one
// eviction happens per push: the oldest sample drops off the front.
func (sb *SampleBuffer) Push(s Mt.Sample) {
	if len(sb.Samples) >= sb.MaxSize {
		copy(sb.Samples, sb.Samples[1:])
		sb.Samples = sb.Samples[:len(sb.Samples)-1]
	}
	sb.Samples = append(sb.Samples, s)
}

// Clear empties the window but keeps capacity.
func (sb *SampleBuffer) Clear() {
	sb.Samples = sb.Samples[:0]
}

// Len returns the current number of retained samples.
func (sb *SampleBuffer) Len() int {
	return len(sb.Samples)
}

// Values copies out the raw value sequence, oldest first.
func (sb *SampleBuffer) Values() []float64 {
	vals := make([]float64, len(sb.Samples))
	for i, s := range sb.Samples {
		vals[i] = s.Value
	}
	return vals
}
