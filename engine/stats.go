package battito

import (
	"math"
	"sort"

	Mt "github.com/maroda/battito/types"
)

// Statistics is derived from the current window every tick.
// It is never persisted, the average shifts as samples arrive and evict
// so the crossing scan has to re-run on the full buffer each time.
type Statistics struct {
	Average   float64
	Min       float64
	Max       float64
	Range     float64
	StdDev    float64
	Crossings []Mt.Sample // upward mean-crossing events, in order
}

// Analyze computes the window statistics and detects upward crossings
// in a single ordered scan. A crossing is recorded when the current
// value is strictly above the average and the previous value was
// at-or-below it: the rising edge of each heartbeat swing.
func Analyze(samples []Mt.Sample) Statistics {
	stats := Statistics{}
	n := len(samples)
	if n == 0 {
		return stats
	}

	stats.Min = samples[0].Value
	stats.Max = samples[0].Value

	var sum float64
	for _, s := range samples {
		sum += s.Value
		if s.Value < stats.Min {
			stats.Min = s.Value
		}
		if s.Value > stats.Max {
			stats.Max = s.Value
		}
	}
	stats.Average = sum / float64(n)
	stats.Range = stats.Max - stats.Min

	// Population variance against the freshly computed mean
	var sq float64
	for _, s := range samples {
		d := s.Value - stats.Average
		sq += d * d
	}
	stats.StdDev = math.Sqrt(sq / float64(n))

	// Crossing scan with a trailing previous pointer
	prev := samples[0].Value
	for _, s := range samples[1:] {
		if s.Value > stats.Average && prev <= stats.Average {
			stats.Crossings = append(stats.Crossings, s)
		}
		prev = s.Value
	}

	return stats
}

// Median returns the middle value of the input, or the mean of the
// two middle values for even counts. NaN and Inf entries are filtered
// out before sorting so a bad sample cannot poison the result.
// The second return is false when nothing numeric remains.
func Median(vals []float64) (float64, bool) {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	if len(clean) == 0 {
		return 0, false
	}

	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid], true
	}
	return (clean[mid-1] + clean[mid]) / 2, true
}
