package battito

import (
	Mt "github.com/maroda/battito/types"
)

// EstimateRawBPM converts the ordered crossing events of one tick into
// an instantaneous rate. At least two events are needed. Consecutive
// inter-event intervals outside the plausible window are discarded at
// the interval level, which already excludes implied rates above ~222
// and below 30 BPM. The median of the surviving intervals becomes
// 60000/median BPM.
//
// Returns false when no estimate can be made. Range screening of the
// resulting BPM itself is the caller's job, not this function's.
func EstimateRawBPM(crossings []Mt.Sample, cfg *Config) (float64, bool) {
	if len(crossings) < 2 {
		return 0, false
	}

	var intervals []float64
	for i := 1; i < len(crossings); i++ {
		d := float64(crossings[i].Timestamp - crossings[i-1].Timestamp)
		if d <= float64(cfg.MinPlausibleIntervalMs) || d >= float64(cfg.MaxPlausibleIntervalMs) {
			continue
		}
		intervals = append(intervals, d)
	}
	if len(intervals) == 0 {
		return 0, false
	}

	median, ok := Median(intervals)
	if !ok || median <= 0 {
		return 0, false
	}

	return 60000 / median, true
}
