package battito

import (
	Mt "github.com/maroda/battito/types"
)

// Grade is the signal quality gate: a pure classifier run every tick
// before any rate math is trusted. Precedence matters, first match wins:
//
//  1. not enough samples       -> Analyzing
//  2. range below minimum      -> LowSignal
//  3. stddev/range ratio high  -> Noisy
//  4. too few crossings        -> DetectingPulse
//  5. otherwise                -> Good
//
// Only Good permits rate estimation this tick. The gate never errors,
// it always yields exactly one verdict.
func Grade(stats Statistics, sampleCount int, cfg *Config) Mt.Verdict {
	if sampleCount < cfg.MinSamplesForAnalysis {
		return Mt.Analyzing
	}
	if stats.Range < cfg.MinSignalRange {
		return Mt.LowSignal
	}
	if stats.Range > 0 && stats.StdDev/stats.Range > cfg.MaxStdDevRatio {
		return Mt.Noisy
	}
	if len(stats.Crossings) < cfg.MinCrossingsForRawBPM {
		return Mt.DetectingPulse
	}
	return Mt.Good
}
