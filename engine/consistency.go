package battito

import (
	Mt "github.com/maroda/battito/types"
)

// ConsistencyFilter holds the time-windowed set of recent valid raw
// BPM observations and only promotes a candidate median when they
// agree. Disagreement does not clear the window, entries age out
// naturally against the tick's own timestamp.
type ConsistencyFilter struct {
	Recent []Mt.RawBPMObservation
	cfg    *Config
}

func NewConsistencyFilter(cfg *Config) *ConsistencyFilter {
	return &ConsistencyFilter{cfg: cfg}
}

// Add appends an accepted raw observation.
func (cf *ConsistencyFilter) Add(obs Mt.RawBPMObservation) {
	cf.Recent = append(cf.Recent, obs)
}

// Evict drops every observation older than the validity window,
// measured against the caller-supplied timestamp, never wall-clock.
func (cf *ConsistencyFilter) Evict(nowMs int64) {
	kept := cf.Recent[:0]
	for _, obs := range cf.Recent {
		if nowMs-obs.Timestamp < cf.cfg.RawBPMValidityWindowMs {
			kept = append(kept, obs)
		}
	}
	cf.Recent = kept
}

// Candidate evaluates the retained window. When enough observations
// exist and their spread is within the consistency threshold, it
// returns their median as a candidate. Call Evict first.
func (cf *ConsistencyFilter) Candidate() (float64, bool) {
	if len(cf.Recent) < cf.cfg.MinConsistentRawBPMs {
		return 0, false
	}

	bpms := make([]float64, len(cf.Recent))
	low, high := cf.Recent[0].BPM, cf.Recent[0].BPM
	for i, obs := range cf.Recent {
		bpms[i] = obs.BPM
		if obs.BPM < low {
			low = obs.BPM
		}
		if obs.BPM > high {
			high = obs.BPM
		}
	}
	if high-low > cf.cfg.RawBPMConsistencyThreshold {
		return 0, false
	}

	return Median(bpms)
}

// Clear empties the window, used by partial and full resets.
func (cf *ConsistencyFilter) Clear() {
	cf.Recent = cf.Recent[:0]
}

// CandidateBuffer is the bounded FIFO of candidate medians feeding
// the stabilizer.
type CandidateBuffer struct {
	Medians []float64
	MaxSize int
}

func NewCandidateBuffer(capacity int) *CandidateBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &CandidateBuffer{
		Medians: make([]float64, 0, capacity),
		MaxSize: capacity,
	}
}

// Push appends a candidate median, evicting the oldest when full.
func (cb *CandidateBuffer) Push(m float64) {
	if len(cb.Medians) >= cb.MaxSize {
		copy(cb.Medians, cb.Medians[1:])
		cb.Medians = cb.Medians[:len(cb.Medians)-1]
	}
	cb.Medians = append(cb.Medians, m)
}

// Clear empties the buffer but keeps capacity.
func (cb *CandidateBuffer) Clear() {
	cb.Medians = cb.Medians[:0]
}

func (cb *CandidateBuffer) Len() int {
	return len(cb.Medians)
}
