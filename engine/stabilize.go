package battito

import (
	"math"

	Mt "github.com/maroda/battito/types"
)

/*

	The Stabilizer is the lock state machine: NoCandidate, Forming,
	Locked. A lock is sticky. It persists across ticks of bad or
	insufficient input until a new, equally confident lock overwrites
	it, or a full reset clears it.

*/

// Smoothing blend for the forming candidate. 0.7/0.3 is a deliberate
// low-pass: it damps tick-to-tick jitter while still tracking drift.
const (
	smoothOld = 0.7
	smoothNew = 0.3
)

type Stabilizer struct {
	State Mt.LockState
	cfg   *Config
}

func NewStabilizer(cfg *Config) *Stabilizer {
	return &Stabilizer{cfg: cfg}
}

// Observe consumes the candidate buffer when it holds enough medians
// and returns the DisplayValue for this tick.
//
// With enough candidate evidence: the median-of-candidates either
// seeds a new forming candidate, reinforces the current one (smoothed
// toward the new evidence), or replaces it when the shift exceeds the
// tolerance. Reaching the required consecutive agreement locks the
// rounded candidate. Without enough evidence: surface the lock if one
// exists, otherwise "Detecting...".
func (st *Stabilizer) Observe(candidates *CandidateBuffer) Mt.DisplayValue {
	if candidates.Len() < st.cfg.RequiredStabilityCount {
		return st.fallback(Mt.StatusDetecting)
	}

	median, ok := Median(candidates.Medians)
	if !ok {
		return st.fallback(Mt.StatusDetecting)
	}

	s := &st.State
	switch {
	case !s.HasCandidate:
		s.StableCandidate = median
		s.HasCandidate = true
		s.StabilityCounter = 1
	case math.Abs(median-s.StableCandidate) <= st.cfg.StabilityTolerance:
		s.StabilityCounter++
		s.StableCandidate = smoothOld*s.StableCandidate + smoothNew*median
	default:
		// Candidate shifted beyond tolerance, start over from the new evidence
		s.StableCandidate = median
		s.StabilityCounter = 1
	}

	if s.StabilityCounter >= st.cfg.RequiredStabilityCount {
		s.LockedBPM = int(math.Round(s.StableCandidate))
		s.HasLock = true
	}

	if s.HasLock {
		return Mt.DisplayValue{Kind: Mt.DisplayLocked, BPM: s.LockedBPM}
	}
	if s.HasCandidate {
		return Mt.DisplayValue{
			Kind: Mt.DisplayTentative,
			BPM:  int(math.Round(s.StableCandidate)),
		}
	}
	return Mt.DisplayValue{Kind: Mt.DisplayStatus, Status: Mt.StatusCalculating}
}

// fallback surfaces the sticky lock when candidate evidence is missing.
func (st *Stabilizer) fallback(status string) Mt.DisplayValue {
	if st.State.HasLock {
		return Mt.DisplayValue{Kind: Mt.DisplayLocked, BPM: st.State.LockedBPM}
	}
	return Mt.DisplayValue{Kind: Mt.DisplayStatus, Status: status}
}

// ResetForming clears the forming candidate but keeps any lock.
func (st *Stabilizer) ResetForming() {
	st.State.StableCandidate = 0
	st.State.HasCandidate = false
	st.State.StabilityCounter = 0
}

// ResetAll clears everything including the lock.
func (st *Stabilizer) ResetAll() {
	st.State = Mt.LockState{}
}
