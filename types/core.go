package types

/*

	These are the "immutable" core types of Battito,
	provided for cross-package use (e.g. Plugins) and testing.

	There are no functions defined here beyond small
	display/string helpers. Struct constructors are
	housed in their own packages. Methods taking these
	types should create local aliases,
	for example: type Beats []Mt.Beat

*/

import "strconv"

// Sample is one brightness reading from the optical stream.
// Value is normalized to [0,1] by the caller's frame reduction.
// Timestamp is monotonic milliseconds supplied by the host.
type Sample struct {
	Value     float64
	Timestamp int64
}

// Beat is an upward mean-crossing event, one per pulse cycle.
// The existence of a Beat is always true, there is no boolean.
type Beat struct {
	Timestamp int64   // monotonic ms of the crossing sample
	Value     float64 // sample value at the crossing
	Average   float64 // window average that was crossed
	Range     float64 // window range when the beat was seen
}

// RawBPMObservation is one instantaneous rate estimate,
// retained only while it is younger than the validity window.
type RawBPMObservation struct {
	BPM       float64
	Timestamp int64
	Range     float64 // signal range backing the estimate
}

// Verdict classifies the signal window before any rate math is trusted.
type Verdict int

const (
	Analyzing      Verdict = iota // not enough samples yet
	LowSignal                     // range below minimum
	Noisy                         // stddev/range ratio too high
	DetectingPulse                // too few crossings
	Good                          // rate estimation permitted
)

func (v Verdict) String() string {
	switch v {
	case Analyzing:
		return "Analyzing..."
	case LowSignal:
		return "Low Signal (Place finger firmly)"
	case Noisy:
		return "Noisy Signal (Hold still)"
	case DetectingPulse:
		return "Detecting Pulse..."
	case Good:
		return "Good Signal"
	default:
		return "unknown"
	}
}

// DisplayKind discriminates what a DisplayValue carries.
type DisplayKind int

const (
	DisplayStatus    DisplayKind = iota // status string only
	DisplayTentative                    // forming candidate, not yet locked
	DisplayLocked                       // confident locked BPM
)

// DisplayValue is the single result of one tick:
// a locked integer BPM, a tentative integer BPM,
// or one of the enumerated status strings.
type DisplayValue struct {
	Kind   DisplayKind
	BPM    int    // valid for DisplayTentative and DisplayLocked
	Status string // valid for DisplayStatus
}

// Statuses surfaced by the stabilizer itself, distinct from Verdict strings.
const (
	StatusCalculating = "Calculating..."
	StatusDetecting   = "Detecting..."
)

func (d DisplayValue) String() string {
	switch d.Kind {
	case DisplayLocked:
		return strconv.Itoa(d.BPM) + " BPM"
	case DisplayTentative:
		return "~" + strconv.Itoa(d.BPM) + " BPM"
	default:
		return d.Status
	}
}

// LockState is the only state that survives transient signal loss.
// LockedBPM is the one value ever exposed as a confident answer.
type LockState struct {
	StableCandidate  float64 // smoothed forming candidate
	HasCandidate     bool
	StabilityCounter int
	LockedBPM        int
	HasLock          bool
}
