package battito

import (
	"log/slog"
	"sync"

	Mt "github.com/maroda/battito/types"
)

/*

	The Engine owns every buffer and counter of the pipeline.
	One tick flows strictly forward:

	sample -> buffer -> stats -> verdict -> raw BPM ->
	consistency filter -> candidate buffer -> stabilizer -> display

	One tick is processed fully and synchronously per call. The host
	drives ticks at its own cadence, the engine performs no timing of
	its own beyond the raw-BPM validity window, which is an age check
	against the caller-supplied timestamp.

*/

type Engine struct {
	MU          sync.Mutex
	Buffer      *SampleBuffer
	Filter      *ConsistencyFilter
	Candidates  *CandidateBuffer
	Stabilizer  *Stabilizer
	cfg         *Config
	lastStats   Statistics
	lastVerdict Mt.Verdict
	lastDisplay Mt.DisplayValue
	lastBeat    Mt.Beat
	hasBeat     bool
	lowSignal   int // consecutive LowSignal ticks
}

// NewEngine wires the pipeline from one config.
func NewEngine(cfg *Config) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		Buffer:     NewSampleBuffer(cfg.MaxSamples),
		Filter:     NewConsistencyFilter(cfg),
		Candidates: NewCandidateBuffer(cfg.CandidateBufferSize),
		Stabilizer: NewStabilizer(cfg),
		cfg:        cfg,
		lastDisplay: Mt.DisplayValue{
			Kind:   Mt.DisplayStatus,
			Status: Mt.Analyzing.String(),
		},
	}
}

// Tick ingests one timestamped brightness value and returns the
// display value for this tick. Timestamps must be non-decreasing
// within one run. Bad input never faults: insufficient evidence and
// implausible estimates are absorbed as verdicts or non-results.
func (e *Engine) Tick(value float64, timestampMs int64) Mt.DisplayValue {
	e.MU.Lock()
	defer e.MU.Unlock()

	e.Buffer.Push(Mt.Sample{Value: value, Timestamp: timestampMs})
	e.lastStats = Analyze(e.Buffer.Samples)
	e.lastVerdict = Grade(e.lastStats, e.Buffer.Len(), e.cfg)

	// Sustained LowSignal is a quality collapse: the lock and every
	// working buffer are dropped. The sample window itself stays, so
	// the verdict keeps reporting LowSignal instead of flapping back
	// through Analyzing while the stream continues.
	if e.lastVerdict == Mt.LowSignal {
		e.lowSignal++
		if e.lowSignal >= e.cfg.LowSignalResetTicks {
			slog.Info("Signal collapsed, dropping lock",
				slog.Int("lowSignalTicks", e.lowSignal))
			e.Filter.Clear()
			e.Candidates.Clear()
			e.Stabilizer.ResetAll()
			e.hasBeat = false
			e.lowSignal = 0
		}
	} else {
		e.lowSignal = 0
	}

	if e.lastVerdict != Mt.Good {
		// A momentarily bad window must not blank a confident reading:
		// with a lock, leave everything alone. Without one, partial reset.
		if !e.Stabilizer.State.HasLock {
			e.Filter.Clear()
			e.Candidates.Clear()
			e.Stabilizer.ResetForming()
			e.lastDisplay = Mt.DisplayValue{
				Kind:   Mt.DisplayStatus,
				Status: e.lastVerdict.String(),
			}
			return e.lastDisplay
		}
		e.lastDisplay = Mt.DisplayValue{
			Kind: Mt.DisplayLocked,
			BPM:  e.Stabilizer.State.LockedBPM,
		}
		return e.lastDisplay
	}

	e.trackBeat()

	if bpm, ok := EstimateRawBPM(e.lastStats.Crossings, e.cfg); ok {
		// The estimator leaves range screening to us
		if bpm >= e.cfg.MinBPM && bpm <= e.cfg.MaxBPM {
			e.Filter.Add(Mt.RawBPMObservation{
				BPM:       bpm,
				Timestamp: timestampMs,
				Range:     e.lastStats.Range,
			})
		}
	}

	e.Filter.Evict(timestampMs)
	if median, ok := e.Filter.Candidate(); ok {
		e.Candidates.Push(median)
	}

	e.lastDisplay = e.Stabilizer.Observe(e.Candidates)
	return e.lastDisplay
}

// trackBeat remembers the newest crossing so output adapters can be
// fed exactly one event per pulse cycle.
func (e *Engine) trackBeat() {
	n := len(e.lastStats.Crossings)
	if n == 0 {
		return
	}
	newest := e.lastStats.Crossings[n-1]
	if e.hasBeat && newest.Timestamp <= e.lastBeat.Timestamp {
		return
	}
	e.lastBeat = Mt.Beat{
		Timestamp: newest.Timestamp,
		Value:     newest.Value,
		Average:   e.lastStats.Average,
		Range:     e.lastStats.Range,
	}
	e.hasBeat = true
}

// BeatSince returns the newest beat event strictly after the given
// timestamp, so a polling host sees each beat once.
func (e *Engine) BeatSince(ts int64) (Mt.Beat, bool) {
	e.MU.Lock()
	defer e.MU.Unlock()
	if !e.hasBeat || e.lastBeat.Timestamp <= ts {
		return Mt.Beat{}, false
	}
	return e.lastBeat, true
}

// Reset clears working buffers. With clearLock it is the full reset
// used on stop/restart, otherwise the lock survives.
func (e *Engine) Reset(clearLock bool) {
	e.MU.Lock()
	defer e.MU.Unlock()
	e.resetLocked(clearLock)
}

func (e *Engine) resetLocked(clearLock bool) {
	e.Buffer.Clear()
	e.Filter.Clear()
	e.Candidates.Clear()
	e.lastStats = Statistics{}
	e.hasBeat = false
	e.lowSignal = 0
	if clearLock {
		e.Stabilizer.ResetAll()
		e.lastVerdict = Mt.Analyzing
		e.lastDisplay = Mt.DisplayValue{
			Kind:   Mt.DisplayStatus,
			Status: Mt.Analyzing.String(),
		}
	} else {
		e.Stabilizer.ResetForming()
	}
}

// Verdict returns the quality classification of the last tick.
func (e *Engine) Verdict() Mt.Verdict {
	e.MU.Lock()
	defer e.MU.Unlock()
	return e.lastVerdict
}

// Display returns the last tick's display value without ticking.
func (e *Engine) Display() Mt.DisplayValue {
	e.MU.Lock()
	defer e.MU.Unlock()
	return e.lastDisplay
}

// Locked reports the sticky lock, if any.
func (e *Engine) Locked() (int, bool) {
	e.MU.Lock()
	defer e.MU.Unlock()
	return e.Stabilizer.State.LockedBPM, e.Stabilizer.State.HasLock
}

// Snapshot is the render view of the engine for the host:
// recent values plus the stats behind the current verdict.
type Snapshot struct {
	Values  []float64
	Stats   Statistics
	Verdict Mt.Verdict
	Display Mt.DisplayValue
}

func (e *Engine) Snapshot() Snapshot {
	e.MU.Lock()
	defer e.MU.Unlock()
	return Snapshot{
		Values:  e.Buffer.Values(),
		Stats:   e.lastStats,
		Verdict: e.lastVerdict,
		Display: e.lastDisplay,
	}
}
