package battito

import (
	"log/slog"
	"sync"
	"time"

	Mt "github.com/maroda/battito/types"
)

// TickSupervisor is a wrapper around the View that manages the tick goroutine
// They are strongly coupled, one knows about the other
type TickSupervisor struct {
	View     *View
	Ticker   *time.Ticker
	StopChan chan struct{}
	WG       sync.WaitGroup
	lastBeat int64
}

func (v *View) NewTickSupervisor() *TickSupervisor {
	ts := &TickSupervisor{
		View: v,
	}
	v.Supervisor = ts
	return ts
}

// Start the TickSupervisor
func (t *TickSupervisor) Start() {
	t.StopChan = make(chan struct{})
	rate := t.View.Config.TickRateHz
	if rate <= 0 {
		rate = 60
	}
	t.Ticker = time.NewTicker(time.Second / time.Duration(rate))

	t.WG.Add(1)
	go func() {
		defer t.WG.Done()
		defer t.Ticker.Stop()

		for {
			select {
			case <-t.Ticker.C:
				t.View.TickOnce(t)
			case <-t.StopChan:
				return
			}
		}
	}()
}

// Stop the TickSupervisor
func (t *TickSupervisor) Stop() {
	if t.StopChan != nil {
		close(t.StopChan)
		t.WG.Wait()
	}
}

// Restart the TickSupervisor
func (t *TickSupervisor) Restart() {
	t.Stop()
	t.Start()
}

// TickOnce pulls one sample from the source, runs it through the
// engine, mirrors the result into stats, and feeds any new beat to
// the output adapter. The engine tick itself is synchronous; a new
// tick is never dispatched before the previous one returns.
func (v *View) TickOnce(t *TickSupervisor) {
	value, ts, err := v.Source.Next()
	if err != nil {
		slog.Error("Source failed, skipping tick", slog.Any("Error", err))
		return
	}

	display := v.Engine.Tick(value, ts)

	if v.Stats != nil {
		v.Stats.RecordTick(v.Engine.Verdict().String())
		bpm, held := v.Engine.Locked()
		v.Stats.RecordLock(bpm, held)
	}

	if beat, ok := v.Engine.BeatSince(t.lastBeat); ok {
		t.lastBeat = beat.Timestamp
		if v.Stats != nil {
			v.Stats.Beats.Inc()
		}
		v.writeBeat(beat)
	}

	if display.Kind == Mt.DisplayLocked {
		slog.Debug("Tick locked", slog.Int("BPM", display.BPM))
	}
}

// writeBeat hands one beat to the configured output, if any.
func (v *View) writeBeat(beat Mt.Beat) {
	if v.Output == nil {
		return
	}
	if err := v.Output.WriteBeat(&beat); err != nil {
		slog.Error("Output rejected beat", slog.Any("Error", err))
	}
}
