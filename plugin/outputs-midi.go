//go:build !nomidi

package plugin

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	Mt "github.com/maroda/battito/types"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// MIDIOutput clicks a metronome note for every detected beat,
// so you can hear the pulse the engine is seeing.
type MIDIOutput struct {
	Port     drivers.Out
	Send     func(msg midi.Message) error
	Channel  uint8
	Note     uint8
	Velocity uint8
	ClickMs  int
	WG       sync.WaitGroup
}

func NewMIDIOutput(port int, note, velocity uint8, clickMs int) (*MIDIOutput, error) {
	out, err := midi.OutPort(port)
	if err != nil {
		slog.Error("Error opening MIDI port", slog.Int("port", port))
		return nil, fmt.Errorf("error opening MIDI port: %q", err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		slog.Error("Error sending to MIDI port", slog.Int("port", port))
		return nil, fmt.Errorf("error sending to MIDI port: %q", err)
	}

	initmidi := &MIDIOutput{
		Port:     out,
		Send:     send,
		Note:     note,
		Velocity: velocity,
		ClickMs:  clickMs,
		WG:       sync.WaitGroup{},
	}

	return initmidi, nil
}

func (mo *MIDIOutput) SendNoteOnMIDI(midic, midin, midiv uint8) error {
	return mo.Send(midi.NoteOn(midic, midin, midiv))
}

func (mo *MIDIOutput) SendNoteOffMIDI(midic, midin uint8) error {
	return mo.Send(midi.NoteOff(midic, midin))
}

func (mo *MIDIOutput) WriteBeat(beat *Mt.Beat) error {
	mo.WG.Add(1)
	go func() {
		defer mo.WG.Done()
		if err := mo.SendNoteOnMIDI(mo.Channel, mo.Note, mo.Velocity); err != nil {
			slog.Error("NoteOn event failed")
		}
		time.Sleep(time.Duration(mo.ClickMs) * time.Millisecond)
		if err := mo.SendNoteOffMIDI(mo.Channel, mo.Note); err != nil {
			slog.Error("NoteOff event failed, attempting Flush")
			mo.Flush()
		}
	}()

	return nil
}

func (mo *MIDIOutput) WriteBatch(beats []*Mt.Beat) error {
	for _, b := range beats {
		if err := mo.WriteBeat(b); err != nil {
			return err
		}
	}
	return nil
}

// QueryRange is not supported, MIDI is a fire-and-forget output
func (mo *MIDIOutput) QueryRange(start, end int64) ([]*Mt.Beat, error) {
	return nil, fmt.Errorf("MIDI output does not retain beats")
}

func (mo *MIDIOutput) Flush() error {
	return mo.Send(midi.ControlChange(0, midi.AllNotesOff, midi.Off))
}

func (mo *MIDIOutput) Close() error {
	mo.WG.Wait()

	if mo.Port != nil {
		mo.Port.Close()
		midi.CloseDriver()
	}
	return nil
}

func (mo *MIDIOutput) Type() string { return "MIDI" }
