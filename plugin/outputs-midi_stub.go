//go:build nomidi

package plugin

import (
	"fmt"

	Mt "github.com/maroda/battito/types"
)

type MIDIOutput struct{}

func (m *MIDIOutput) WriteBeat(beat *Mt.Beat) error {
	return fmt.Errorf("MIDI support not compiled in this build")
}

func (m *MIDIOutput) WriteBatch(beats []*Mt.Beat) error {
	return fmt.Errorf("MIDI support not compiled in this build")
}

func (m *MIDIOutput) QueryRange(start, end int64) ([]*Mt.Beat, error) {
	return nil, fmt.Errorf("MIDI support not compiled in this build")
}

func (m *MIDIOutput) Flush() error { return nil }
func (m *MIDIOutput) Close() error { return nil }
func (m *MIDIOutput) Type() string { return "midi-disabled" }
