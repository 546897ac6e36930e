//go:build !nomidi

package battito

import (
	"log/slog"

	Mb "github.com/maroda/battito/engine"
	Mp "github.com/maroda/battito/plugin"
)

// InitMIDIOutput wires the metronome click from env configuration.
// A journal output already in place is not replaced: MIDI wins only
// when nothing else claimed the output slot.
func InitMIDIOutput(view *View, outputLocation string) error {
	midiPort := Mb.FillEnvVarInt("BATTITO_PLUGIN_MIDI_PORT", 0)
	midiNote := uint8(Mb.FillEnvVarInt("BATTITO_PLUGIN_MIDI_NOTE", 60))
	midiVel := uint8(Mb.FillEnvVarInt("BATTITO_PLUGIN_MIDI_VELOCITY", 100))
	midiClick := Mb.FillEnvVarInt("BATTITO_PLUGIN_MIDI_CLICK_MS", 50)

	slog.Info("Configuration found:",
		slog.Int("Port", midiPort),
		slog.Any("Note", midiNote),
		slog.Any("Velocity", midiVel),
		slog.Int("ClickMs", midiClick),
	)

	output, err := Mp.NewMIDIOutput(midiPort, midiNote, midiVel, midiClick)
	if err != nil {
		slog.Error("Failed to create adapter",
			slog.String("output", outputLocation),
			slog.Any("error", err))
		return err
	}
	if view.Output == nil {
		view.Output = output
	}
	slog.Info("MIDI Adapter Enabled", slog.String("output", outputLocation))
	return nil
}
