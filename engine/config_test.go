package battito_test

import (
	"os"
	"path/filepath"
	"testing"

	Mb "github.com/maroda/battito/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Mb.DefaultConfig()

	// the window is five seconds at the tick rate
	assertInt(t, cfg.MaxSamples, 300)
	assertInt(t, cfg.TickRateHz, 60)
	assertInt(t, cfg.MinSamplesForAnalysis, 100)
	assertFloat(t, cfg.MinBPM, 30)
	assertFloat(t, cfg.MaxBPM, 220)
}

func TestFillDefaults(t *testing.T) {
	t.Run("Zero fields take defaults", func(t *testing.T) {
		c := &Mb.Config{}
		c.FillDefaults()
		assertInt(t, c.MaxSamples, 300)
		assertFloat(t, c.StabilityTolerance, 3)
		assertString(t, c.Source, "synth")
	})

	t.Run("Set fields are kept", func(t *testing.T) {
		c := &Mb.Config{MaxSamples: 150, Source: "http"}
		c.FillDefaults()
		assertInt(t, c.MaxSamples, 150)
		// analysis floor follows the shrunk window
		assertInt(t, c.MinSamplesForAnalysis, 50)
		assertString(t, c.Source, "http")
	})
}

func TestLoadConfigFileName(t *testing.T) {
	t.Run("Partial file is filled with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "battito.json")
		data := []byte(`{"synthBpm": 80, "listenAddr": ":9000"}`)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("could not write fixture: %v", err)
		}

		cfg, err := Mb.LoadConfigFileName(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertFloat(t, cfg.SynthBPM, 80)
		assertString(t, cfg.ListenAddr, ":9000")
		assertInt(t, cfg.MaxSamples, 300)
	})

	t.Run("Empty file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("could not write fixture: %v", err)
		}

		_, err := Mb.LoadConfigFileName(path)
		if err == nil {
			t.Error("wanted an error for an empty file, got none")
		}
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := Mb.LoadConfigFileName(filepath.Join(t.TempDir(), "nope.json"))
		if err == nil {
			t.Error("wanted an error for a missing file, got none")
		}
	})
}
