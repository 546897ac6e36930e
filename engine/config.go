package battito

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
)

// Config carries every gate and state-machine threshold.
// Each field controls exactly one decision in the pipeline.
// Zero fields are filled with defaults on load.
type Config struct {
	MaxSamples                 int     `json:"maxSamples"`                 // window capacity, 5s at 60Hz
	MinSamplesForAnalysis      int     `json:"minSamplesForAnalysis"`      // below this: Analyzing
	MinSignalRange             float64 `json:"minSignalRange"`             // below this: LowSignal
	MaxStdDevRatio             float64 `json:"maxStdDevRatio"`             // above this: Noisy
	MinCrossingsForRawBPM      int     `json:"minCrossingsForRawBpm"`      // below this: DetectingPulse
	RawBPMValidityWindowMs     int64   `json:"rawBpmValidityWindowMs"`     // observation age limit
	RawBPMConsistencyThreshold float64 `json:"rawBpmConsistencyThreshold"` // max spread for a candidate
	MinConsistentRawBPMs       int     `json:"minConsistentRawBpms"`       // observations needed for a candidate
	CandidateBufferSize        int     `json:"candidateBufferSize"`        // candidate median FIFO capacity
	RequiredStabilityCount     int     `json:"requiredStabilityCount"`     // consecutive agreements to lock
	StabilityTolerance         float64 `json:"stabilityTolerance"`         // BPM drift allowed while forming
	MinPlausibleIntervalMs     int64   `json:"minPlausibleIntervalMs"`     // open interval lower bound
	MaxPlausibleIntervalMs     int64   `json:"maxPlausibleIntervalMs"`     // open interval upper bound
	MinBPM                     float64 `json:"minBpm"`                     // raw estimate floor
	MaxBPM                     float64 `json:"maxBpm"`                     // raw estimate ceiling
	LowSignalResetTicks        int     `json:"lowSignalResetTicks"`        // sustained LowSignal before lock drop

	// Host settings, not used by the engine itself
	TickRateHz  int     `json:"tickRateHz"`
	ListenAddr  string  `json:"listenAddr"`
	JournalPath string  `json:"journalPath"`
	Source      string  `json:"source"`    // "synth" or "http"
	SourceURL   string  `json:"sourceUrl"` // collaborator endpoint for "http"
	SourceKey   string  `json:"sourceKey"` // JSON key carrying the brightness value
	SynthBPM    float64 `json:"synthBpm"`
	SynthNoise  float64 `json:"synthNoise"`
}

// DefaultConfig returns the thresholds the pipeline was tuned with.
func DefaultConfig() *Config {
	return &Config{
		MaxSamples:                 300,
		MinSamplesForAnalysis:      100, // one third of capacity
		MinSignalRange:             0.002,
		MaxStdDevRatio:             0.4,
		MinCrossingsForRawBPM:      3,
		RawBPMValidityWindowMs:     2000,
		RawBPMConsistencyThreshold: 10,
		MinConsistentRawBPMs:       3,
		CandidateBufferSize:        5,
		RequiredStabilityCount:     3,
		StabilityTolerance:         3,
		MinPlausibleIntervalMs:     270,
		MaxPlausibleIntervalMs:     2000,
		MinBPM:                     30,
		MaxBPM:                     220,
		LowSignalResetTicks:        180, // 3s of LowSignal at 60Hz
		TickRateHz:                 60,
		ListenAddr:                 ":8090",
		JournalPath:                "",
		Source:                     "synth",
		SourceKey:                  "brightness",
		SynthBPM:                   72,
		SynthNoise:                 0,
	}
}

// FillDefaults replaces zero-valued fields with defaults so a partial
// config file only has to name what it changes.
func (c *Config) FillDefaults() {
	d := DefaultConfig()
	if c.MaxSamples == 0 {
		c.MaxSamples = d.MaxSamples
	}
	if c.MinSamplesForAnalysis == 0 {
		c.MinSamplesForAnalysis = c.MaxSamples / 3
	}
	if c.MinSignalRange == 0 {
		c.MinSignalRange = d.MinSignalRange
	}
	if c.MaxStdDevRatio == 0 {
		c.MaxStdDevRatio = d.MaxStdDevRatio
	}
	if c.MinCrossingsForRawBPM == 0 {
		c.MinCrossingsForRawBPM = d.MinCrossingsForRawBPM
	}
	if c.RawBPMValidityWindowMs == 0 {
		c.RawBPMValidityWindowMs = d.RawBPMValidityWindowMs
	}
	if c.RawBPMConsistencyThreshold == 0 {
		c.RawBPMConsistencyThreshold = d.RawBPMConsistencyThreshold
	}
	if c.MinConsistentRawBPMs == 0 {
		c.MinConsistentRawBPMs = d.MinConsistentRawBPMs
	}
	if c.CandidateBufferSize == 0 {
		c.CandidateBufferSize = d.CandidateBufferSize
	}
	if c.RequiredStabilityCount == 0 {
		c.RequiredStabilityCount = d.RequiredStabilityCount
	}
	if c.StabilityTolerance == 0 {
		c.StabilityTolerance = d.StabilityTolerance
	}
	if c.MinPlausibleIntervalMs == 0 {
		c.MinPlausibleIntervalMs = d.MinPlausibleIntervalMs
	}
	if c.MaxPlausibleIntervalMs == 0 {
		c.MaxPlausibleIntervalMs = d.MaxPlausibleIntervalMs
	}
	if c.MinBPM == 0 {
		c.MinBPM = d.MinBPM
	}
	if c.MaxBPM == 0 {
		c.MaxBPM = d.MaxBPM
	}
	if c.LowSignalResetTicks == 0 {
		c.LowSignalResetTicks = d.LowSignalResetTicks
	}
	if c.TickRateHz == 0 {
		c.TickRateHz = d.TickRateHz
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.Source == "" {
		c.Source = d.Source
	}
	if c.SourceKey == "" {
		c.SourceKey = d.SourceKey
	}
	if c.SynthBPM == 0 {
		c.SynthBPM = d.SynthBPM
	}
}

// LoadConfigFileName pulls a given filename config off local disk
// Validation is performed on the file before opening
func LoadConfigFileName(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// validation
	err = validateLoad(file)
	if err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return nil, err
	}

	return LoadConfig(file)
}

func validateLoad(file *os.File) error {
	// validate file
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	// validate size
	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

func LoadConfig(file *os.File) (*Config, error) {
	// open file
	cf, err := os.Open(file.Name())
	if err != nil {
		slog.Error("could not open file")
		return nil, err
	}
	defer cf.Close()

	// decode json
	var config Config
	decoder := json.NewDecoder(cf)
	if err := decoder.Decode(&config); err != nil {
		slog.Error("could not decode file")
		return nil, err
	}

	config.FillDefaults()
	return &config, nil
}
