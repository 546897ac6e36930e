package battito

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

const (
	webTimeout = 10 * time.Second
)

// SampleSource produces one (value, timestamp) pair per tick for the
// engine. Timestamps are monotonic milliseconds and non-decreasing.
type SampleSource interface {
	Next() (float64, int64, error)
}

// SynthSource generates a deliberately simple PPG-like waveform:
// fundamental at the configured heart rate, a dicrotic second
// harmonic, slow baseline drift, and cheap deterministic noise.
// Timestamps advance at the configured tick rate without touching
// the wall clock, so runs are reproducible.
type SynthSource struct {
	BPM      float64
	TickMs   float64 // timestamp step per Next
	Noise    float64 // 0.0 - 0.05 is realistic
	Baseline float64 // center brightness
	Swing    float64 // half the peak-to-peak pulse amplitude
	nowMs    float64
	phase    float64
}

func NewSynthSource(bpm, tickRateHz float64) *SynthSource {
	return &SynthSource{
		BPM:      bpm,
		TickMs:   1000 / tickRateHz,
		Baseline: 0.52,
		Swing:    0.01,
	}
}

func (s *SynthSource) Next() (float64, int64, error) {
	cycleHz := s.BPM / 60.0
	s.phase += cycleHz * s.TickMs / 1000
	if s.phase >= 1.0 {
		s.phase -= 1.0
	}

	// Systolic peak plus a smaller dicrotic bump half a cycle later
	v := s.Baseline +
		s.Swing*math.Sin(2*math.Pi*s.phase) +
		0.3*s.Swing*math.Sin(4*math.Pi*s.phase)

	// Slow baseline drift, well below the pulse band
	v += 0.2 * s.Swing * math.Sin(2*math.Pi*s.nowMs/15000)

	if s.Noise > 0 {
		n := math.Sin(12345.678*s.phase) * 9876.543
		v += s.Noise * (2*(n-math.Floor(n)) - 1)
	}

	ts := int64(s.nowMs)
	s.nowMs += s.TickMs
	return v, ts, nil
}

// HTTPClient is the injection point for testing fetches.
type HTTPClient interface {
	Get(string) (*http.Response, error)
}

// Shared HTTP Client
var sharedHTTPClient = &http.Client{
	Timeout: webTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	},
}

// SingleFetchWithClient handles the messy business of the HTTP connection
// and is testable with dependency injection, called by SingleFetch
func SingleFetchWithClient(url string, c HTTPClient) (int, []byte, error) {
	resp, err := c.Get(url)
	if err != nil {
		slog.Error("Fetch Error", slog.Any("Error", err))
		return 0, nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Could not read body", slog.Any("Error", err))
		return 0, nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Close Error", slog.Any("Error", err))
			return
		}
	}()

	return resp.StatusCode, body, err
}

// SingleFetch returns the Response Code, raw byte stream body, and error
// This uses a Shared HTTP Client:
// - to reuse existing endpoint connections
// - to avoid stale connections that eat up OS FDs
func SingleFetch(url string) (int, []byte, error) {
	return SingleFetchWithClient(url, sharedHTTPClient)
}

// HTTPSource polls a collaborator endpoint that publishes the reduced
// camera brightness as JSON, e.g. {"brightness": 0.43, "ts": 123456}.
// The value key is configurable. When the payload carries no timestamp
// the source stamps against its own monotonic clock.
type HTTPSource struct {
	URL    string
	Key    string // JSON key carrying the brightness value
	TsKey  string // optional JSON key carrying the timestamp in ms
	Client HTTPClient
	start  time.Time
	lastTs int64
}

func NewHTTPSource(url, key string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Key:    key,
		TsKey:  "ts",
		Client: sharedHTTPClient,
		start:  time.Now(),
	}
}

func (h *HTTPSource) Next() (float64, int64, error) {
	code, body, err := SingleFetchWithClient(h.URL, h.Client)
	if err != nil {
		return 0, 0, err
	}
	if code != http.StatusOK {
		return 0, 0, fmt.Errorf("source returned status %d", code)
	}

	var payload map[string]json.Number
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Error("Could not decode source payload", slog.Any("Error", err))
		return 0, 0, err
	}

	raw, ok := payload[h.Key]
	if !ok {
		return 0, 0, fmt.Errorf("payload is missing key %q", h.Key)
	}
	value, err := raw.Float64()
	if err != nil {
		return 0, 0, fmt.Errorf("payload key %q is not numeric: %w", h.Key, err)
	}

	ts := time.Since(h.start).Milliseconds()
	if rawTs, ok := payload[h.TsKey]; ok {
		if t, err := rawTs.Int64(); err == nil {
			ts = t
		}
	}

	// The engine requires non-decreasing timestamps
	if ts < h.lastTs {
		ts = h.lastTs
	}
	h.lastTs = ts

	return value, ts, nil
}
