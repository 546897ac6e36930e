package battito

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	Mb "github.com/maroda/battito/engine"
	Mt "github.com/maroda/battito/types"
)

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket for live readings
// - Version for programmatic use
// - Reading + beat data for UI feedback
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.Handle("/version", otelhttp.NewHandler(http.HandlerFunc(v.VersionHandler), "version"))
	api.Handle("/reading", otelhttp.NewHandler(http.HandlerFunc(v.ReadingHandler), "reading"))
	api.Handle("/beats", otelhttp.NewHandler(http.HandlerFunc(v.BeatsHandler), "beats"))
	api.HandleFunc("/plugin/type", v.PluginControlHandler)

	return r
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

// ReadingData is the live reading shape served to the UI,
// the same payload the websocket pushes.
type ReadingData struct {
	Kind      string  `json:"kind"` // "locked", "tentative", "status"
	BPM       int     `json:"bpm"`
	Status    string  `json:"status"`
	Verdict   string  `json:"verdict"`
	Range     float64 `json:"range"`
	Average   float64 `json:"average"`
	Samples   int     `json:"samples"`
	Crossings int     `json:"crossings"`
}

func (v *View) CurrentReading() ReadingData {
	snap := v.Engine.Snapshot()

	rd := ReadingData{
		Status:    snap.Display.String(),
		Verdict:   snap.Verdict.String(),
		Range:     Mb.FloatPrecise(snap.Stats.Range, 6),
		Average:   Mb.FloatPrecise(snap.Stats.Average, 6),
		Samples:   len(snap.Values),
		Crossings: len(snap.Stats.Crossings),
	}

	switch snap.Display.Kind {
	case Mt.DisplayLocked:
		rd.Kind = "locked"
		rd.BPM = snap.Display.BPM
	case Mt.DisplayTentative:
		rd.Kind = "tentative"
		rd.BPM = snap.Display.BPM
	default:
		rd.Kind = "status"
	}

	return rd
}

func (v *View) ReadingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v.CurrentReading())
}

// BeatsHandler queries the journal for beats in a timestamp range.
// Without query params it returns the whole run so far.
func (v *View) BeatsHandler(w http.ResponseWriter, r *http.Request) {
	if v.Output == nil {
		http.Error(w, "no output configured", http.StatusNotFound)
		return
	}

	start := int64(0)
	end := int64(1<<63 - 1)
	if q := r.URL.Query().Get("start"); q != "" {
		if p, err := strconv.ParseInt(q, 10, 64); err == nil {
			start = p
		}
	}
	if q := r.URL.Query().Get("end"); q != "" {
		if p, err := strconv.ParseInt(q, 10, 64); err == nil {
			end = p
		}
	}

	beats, err := v.Output.QueryRange(start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(beats)
}

// PluginControlHandler reports the active output adapter type.
// POST only, mirroring the plugin control surface.
func (v *View) PluginControlHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "invalid method", http.StatusMethodNotAllowed)
		return
	}
	if v.Output == nil {
		http.Error(w, "no output adapter configured", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"type": v.Output.Type()})
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}
