package battito

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	Mb "github.com/maroda/battito/engine"
	Mo "github.com/maroda/battito/obvy"
	Mp "github.com/maroda/battito/plugin"
)

const (
	screenGutter = 4
)

// View is updated by whatever the Engine sees
type View struct {
	Engine     *Mb.Engine         // the streaming BPM engine
	Source     Mb.SampleSource    // where samples come from
	Config     *Mb.Config         // engine + host configuration
	Screen     tcell.Screen       // the screen itself
	Stats      *Mo.StatsInternal  // Internal status for prometheus
	Output     Mp.OutputAdapter   // optional beat output
	Supervisor *TickSupervisor    // drives the tick loop
	server     *http.Server       // Prometheus metrics server
}

// ValToRune maps a sample's position inside the current window swing
// onto a block rune for the sparkline. Outside a usable range the
// cell stays blank.
func ValToRune(val, min, max float64) rune {
	if max <= min {
		return ' '
	}
	pos := (val - min) / (max - min)

	switch {
	case pos < 0.125:
		return '▁'
	case pos < 0.25:
		return '▂'
	case pos < 0.375:
		return '▃'
	case pos < 0.5:
		return '▄'
	case pos < 0.625:
		return '▅'
	case pos < 0.75:
		return '▆'
	case pos < 0.875:
		return '▇'
	default:
		return '█'
	}
}

// Sparkline renders the newest samples of the snapshot into a rune
// strip of the given width, oldest left, newest right.
func Sparkline(snap Mb.Snapshot, width int) []rune {
	display := make([]rune, width)
	for i := range display {
		display[i] = ' '
	}

	vals := snap.Values
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}
	offset := width - len(vals)
	for i, val := range vals {
		display[offset+i] = ValToRune(val, snap.Stats.Min, snap.Stats.Max)
	}
	return display
}

func (v *View) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		v.Screen.SetContent(x+i, y, r, nil, style)
	}
}

func (v *View) UpdateScreen() {
	v.Screen.Clear()

	width, _ := v.Screen.Size()
	snap := v.Engine.Snapshot()

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorPink)
	bpmStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	dimStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	waveStyle := tcell.StyleDefault.Foreground(tcell.ColorOliveDrab)

	v.drawText(screenGutter, 1, titleStyle, "battito")

	// The one line that matters
	v.drawText(screenGutter, 3, bpmStyle, snap.Display.String())
	v.drawText(screenGutter, 4, dimStyle, snap.Verdict.String())

	// Signal window sparkline
	wave := Sparkline(snap, width-2*screenGutter)
	for i, r := range wave {
		v.Screen.SetContent(screenGutter+i, 6, r, nil, waveStyle)
	}

	v.drawText(screenGutter, 8, dimStyle,
		fmt.Sprintf("range %.4f  avg %.4f  crossings %d  samples %d",
			snap.Stats.Range, snap.Stats.Average,
			len(snap.Stats.Crossings), len(snap.Values)))
	v.drawText(screenGutter, 9, dimStyle, "q quit | r reset (keep lock) | R full reset")

	v.Screen.Show()
}

// run redraws periodically; the supervisor owns the tick loop, the
// screen only ever reads snapshots.
func (v *View) run() {
	// Panic recovery and logging
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in run loop", slog.Any("panic", r))
			slog.Error("Recovered from panic", slog.String("stack", string(debug.Stack())))
			debug.PrintStack()
		}
	}()

	slog.Info("Starting PulseView")
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		v.UpdateScreen()
	}
}

func (v *View) handleKeyBoardEvent() {
	for {
		ev := v.Screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.Screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
				v.shutdown()
				return
			case ev.Rune() == 'r':
				v.Engine.Reset(false)
			case ev.Rune() == 'R':
				v.Engine.Reset(true)
			}
		}
	}
}

// shutdown stops the tick loop, performs the full reset, and releases
// the screen and output. Stop is synchronous: a tick already
// dispatched completes harmlessly against cleared state.
func (v *View) shutdown() {
	if v.Supervisor != nil {
		v.Supervisor.Stop()
	}
	v.Engine.Reset(true)
	if v.Output != nil {
		if err := v.Output.Close(); err != nil {
			slog.Error("Output close failed", slog.Any("Error", err))
		}
	}
	if v.Screen != nil {
		v.Screen.Fini()
	}
}

// NewView creates the tcell screen that displays PulseView
func NewView(e *Mb.Engine, src Mb.SampleSource, cfg *Mb.Config) (*View, error) {
	if e == nil || src == nil {
		slog.Error("Could not get an Engine for display")
		return nil, errors.New("engine or source not found")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("Could not get new screen", slog.Any("Error", err))
		return nil, err
	}
	if err := screen.Init(); err != nil {
		slog.Error("Could not initialize screen", slog.Any("Error", err))
		return nil, err
	}

	// Define and configure the default screen
	defStyle := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorPink)
	screen.SetStyle(defStyle)

	// create an attached prometheus registry
	stats := Mo.NewStatsInternal()

	view := &View{
		Engine: e,
		Source: src,
		Config: cfg,
		Screen: screen,
		Stats:  stats,
	}

	view.UpdateScreen()

	return view, err
}

// StartPulseViewWithConfig is called by main to run the program.
// This also starts up the /metrics endpoint that is populated by prometheus.
func StartPulseViewWithConfig(cfg *Mb.Config) error {
	engine := Mb.NewEngine(cfg)
	src, err := SourceFromConfig(cfg)
	if err != nil {
		slog.Error("Failed to init source", slog.Any("Error", err))
		return err
	}

	view, err := NewView(engine, src, cfg)
	if err != nil {
		slog.Error("Could not start PulseView", slog.Any("Error", err))
		return err
	}

	view.initOutputs(cfg)

	// Server for stats endpoint
	view.server = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: view.SetupMux(),
	}

	// Run Battito
	view.NewTickSupervisor()
	view.Supervisor.Start()
	go view.run()

	// Run stats endpoint
	go func() {
		slog.Info("Starting Battito stats endpoint...", slog.String("Port", cfg.ListenAddr))
		if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not start stats endpoint", slog.Any("Error", err))
		}
	}()

	view.handleKeyBoardEvent()

	return err
}

// StartWebNoTUI runs headless: tick loop plus data server, no screen.
func StartWebNoTUI(cfg *Mb.Config) error {
	engine := Mb.NewEngine(cfg)
	src, err := SourceFromConfig(cfg)
	if err != nil {
		slog.Error("Failed to init source", slog.Any("Error", err))
		return err
	}

	stats := Mo.NewStatsInternal()
	view := &View{
		Engine: engine,
		Source: src,
		Config: cfg,
		Stats:  stats,
	}

	view.initOutputs(cfg)

	// Server for stats endpoint
	view.server = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: view.SetupMux(),
	}

	view.NewTickSupervisor()
	view.Supervisor.Start()

	// Run stats endpoint (blocks)
	slog.Info("Starting Battito web server...", slog.String("Port", cfg.ListenAddr))
	if err := view.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Could not start stats endpoint", slog.Any("Error", err))
		return err
	}

	return nil
}

// SourceFromConfig picks the configured sample source.
func SourceFromConfig(cfg *Mb.Config) (Mb.SampleSource, error) {
	switch cfg.Source {
	case "", "synth":
		// Env overrides beat the config file, handy for demo runs
		bpm := Mb.FillEnvVarFloat("BATTITO_SYNTH_BPM", cfg.SynthBPM)
		src := Mb.NewSynthSource(bpm, float64(cfg.TickRateHz))
		src.Noise = Mb.FillEnvVarFloat("BATTITO_SYNTH_NOISE", cfg.SynthNoise)
		return src, nil
	case "http":
		if cfg.SourceURL == "" {
			return nil, errors.New("http source requires sourceUrl")
		}
		return Mb.NewHTTPSource(cfg.SourceURL, cfg.SourceKey), nil
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Source)
	}
}

// initOutputs wires the journal and, when enabled, MIDI.
func (v *View) initOutputs(cfg *Mb.Config) {
	if cfg.JournalPath != "" {
		out, err := Mp.NewBadgerOutput(cfg.JournalPath, 16)
		if err != nil {
			slog.Error("Journal unavailable, continuing without",
				slog.Any("Error", err))
		} else {
			v.Output = out
			slog.Info("Beat journal enabled", slog.String("path", cfg.JournalPath))
		}
	}

	if Mb.FillEnvVar("BATTITO_PLUGIN_MIDI") != "ENOENT" {
		if err := InitMIDIOutput(v, "midi"); err != nil {
			slog.Error("MIDI output unavailable", slog.Any("Error", err))
		}
	}
}
