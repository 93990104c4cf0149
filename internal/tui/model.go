// Package tui is the terminal dashboard: a bubbletea model that ingests
// the sampler stream, keeps the aggregated statistics on screen, and turns
// key presses into view changes. All state lives on the model and changes
// only inside Update, so nothing here needs a lock.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/proftop/proftop/internal/model"
	"github.com/proftop/proftop/internal/stats"
	"github.com/proftop/proftop/internal/sysmon"
	"github.com/proftop/proftop/internal/ui"
)

// Sampler is the dashboard's handle on the running profiler: the line
// stream, the pid it was pointed at, and its lifecycle.
type Sampler interface {
	Lines() <-chan string
	TargetPID() int
	Stop()
	Wait() error
}

// Deps wires the dashboard to its collaborators. Everything is handed in
// explicitly; the model owns no globals and reaches for nothing it was not
// given.
type Deps struct {
	Aggregate *stats.Aggregate
	Tracker   *sysmon.Tracker
	Sampler   Sampler
	Palette   *ui.Palette
	Keys      KeyMap
	Interval  time.Duration // refresh cadence, 0 = model.DefaultUpdateInterval
	SaveDir   string        // where dumps land, "" = working directory
	Log       zerolog.Logger
}

// TickMsg drives the refresh orchestrator.
type TickMsg time.Time

// samplesMsg is one drained batch of raw sampler output lines.
type samplesMsg []string

// samplerExitMsg reports that the sample stream ended, carrying the
// sampler's terminal error if it did not exit cleanly.
type samplerExitMsg struct{ err error }

// saveDoneMsg reports the outcome of an asynchronous dump.
type saveDoneMsg struct {
	path string
	err  error
}

// maxSampleBatch bounds how many lines one samplesMsg carries, so a fast
// sampler cannot monopolize the event loop.
const maxSampleBatch = 2048

// Dashboard is the bubbletea model driving the whole terminal session.
type Dashboard struct {
	agg      *stats.Aggregate
	tracker  *sysmon.Tracker
	smp      Sampler
	lines    <-chan string
	palette  *ui.Palette
	keys     KeyMap
	interval time.Duration
	saveDir  string
	log      zerolog.Logger

	// metadata from the sampler stream, in arrival order for dumps
	pid      int
	meta     map[string]string
	metaKeys []string

	// view state
	threadIdx int
	threshold float64
	fullMode  bool
	graphMode bool
	stopped   bool

	// pause snapshot; read paths go through the active* accessors
	frozen    bool
	frozenAgg *stats.Aggregate
	frozenSys sysmon.Frozen

	lastData time.Time // aggregate timestamp of the last presentation rebuild

	width  int
	height int
	screen *ui.Grid
	w      *widgets
	frame  string
}

// New assembles a dashboard around its dependencies. The terminal size is
// unknown until the program delivers the first WindowSizeMsg, so the screen
// starts empty.
func New(deps Deps) *Dashboard {
	if deps.Interval <= 0 {
		deps.Interval = model.DefaultUpdateInterval
	}
	d := &Dashboard{
		agg:       deps.Aggregate,
		tracker:   deps.Tracker,
		smp:       deps.Sampler,
		lines:     deps.Sampler.Lines(),
		palette:   deps.Palette,
		keys:      deps.Keys,
		interval:  deps.Interval,
		saveDir:   deps.SaveDir,
		log:       deps.Log,
		pid:       deps.Sampler.TargetPID(),
		meta:      make(map[string]string),
		threshold: model.DefaultThreshold,
		screen:    ui.NewGrid(0, 0),
		w:         buildWidgets(),
	}
	d.w.root.Attach(d.screen)

	d.w.logo.SetLines(logoLines("running"))
	d.w.cmdBar.SetText(d.commandBarText())
	d.w.thresholdVal.SetText(d.thresholdText())
	d.w.python.SetText(d.markup(`<hdrbox>PYTHON</hdrbox> --`))
	d.w.cpuVal.SetText(d.markup(`<hdrbox>CPU</hdrbox><cpu>  --% </cpu>`))
	d.w.memVal.SetText(d.markup(`<hdrbox>MEM</hdrbox><mem>    --M </mem>`))
	d.refreshTarget()
	return d
}

// Init stamps the session start and arms the two long-running commands:
// the refresh ticker and the stream reader.
func (d *Dashboard) Init() tea.Cmd {
	d.tracker.Start()
	return tea.Batch(d.tick(), d.readSamples)
}

func (d *Dashboard) tick() tea.Cmd {
	return tea.Tick(d.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// readSamples blocks on the stream for at least one line, then drains
// whatever else is already buffered up to the batch limit. A closed stream
// turns into the exit message, carrying the sampler's verdict.
func (d *Dashboard) readSamples() tea.Msg {
	line, ok := <-d.lines
	if !ok {
		return samplerExitMsg{err: d.smp.Wait()}
	}
	batch := samplesMsg{line}
	for len(batch) < maxSampleBatch {
		select {
		case l, ok := <-d.lines:
			if !ok {
				return batch
			}
			batch = append(batch, l)
		default:
			return batch
		}
	}
	return batch
}

// activeAgg returns the statistics the view reads: the live aggregate, or
// the snapshot while paused.
func (d *Dashboard) activeAgg() *stats.Aggregate {
	if d.frozen {
		return d.frozenAgg
	}
	return d.agg
}

func (d *Dashboard) activeDuration() time.Duration {
	if d.frozen {
		return d.frozenSys.Duration
	}
	return d.tracker.Duration()
}

func (d *Dashboard) activePeak() uint64 {
	if d.frozen {
		return d.frozenSys.MaxMemory
	}
	return d.tracker.MaxMemory()
}

// markup parses one of the dashboard's own markup strings. These are
// program text, not input, so a parse failure is a defect: log it and fall
// back to the raw string rather than losing the field.
func (d *Dashboard) markup(s string) ui.Text {
	t, err := ui.ParseMarkup(s, d.palette)
	if err != nil {
		d.log.Error().Err(err).Str("markup", s).Msg("bad markup")
		return ui.Plain(s)
	}
	return t
}

func (d *Dashboard) notifyPlain(s string) {
	d.w.notify.SetText(ui.Styled(s, ui.Attr{Color: "notify"}))
}

func (d *Dashboard) notifyError(s string) {
	d.w.notify.SetText(ui.Styled(s, ui.Attr{Color: "error"}))
}
