package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/proftop/proftop/internal/model"
	"github.com/proftop/proftop/internal/sampler"
	"github.com/proftop/proftop/internal/sysmon"
	"github.com/proftop/proftop/internal/ui"
)

// Update is the single state-transition point of the dashboard.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return d.handleResize(msg)
	case tea.KeyMsg:
		return d.handleKey(msg)
	case TickMsg:
		return d.handleTick()
	case samplesMsg:
		for _, line := range msg {
			d.ingest(line)
		}
		return d, d.readSamples
	case samplerExitMsg:
		d.applyStop(msg.err)
		return d, nil
	case saveDoneMsg:
		if msg.err != nil {
			d.log.Error().Err(msg.err).Msg("saving statistics failed")
			d.notifyError(fmt.Sprintf("Failed to save stats: %v", msg.err))
		} else {
			d.w.notify.SetText(d.markup(
				fmt.Sprintf("Stats saved as <running>%s</running> ", ui.EscapeMarkup(msg.path))))
		}
		d.redraw()
		return d, nil
	}
	return d, nil
}

func (d *Dashboard) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	d.width, d.height = msg.Width, msg.Height
	d.screen.Resize(msg.Width, msg.Height)
	d.w.root.Resize(ui.Rect{X: 0, Y: 0, W: msg.Width, H: msg.Height})
	d.refreshHeader()
	d.rebuildData()
	d.redraw()
	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, d.keys.Quit):
		d.smp.Stop()
		return d, tea.Quit
	case key.Matches(msg, d.keys.Pause):
		d.togglePause()
	case key.Matches(msg, d.keys.Save):
		return d, d.startSave()
	case key.Matches(msg, d.keys.PrevThread):
		d.moveThread(-1)
	case key.Matches(msg, d.keys.NextThread):
		d.moveThread(1)
	case key.Matches(msg, d.keys.FullMode):
		d.toggleFull()
	case key.Matches(msg, d.keys.FlameMode):
		d.toggleGraph()
	case key.Matches(msg, d.keys.ThresholdUp):
		d.nudgeThreshold(model.ThresholdStep)
	case key.Matches(msg, d.keys.ThresholdDown):
		d.nudgeThreshold(-model.ThresholdStep)
	case key.Matches(msg, d.keys.Up):
		d.scrollData(func(v *ui.ScrollView) bool { return v.ScrollUp(1) })
	case key.Matches(msg, d.keys.Down):
		d.scrollData(func(v *ui.ScrollView) bool { return v.ScrollDown(1) })
	case key.Matches(msg, d.keys.PageUp):
		d.scrollData((*ui.ScrollView).PageUp)
	case key.Matches(msg, d.keys.PageDown):
		d.scrollData((*ui.ScrollView).PageDown)
	case key.Matches(msg, d.keys.Home):
		d.scrollData((*ui.ScrollView).Home)
	case key.Matches(msg, d.keys.End):
		d.scrollData((*ui.ScrollView).End)
	}
	return d, nil
}

// handleTick refreshes the header every interval and rebuilds the data view
// only when new samples arrived since the last rebuild. Paused sessions
// keep ticking without recomputing; a stopped session lets the ticker die.
func (d *Dashboard) handleTick() (tea.Model, tea.Cmd) {
	if d.stopped {
		return d, nil
	}
	next := d.tick()
	if d.frozen {
		return d, next
	}
	changed := d.refreshHeader()
	if lu := d.agg.LastUpdate(); lu.After(d.lastData) {
		if d.rebuildData() {
			changed = true
		}
	}
	if changed {
		d.redraw()
	}
	return d, next
}

// ingest routes one raw stream line: metadata into the header, anything
// else into the aggregate. Decode failures are already tallied as the
// error rate, so they are only worth a debug line.
func (d *Dashboard) ingest(line string) {
	if line == "" {
		return
	}
	if sampler.IsMetadata(line) {
		if k, v, ok := sampler.ParseMetadata(line); ok {
			d.setMeta(k, v)
		}
		return
	}
	if err := d.agg.Update(line); err != nil {
		d.log.Debug().Err(err).Msg("dropped sample line")
	}
}

// setMeta records a metadata entry and pushes the ones with a header field
// into their widgets. The pid entry re-targets the process monitor: when
// the sampler spawned the target itself, this is where its pid arrives.
func (d *Dashboard) setMeta(key, value string) {
	if _, seen := d.meta[key]; !seen {
		d.metaKeys = append(d.metaKeys, key)
	}
	d.meta[key] = value

	switch key {
	case "pid":
		if pid, err := strconv.Atoi(value); err == nil && pid > 0 && pid != d.pid {
			d.pid = pid
			d.refreshTarget()
		}
	case "mode":
		label, color := modeText(value)
		d.w.modeVal.SetText(ui.Styled(label, ui.Attr{Color: color}))
	case "python":
		d.w.python.SetText(d.markup(`<hdrbox>PYTHON</hdrbox> ` + ui.EscapeMarkup(value)))
	}
}

// refreshTarget renders the pid and command line of the profiled process.
func (d *Dashboard) refreshTarget() {
	if d.pid <= 0 {
		d.w.target.SetText(d.markup(`<hdrbox>PID</hdrbox> --`))
		return
	}
	cmdline := d.tracker.Cmdline(d.pid)
	execName, args, _ := strings.Cut(cmdline, " ")
	s := fmt.Sprintf(`<hdrbox>PID</hdrbox> <pid><b>%d</b></pid> <exec><b>%s</b></exec> %s`,
		d.pid, ui.EscapeMarkup(execName), ui.EscapeMarkup(args))
	d.w.target.SetText(d.markup(s))
}

// refreshHeader pushes the per-tick session numbers into the header and
// reports whether any of them changed on screen.
func (d *Dashboard) refreshHeader() bool {
	changed := false

	dur := d.activeDuration()
	if d.w.durVal.SetText(d.markup(
		fmt.Sprintf(`<hdrbox>TIME</hdrbox> %s`, fmtTime(dur.Microseconds())))) {
		changed = true
	}

	if !d.stopped {
		cpu := d.tracker.CPU(d.pid)
		mem := d.tracker.Memory(d.pid)
		if d.w.cpuVal.SetText(d.markup(
			fmt.Sprintf(`<hdrbox>CPU</hdrbox><cpu> %3d%% </cpu>`, int(cpu)))) {
			changed = true
		}
		if d.w.memVal.SetText(d.markup(
			fmt.Sprintf(`<hdrbox>MEM</hdrbox><mem> %5dM </mem>`, mem>>20))) {
			changed = true
		}
		d.w.cpuPlot.Push(cpu)
		d.w.memPlot.Push(float64(mem >> 20))
		changed = true
	}

	agg := d.activeAgg()
	if d.w.samplesVal.SetText(d.markup(
		fmt.Sprintf(`<hdrbox>SAMPLES</hdrbox> %d`, agg.SampleCount()))) {
		changed = true
	}
	if d.w.errVal.SetText(d.markup(
		fmt.Sprintf(`<hdrbox>ERR</hdrbox> %.1f%%`, agg.ErrorRate()*100))) {
		changed = true
	}
	return changed
}

// rebuildData recomputes the presentation of the current thread: the
// session line's thread fields plus whichever data view is selected. It
// also advances the rebuild watermark, so tick-driven rebuilds only happen
// when the aggregate moved past it.
func (d *Dashboard) rebuildData() bool {
	agg := d.activeAgg()
	d.lastData = agg.LastUpdate()

	changed := false
	threads := agg.Threads()
	n := threads.Len()
	if d.threadIdx >= n && n > 0 {
		d.threadIdx = n - 1
	}
	if n == 0 {
		if d.w.threadNum.SetText(d.markup(`<hdrbox>THREAD --/--</hdrbox>`)) {
			changed = true
		}
		if d.w.threadName.SetText(d.markup(`<hdrbox>--:--</hdrbox>`)) {
			changed = true
		}
		if d.w.table.SetRows(nil) {
			d.w.tableView.Relayout()
			changed = true
		}
		if d.w.flame.SetRoot(nil) {
			d.w.flameView.Relayout()
			changed = true
		}
		return changed
	}

	tkey := threads.At(d.threadIdx)
	th, ok := agg.Thread(tkey)
	if !ok {
		return changed
	}

	if d.w.threadNum.SetText(d.markup(fmt.Sprintf(
		`<hdrbox>THREAD</hdrbox> <thread>%d</thread><hdrbox>/%d</hdrbox>`, d.threadIdx+1, n))) {
		changed = true
	}
	pid, tid, _ := strings.Cut(tkey, ":")
	if d.w.threadName.SetText(d.markup(fmt.Sprintf(
		`<pid><b>%s</b></pid><hdrbox>:</hdrbox><tid><b>%s</b></tid>`, pid, ui.EscapeMarkup(tid)))) {
		changed = true
	}

	ctx := reportCtx{
		kind:      agg.Kind,
		duration:  d.activeDuration().Seconds(),
		peak:      d.activePeak(),
		threshold: d.threshold,
	}
	if d.graphMode {
		header := ctx.flameHeader(tkey, th.Total)
		if d.w.graphHeader.SetText(ui.Styled(" FLAME GRAPH FOR "+header, ui.Attr{Bold: true})) {
			changed = true
		}
		if d.w.flame.SetRoot(flameTree(th, header)) {
			d.w.flameView.Relayout()
			changed = true
		}
		return changed
	}

	rows := pathRows(th, ctx)
	if d.fullMode {
		rows = fullRows(th, ctx)
	}
	if d.w.table.SetRows(rows) {
		d.w.tableView.Relayout()
		changed = true
	}
	return changed
}

// togglePause freezes the view on a snapshot of the statistics while
// ingestion keeps running underneath, or drops the snapshot and catches the
// view back up. A stopped session has nothing to pause.
func (d *Dashboard) togglePause() {
	if d.stopped {
		return
	}
	if d.frozen {
		d.frozen = false
		d.frozenAgg = nil
		d.frozenSys = sysmon.Frozen{}
		d.w.logo.SetLines(logoLines("running"))
		d.notifyPlain("Resumed")
		d.refreshHeader()
		d.rebuildData()
	} else {
		d.frozen = true
		d.frozenAgg = d.agg.Clone()
		d.frozenSys = d.tracker.Freeze()
		d.w.logo.SetLines(logoLines("paused"))
		d.notifyPlain("Paused")
	}
	d.redraw()
}

// moveThread steps the thread selection, clamped to the registry. Stepping
// past either end changes nothing and repaints nothing.
func (d *Dashboard) moveThread(delta int) {
	n := d.activeAgg().Threads().Len()
	if n == 0 {
		return
	}
	idx := d.threadIdx + delta
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	if idx == d.threadIdx {
		return
	}
	d.threadIdx = idx
	d.rebuildData()
	d.redraw()
}

func (d *Dashboard) toggleFull() {
	if d.graphMode {
		return
	}
	d.fullMode = !d.fullMode
	d.rebuildData()
	d.redraw()
}

// toggleGraph flips between the table and the flame graph. Full mode only
// applies to the table, so its key hint dims while the graph is up.
func (d *Dashboard) toggleGraph() {
	d.graphMode = !d.graphMode
	sel := 0
	if d.graphMode {
		sel = 1
	}
	d.w.dataView.Select(sel)
	d.w.cmdBar.SetText(d.commandBarText())
	d.rebuildData()
	d.redraw()
}

func (d *Dashboard) nudgeThreshold(delta float64) {
	th := d.threshold + delta
	if th < 0 {
		th = 0
	}
	if th > 1 {
		th = 1
	}
	if th == d.threshold {
		return
	}
	d.threshold = th
	d.w.thresholdVal.SetText(d.thresholdText())
	d.rebuildData()
	d.redraw()
}

func (d *Dashboard) thresholdText() ui.Text {
	return d.markup(fmt.Sprintf(`<hdrbox>THRESHOLD</hdrbox> %.0f%%`, d.threshold*100))
}

// scrollData applies a scroll operation to whichever data view is visible
// and repaints only if the viewport actually moved.
func (d *Dashboard) scrollData(op func(*ui.ScrollView) bool) {
	v := d.w.tableView
	if d.graphMode {
		v = d.w.flameView
	}
	if op(v) {
		d.redraw()
	}
}

// applyStop decorates the dashboard for a sampler that is gone: the clock
// stops, the process gauges blank out, pausing is off the table. The data
// stays up for inspection and saving.
func (d *Dashboard) applyStop(err error) {
	if d.stopped {
		return
	}
	d.stopped = true
	d.tracker.Stop()

	d.w.logo.SetLines(logoLines("stopped"))
	d.w.cpuVal.SetText(d.markup(`<hdrbox>CPU</hdrbox><cpu>  --% </cpu>`))
	d.w.memVal.SetText(d.markup(`<hdrbox>MEM</hdrbox><mem>    --M </mem>`))
	d.w.cmdBar.SetText(d.commandBarText())
	if err != nil {
		d.log.Error().Err(err).Msg("sampler exited with error")
		d.notifyError(fmt.Sprintf("Sampler exited: %v", err))
	}

	d.refreshHeader()
	if !d.frozen {
		d.rebuildData()
	}
	d.redraw()
}
