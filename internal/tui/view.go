package tui

import "github.com/proftop/proftop/internal/ui"

// widgets is the dashboard's widget tree with a typed handle on every node
// the orchestrator writes to. The tree itself decides all geometry; the
// handles only ever receive content.
type widgets struct {
	root *ui.Box

	logo   *ui.Label
	target *ui.Label // pid and command line of the profiled process
	python *ui.Label

	cpuVal  *ui.Label
	cpuPlot *ui.Plot
	durVal  *ui.Label
	memVal  *ui.Label
	memPlot *ui.Plot
	errVal  *ui.Label

	samplesVal   *ui.Label
	thresholdVal *ui.Label
	threadNum    *ui.Label
	threadName   *ui.Label
	modeVal      *ui.Label

	tableHeader *ui.Label
	graphHeader *ui.Label

	table     *ui.Table
	tableView *ui.ScrollView
	flame     *ui.FlameGraph
	flameView *ui.ScrollView
	dataView  *ui.Selector

	notify *ui.Label
	cmdBar *ui.Label
}

func buildWidgets() *widgets {
	w := &widgets{
		logo:   ui.NewLabel("logo", 9, 3, ui.AlignLeft),
		target: ui.NewLabel("target", 0, 1, ui.AlignLeft),
		python: ui.NewLabel("python", 16, 1, ui.AlignRight),

		cpuVal:  ui.NewLabel("cpu", 9, 1, ui.AlignLeft),
		cpuPlot: ui.NewPlot("cpu-plot", 0, 1, "cpu"),
		durVal:  ui.NewLabel("duration", 12, 1, ui.AlignRight),
		memVal:  ui.NewLabel("mem", 12, 1, ui.AlignLeft),
		memPlot: ui.NewPlot("mem-plot", 0, 1, "mem"),
		errVal:  ui.NewLabel("error-rate", 10, 1, ui.AlignRight),

		samplesVal:   ui.NewLabel("samples", 18, 1, ui.AlignLeft),
		thresholdVal: ui.NewLabel("threshold", 16, 1, ui.AlignLeft),
		threadNum:    ui.NewLabel("thread-num", 15, 1, ui.AlignLeft),
		threadName:   ui.NewLabel("thread-name", 0, 1, ui.AlignLeft),
		modeVal:      ui.NewLabel("profile-mode", 20, 1, ui.AlignRight),

		tableHeader: ui.NewLabel("table-header", 0, 1, ui.AlignLeft),
		graphHeader: ui.NewLabel("graph-header", 0, 1, ui.AlignLeft),

		table: ui.NewTable("stats-table"),
		flame: ui.NewFlameGraph("flame-graph"),

		notify: ui.NewLabel("notification", 0, 1, ui.AlignLeft),
		cmdBar: ui.NewLabel("command-bar", 0, 1, ui.AlignLeft),
	}

	w.tableView = ui.NewScrollView("stats-view", w.table)
	w.flameView = ui.NewScrollView("flame-view", w.flame)
	w.dataView = ui.NewSelector("data-view",
		w.tableView,
		ui.NewVBox("flame-pane", w.graphHeader, w.flameView),
	)

	w.tableHeader.SetFill(ui.Attr{Reverse: true})
	w.tableHeader.SetText(ui.Styled(tableHeaderText(), ui.Attr{Reverse: true}))

	w.root = ui.NewVBox("root",
		ui.NewHBox("header",
			w.logo,
			ui.NewVBox("header-fields",
				ui.NewHBox("header-target", w.target, w.python),
				ui.NewHBox("header-cpu", w.cpuVal, w.cpuPlot, w.durVal),
				ui.NewHBox("header-mem", w.memVal, w.memPlot, w.errVal),
			),
		),
		ui.NewHBox("session-line",
			w.samplesVal, w.thresholdVal, w.threadNum, w.threadName, w.modeVal,
		),
		w.tableHeader,
		w.dataView,
		w.notify,
		w.cmdBar,
	)
	return w
}

func tableHeaderText() string {
	return center("OWN", 8) + center("TOTAL", 8) + center("%OWN", 8) + center("%TOTAL", 8) + " FUNCTION"
}

// logoLines is the program badge in the top left corner; its color tracks
// the run state.
func logoLines(state string) []ui.Text {
	at := ui.Attr{Color: state, Bold: true}
	return []ui.Text{
		{{Str: "▄▄▄▄▄▄▄▄▄", At: at}},
		{{Str: " proftop ", At: ui.Attr{Color: state, Bold: true, Reverse: true}}},
		{{Str: "▀▀▀▀▀▀▀▀▀", At: at}},
	}
}

// modeText maps sampler mode metadata to the header label and its color.
func modeText(mode string) (string, string) {
	switch mode {
	case "cpu":
		return " CPU Time Profile", "mode_cpu"
	case "memory":
		return " Memory Profile", "mode_memory"
	default:
		return " Wall Time Profile", "mode_wall"
	}
}

// commandBarText lays out the key hints, reverse-video key next to its
// label, with bindings that cannot fire right now dimmed out.
func (d *Dashboard) commandBarText() ui.Text {
	hints := []struct {
		key      string
		label    string
		disabled bool
	}{
		{d.keys.Quit.Help().Key, d.keys.Quit.Help().Desc, false},
		{d.keys.Pause.Help().Key, d.keys.Pause.Help().Desc, d.stopped},
		{d.keys.PrevThread.Help().Key, d.keys.PrevThread.Help().Desc, false},
		{d.keys.NextThread.Help().Key, d.keys.NextThread.Help().Desc, false},
		{d.keys.FullMode.Help().Key, d.keys.FullMode.Help().Desc, d.graphMode},
		{d.keys.FlameMode.Help().Key, d.keys.FlameMode.Help().Desc, false},
		{d.keys.Save.Help().Key, d.keys.Save.Help().Desc, false},
		{d.keys.ThresholdUp.Help().Key, "threshold", false},
	}

	var t ui.Text
	for _, h := range hints {
		keyAt := ui.Attr{Reverse: true}
		labelAt := ui.Attr{Color: "keylabel"}
		if h.disabled {
			keyAt = ui.Attr{Color: "disabled"}
			labelAt = ui.Attr{Color: "disabled"}
		}
		t = append(t,
			ui.Chunk{Str: " " + h.key + " ", At: keyAt},
			ui.Chunk{Str: " " + h.label + "  ", At: labelAt},
		)
	}
	return t
}

// redraw runs the single draw pass of a refresh and caches the rendered
// frame for View.
func (d *Dashboard) redraw() {
	if d.width <= 0 {
		return
	}
	d.w.root.Draw()
	d.frame = d.screen.Render(d.palette)
}

// View returns the cached frame; it is recomputed only when a message
// actually changed something on screen.
func (d *Dashboard) View() string {
	if d.width <= 0 {
		return "Initializing dashboard..."
	}
	return d.frame
}
