package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/proftop/proftop/internal/model"
	"github.com/proftop/proftop/internal/ui"
)

// fmtTime renders microseconds as M'SS", dropping the minutes below one
// minute. Seconds are rounded, not truncated, so a display refresh never
// sits one second behind the clock.
func fmtTime(us int64) string {
	sec := int(math.Round(float64(us)/1e6)) % 60
	min := us / 60_000_000
	if min > 0 {
		return fmt.Sprintf("%d'%02d\"", min, sec)
	}
	return fmt.Sprintf("%02d\"", sec)
}

// fmtMem renders bytes with a B/K/M unit, shifting by 1024 until the value
// fits. Anything past a gigabyte stays in megabytes.
func fmtMem(b int64) string {
	units := [...]string{"B", "K", "M"}
	i := 0
	for b >= 1024 && i < len(units)-1 {
		b >>= 10
		i++
	}
	return fmt.Sprintf("%6d%s ", b, units[i])
}

// scaleTime converts a microsecond total to a percentage of the session
// duration in seconds, clamped to 100.
func scaleTime(us int64, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return math.Min(float64(us)/1e4/duration, 100)
}

// scaleMemory converts a byte total to a percentage of the session's peak
// resident set. Totals accumulate across samples, so they can dwarf the
// peak; the result clamps to 100.
func scaleMemory(b int64, peak uint64) float64 {
	if peak == 0 {
		return 0
	}
	return math.Min(float64(b)/float64(peak)*100, 100)
}

// heatColor buckets a percentage into the heat ramp. Inactive rows get the
// dimmed variants.
func heatColor(v float64, active bool) string {
	prefix := "iheat"
	if active {
		prefix = "heat"
	}
	for _, stop := range [...]int{20, 40, 60, 80} {
		if v <= float64(stop) {
			return fmt.Sprintf("%s%d", prefix, stop)
		}
	}
	return prefix + "100"
}

// metricCell renders one metric value as a fixed-width table cell: time
// centered in eight cells, memory in its unit format.
func metricCell(kind model.MetricKind, v int64, active bool) ui.Text {
	var s string
	if kind == model.MemoryMetric {
		s = fmtMem(v)
	} else {
		s = center(fmtTime(v), 8)
	}
	at := ui.Attr{}
	if !active {
		at.Color = "inactive"
	}
	return ui.Text{{Str: s, At: at}}
}

// scaleCell renders a percentage cell colored by the heat ramp, clamped to
// 100 so aggregation overshoot never widens the column.
func scaleCell(ratio float64, active bool) ui.Text {
	if ratio > 100 {
		ratio = 100
	}
	s := fmt.Sprintf("%6.1f%% ", ratio)
	return ui.Text{{Str: s, At: ui.Attr{Color: heatColor(ratio, active)}}}
}

func center(s string, w int) string {
	pad := w - len([]rune(s))
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
