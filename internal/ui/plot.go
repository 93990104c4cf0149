package ui

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// Plot is a fixed-size history strip: one bar per pushed value, newest at
// the right. The chart itself comes from ntcharts; the plot renders it
// unstyled and paints the runes into the grid with its own color, so it
// composes with the cell renderer like every other widget.
type Plot struct {
	widget
	color string
	vals  []float64
}

// NewPlot returns a plot requesting w by h cells.
func NewPlot(name string, w, h int, color string) *Plot {
	return &Plot{widget: widget{name: name, req: Size{W: w, H: h}}, color: color}
}

// Push appends a sample to the history, keeping one value per cell of
// width. It always dirties the plot.
func (p *Plot) Push(v float64) bool {
	if v < 0 {
		v = 0
	}
	p.vals = append(p.vals, v)
	width := p.rect.W
	if width <= 0 {
		width = p.req.W
	}
	if width > 0 && len(p.vals) > width {
		p.vals = p.vals[len(p.vals)-width:]
	}
	return true
}

// Resize clamps the offered rect to the plot's fixed request, memoizes it,
// and trims history to the resulting width.
func (p *Plot) Resize(r Rect) bool {
	w := r.W
	if p.req.W > 0 && p.req.W < w {
		w = p.req.W
	}
	h := r.H
	if p.req.H > 0 && p.req.H < h {
		h = p.req.H
	}
	if !p.setRect(Rect{X: r.X, Y: r.Y, W: w, H: h}) {
		return false
	}
	if w > 0 && len(p.vals) > w {
		p.vals = p.vals[len(p.vals)-w:]
	}
	return true
}

// Draw renders the bar strip into the grid.
func (p *Plot) Draw() bool {
	g := p.buffer()
	if g == nil || p.rect.W <= 0 || p.rect.H <= 0 {
		return false
	}
	g.ClearRect(p.rect)
	if len(p.vals) == 0 {
		return true
	}

	bc := barchart.New(p.rect.W, p.rect.H,
		barchart.WithBarGap(0),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)
	plain := lipgloss.NewStyle()
	pad := p.rect.W - len(p.vals)
	for i := 0; i < pad; i++ {
		bc.Push(barchart.BarData{Values: []barchart.BarValue{{Name: "pad", Value: 0, Style: plain}}})
	}
	for _, v := range p.vals {
		bc.Push(barchart.BarData{Values: []barchart.BarValue{{Name: "v", Value: v, Style: plain}}})
	}
	bc.Draw()

	at := Attr{Color: p.color}
	for i, line := range strings.Split(bc.View(), "\n") {
		if i >= p.rect.H {
			break
		}
		g.WriteString(p.rect.Y+i, p.rect.X, line, at)
	}
	return true
}
