package ui

import "testing"

func TestLabelAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		align Align
		want  string
	}{
		{"left", AlignLeft, "abc       "},
		{"center", AlignCenter, "   abc    "},
		{"right", AlignRight, "       abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(10, 1)
			label := NewLabel("label", 0, 1, tt.align)
			label.Attach(g)
			label.Resize(Rect{X: 0, Y: 0, W: 10, H: 1})
			label.SetString("abc")

			label.Draw()

			if got := g.Row(0); got != tt.want {
				t.Errorf("Row(0) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLabelSetTextReportsChange(t *testing.T) {
	t.Parallel()

	label := NewLabel("label", 0, 1, AlignLeft)

	if !label.SetString("one") {
		t.Error("first SetString() = false, want true")
	}
	if label.SetString("one") {
		t.Error("repeated SetString() = true, want false")
	}
	if !label.SetText(Styled("one", Attr{Bold: true})) {
		t.Error("SetText with new attrs = false, want true")
	}
}

func TestLabelDrawsMultipleLines(t *testing.T) {
	t.Parallel()

	g := NewGrid(5, 3)
	label := NewLabel("label", 0, 2, AlignLeft)
	label.Attach(g)
	label.Resize(Rect{X: 0, Y: 0, W: 5, H: 3})
	label.SetString("a\nb\nc")

	label.Draw()

	if got, want := g.Row(0), "a    "; got != want {
		t.Errorf("Row(0) = %q, want %q", got, want)
	}
	if got, want := g.Row(1), "b    "; got != want {
		t.Errorf("Row(1) = %q, want %q", got, want)
	}
	if got, want := g.Row(2), "     "; got != want {
		t.Errorf("Row(2) = %q, want it left untouched", got)
	}
}

func TestLabelFillPaintsWholeRect(t *testing.T) {
	t.Parallel()

	g := NewGrid(6, 1)
	label := NewLabel("bar", 0, 1, AlignLeft)
	label.Attach(g)
	label.Resize(Rect{X: 0, Y: 0, W: 6, H: 1})
	label.SetFill(Attr{Color: "key", Reverse: true})
	label.SetString("q")

	label.Draw()

	if got := g.Cell(0, 5).At; got != (Attr{Color: "key", Reverse: true}) {
		t.Errorf("blank cell attr = %+v, want the fill attr", got)
	}
	if got := g.Cell(0, 0).Ch; got != 'q' {
		t.Errorf("Cell(0,0).Ch = %q, want %q", got, 'q')
	}
}

func TestLabelClipsLongText(t *testing.T) {
	t.Parallel()

	g := NewGrid(4, 1)
	label := NewLabel("label", 0, 1, AlignLeft)
	label.Attach(g)
	label.Resize(Rect{X: 0, Y: 0, W: 4, H: 1})
	label.SetString("overflowing")

	label.Draw()

	if got, want := g.Row(0), "over"; got != want {
		t.Errorf("Row(0) = %q, want %q", got, want)
	}
}
