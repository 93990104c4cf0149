package ui

import "math"

// ScrollView shows a window onto one child drawn on a virtual canvas that
// can be taller than the screen. The rightmost column is the scrollbar; the
// child gets the rest.
type ScrollView struct {
	widget
	child   Widget
	virtual *Grid
	top     int
}

// NewScrollView wraps child in a viewport. The child paints into the view's
// virtual canvas at full content height and the view projects the visible
// window onto the screen.
func NewScrollView(name string, child Widget) *ScrollView {
	return &ScrollView{widget: widget{name: name}, child: child, virtual: NewGrid(0, 0)}
}

// Children returns the wrapped child.
func (s *ScrollView) Children() []Widget { return []Widget{s.child} }

// Buffer exposes the virtual canvas: the scroll view is its child's canvas.
func (s *ScrollView) Buffer() *Grid { return s.virtual }

// Attach attaches the view to the outer canvas and the child to the view.
func (s *ScrollView) Attach(c Canvas) {
	s.canvas = c
	s.child.Attach(s)
}

// Resize assigns the viewport rect and re-derives the virtual canvas from
// the child's current content request. The child is offered exactly its
// requested height; the canvas is at least as tall as the viewport so the
// projected window is always full. Unlike plain widgets Resize never
// memoizes: content growth must reflow even when the viewport rect is
// unchanged, which is also why Relayout is just a Resize in place.
func (s *ScrollView) Resize(r Rect) bool {
	s.rect = r

	innerW := r.W - 1
	if innerW < 0 {
		innerW = 0
	}
	childH := s.child.Request().H
	contentH := childH
	if contentH < r.H {
		contentH = r.H
	}

	sized := false
	if w, h := s.virtual.Size(); w != innerW || h != contentH {
		s.virtual.Resize(innerW, contentH)
		sized = true
	}
	childChanged := s.child.Resize(Rect{X: 0, Y: 0, W: innerW, H: childH})
	clamped := s.clampTop()
	return sized || childChanged || clamped
}

// Relayout recomputes the virtual canvas after the child's content size
// changed, keeping the viewport where it was (clamped to the new content).
func (s *ScrollView) Relayout() bool { return s.Resize(s.rect) }

func (s *ScrollView) maxTop() int {
	_, contentH := s.virtual.Size()
	m := contentH - s.rect.H
	if m < 0 {
		return 0
	}
	return m
}

func (s *ScrollView) clampTop() bool {
	t := s.top
	if t > s.maxTop() {
		t = s.maxTop()
	}
	if t < 0 {
		t = 0
	}
	if t == s.top {
		return false
	}
	s.top = t
	return true
}

func (s *ScrollView) scrollTo(top int) bool {
	old := s.top
	s.top = top
	s.clampTop()
	return s.top != old
}

// Top returns the window origin row in content coordinates.
func (s *ScrollView) Top() int { return s.top }

// ScrollDown moves the window down n rows, clamped to the content.
func (s *ScrollView) ScrollDown(n int) bool { return s.scrollTo(s.top + n) }

// ScrollUp moves the window up n rows, clamped to zero.
func (s *ScrollView) ScrollUp(n int) bool { return s.scrollTo(s.top - n) }

// PageDown moves down one full window.
func (s *ScrollView) PageDown() bool { return s.ScrollDown(s.rect.H) }

// PageUp moves up one full window.
func (s *ScrollView) PageUp() bool { return s.ScrollUp(s.rect.H) }

// Home jumps to the top of the content.
func (s *ScrollView) Home() bool { return s.scrollTo(0) }

// End jumps to the bottom of the content.
func (s *ScrollView) End() bool { return s.scrollTo(s.maxTop()) }

// Draw paints the child onto the virtual canvas, projects the visible
// window onto the screen, and draws the scrollbar.
func (s *ScrollView) Draw() bool {
	g := s.buffer()
	if g == nil || s.rect.W <= 0 || s.rect.H <= 0 {
		return false
	}
	s.virtual.Clear()
	s.child.Draw()

	innerW, _ := s.virtual.Size()
	g.ClearRect(s.rect)
	g.Blit(s.virtual, Rect{X: 0, Y: s.top, W: innerW, H: s.rect.H}, s.rect.Y, s.rect.X)
	s.drawBar(g)
	return true
}

func (s *ScrollView) drawBar(g *Grid) {
	thumb, offset := s.BarMetrics()
	if thumb == 0 {
		return
	}
	x := s.rect.X + s.rect.W - 1
	for y := 0; y < s.rect.H; y++ {
		if y >= offset && y < offset+thumb {
			g.Set(s.rect.Y+y, x, '█', Attr{Color: "scrollbar"})
		} else {
			g.Set(s.rect.Y+y, x, '│', Attr{Color: "inactive"})
		}
	}
}

// BarMetrics returns the scrollbar geometry. The thumb height is
// round(visible²/content) with a minimum of 1 cell, which works out to the
// full window exactly when the content fits (nothing to scroll), and the
// offset is floor(top·visible/content).
func (s *ScrollView) BarMetrics() (thumb, offset int) {
	visible := s.rect.H
	_, content := s.virtual.Size()
	if visible <= 0 || content <= 0 {
		return 0, 0
	}
	thumb = int(math.Round(float64(visible*visible) / float64(content)))
	if thumb < 1 {
		thumb = 1
	}
	if thumb > visible {
		thumb = visible
	}
	return thumb, s.top * visible / content
}
