package ui

// Selector holds several widgets in the same place and shows exactly one.
// The dashboard flips it between the table view and the flame view.
type Selector struct {
	widget
	children []Widget
	sel      int
}

// NewSelector returns a selector showing its first child.
func NewSelector(name string, children ...Widget) *Selector {
	return &Selector{widget: widget{name: name}, children: children}
}

// Children returns all alternatives, selected or not.
func (s *Selector) Children() []Widget { return s.children }

// Attach attaches the selector and every alternative to the canvas.
func (s *Selector) Attach(c Canvas) {
	s.canvas = c
	for _, ch := range s.children {
		ch.Attach(c)
	}
}

// Selected returns the index of the visible child.
func (s *Selector) Selected() int { return s.sel }

// Select switches the visible child and reports whether it changed. The
// newly selected child is laid out into the selector's rect immediately.
func (s *Selector) Select(i int) bool {
	if i == s.sel || i < 0 || i >= len(s.children) {
		return false
	}
	s.sel = i
	s.children[s.sel].Resize(s.rect)
	return true
}

// Resize hands the whole rect to the visible child.
func (s *Selector) Resize(r Rect) bool {
	changed := s.setRect(r)
	if len(s.children) == 0 {
		return changed
	}
	if s.children[s.sel].Resize(r) {
		changed = true
	}
	return changed
}

// Draw paints only the visible child.
func (s *Selector) Draw() bool {
	if len(s.children) == 0 {
		return false
	}
	return s.children[s.sel].Draw()
}
