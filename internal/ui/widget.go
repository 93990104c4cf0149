package ui

import (
	"errors"
	"fmt"
)

// ErrNoChild is returned when a named widget lookup finds nothing.
var ErrNoChild = errors.New("child not found")

// Size is a widget's requested extent. Zero on an axis means "expand":
// the containing box hands the widget a share of whatever is left.
type Size struct {
	W, H int
}

// Canvas is where a widget paints. The screen is one; every scroll view is
// another, lending its virtual grid to its child.
type Canvas interface {
	Buffer() *Grid
}

// Widget is a rectangle of the dashboard that knows how to lay itself out
// and paint itself.
//
// Resize assigns the widget's rectangle in canvas coordinates and reports
// whether anything about its geometry changed, so no-op layouts skip
// drawing. Draw paints the widget's current content into its canvas and
// reports whether it painted anything.
type Widget interface {
	Name() string
	Attach(c Canvas)
	Request() Size
	Rect() Rect
	Resize(r Rect) bool
	Draw() bool
}

// Container is implemented by widgets that hold others.
type Container interface {
	Widget
	Children() []Widget
}

// widget carries the bookkeeping every concrete widget embeds.
type widget struct {
	name   string
	canvas Canvas
	rect   Rect
	req    Size
}

func (w *widget) Name() string    { return w.name }
func (w *widget) Attach(c Canvas) { w.canvas = c }
func (w *widget) Request() Size   { return w.req }
func (w *widget) Rect() Rect      { return w.rect }

// setRect memoizes the assigned rectangle: an unchanged rect means no
// geometry work and no redraw from layout alone.
func (w *widget) setRect(r Rect) bool {
	if r == w.rect {
		return false
	}
	w.rect = r
	return true
}

func (w *widget) buffer() *Grid {
	if w.canvas == nil {
		return nil
	}
	return w.canvas.Buffer()
}

// Find walks the widget tree depth-first for a named widget. Views hold
// typed fields for widgets they own; Find exists for the odd dynamic case
// and for tests, and fails loudly instead of returning nil.
func Find(root Widget, name string) (Widget, error) {
	if root.Name() == name {
		return root, nil
	}
	if c, ok := root.(Container); ok {
		for _, ch := range c.Children() {
			if w, err := Find(ch, name); err == nil {
				return w, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoChild, name)
}
