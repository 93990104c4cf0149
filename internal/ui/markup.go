package ui

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMarkup marks malformed markup or references to unknown palette entries.
var ErrMarkup = errors.New("bad markup")

// Chunk is a run of text drawn with one attribute.
type Chunk struct {
	Str string
	At  Attr
}

// Text is styled text as a sequence of chunks. Widgets take Text rather
// than strings so callers control attributes without re-parsing markup on
// every refresh.
type Text []Chunk

// Plain wraps a string as unstyled Text.
func Plain(s string) Text { return Text{{Str: s}} }

// Styled wraps a string as Text with one attribute.
func Styled(s string, at Attr) Text { return Text{{Str: s, At: at}} }

// Len returns the number of cells the text occupies.
func (t Text) Len() int {
	n := 0
	for _, c := range t {
		n += len([]rune(c.Str))
	}
	return n
}

// String returns the text with attributes dropped.
func (t Text) String() string {
	var b strings.Builder
	for _, c := range t {
		b.WriteString(c.Str)
	}
	return b.String()
}

// Equal reports chunk-wise equality.
func (t Text) Equal(o Text) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// Write paints the text at y,x clipping after max cells (max < 0 means no
// limit beyond the grid edge) and returns the cells written.
func (t Text) Write(g *Grid, y, x, max int) int {
	written := 0
	for _, c := range t {
		s := c.Str
		if max >= 0 {
			left := max - written
			if left <= 0 {
				break
			}
			if r := []rune(s); len(r) > left {
				s = string(r[:left])
			}
		}
		written += g.WriteString(y, x+written, s, c.At)
	}
	return written
}

// ParseMarkup turns a markup string into Text. Supported tags: <b> bold,
// <r> reverse video, and any palette entry name as a color tag. Tags nest;
// inner color tags override outer ones while keeping bold/reverse. Unknown
// tags and malformed syntax are errors: markup is written by the program,
// so a bad string is a defect to surface, not tolerate.
func ParseMarkup(s string, p *Palette) (Text, error) {
	dec := xml.NewDecoder(strings.NewReader("<m>" + s + "</m>"))
	stack := []Attr{{}}
	var out Text
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMarkup, s, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			cur := stack[len(stack)-1]
			switch name := t.Name.Local; name {
			case "m":
			case "b":
				cur.Bold = true
			case "r":
				cur.Reverse = true
			default:
				if !p.Has(name) {
					return nil, fmt.Errorf("%w: unknown tag <%s> in %q", ErrMarkup, name, s)
				}
				cur.Color = name
			}
			stack = append(stack, cur)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(t) > 0 {
				out = append(out, Chunk{Str: string(t), At: stack[len(stack)-1]})
			}
		}
	}
	return out, nil
}

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeMarkup makes dynamic content safe for embedding in markup.
func EscapeMarkup(s string) string { return markupEscaper.Replace(s) }
