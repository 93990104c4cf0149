package ui

import (
	"errors"
	"testing"

	"github.com/proftop/proftop/internal/testutil"
)

func TestParseMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Text
	}{
		{
			name:  "plain",
			input: "hello",
			want:  Text{{Str: "hello"}},
		},
		{
			name:  "color tag",
			input: "<running>ok</running>",
			want:  Text{{Str: "ok", At: Attr{Color: "running"}}},
		},
		{
			name:  "bold and nesting",
			input: "a<b>bold<running>both</running></b>z",
			want: Text{
				{Str: "a"},
				{Str: "bold", At: Attr{Bold: true}},
				{Str: "both", At: Attr{Color: "running", Bold: true}},
				{Str: "z"},
			},
		},
		{
			name:  "reverse video",
			input: "<r>sel</r>",
			want:  Text{{Str: "sel", At: Attr{Reverse: true}}},
		},
		{
			name:  "inner color overrides outer",
			input: "<error><paused>p</paused></error>",
			want:  Text{{Str: "p", At: Attr{Color: "paused"}}},
		},
		{
			name:  "entities decode",
			input: "a &amp; b &lt;c&gt;",
			want:  Text{{Str: "a & b <c>"}},
		},
	}

	p := NewPalette()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarkup(tt.input, p)
			if err != nil {
				t.Fatalf("ParseMarkup(%q) error: %v", tt.input, err)
			}
			if diff := testutil.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMarkup(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseMarkupRejectsBadInput(t *testing.T) {
	t.Parallel()

	p := NewPalette()
	for _, input := range []string{
		"<nosuchcolor>x</nosuchcolor>",
		"<b>unclosed",
		"stray < bracket",
	} {
		if _, err := ParseMarkup(input, p); !errors.Is(err, ErrMarkup) {
			t.Errorf("ParseMarkup(%q) error = %v, want ErrMarkup", input, err)
		}
	}
}

func TestEscapeMarkupRoundTrips(t *testing.T) {
	t.Parallel()

	raw := `<module>&run("x")`
	got, err := ParseMarkup(EscapeMarkup(raw), NewPalette())
	if err != nil {
		t.Fatalf("ParseMarkup(escaped) error: %v", err)
	}
	if diff := testutil.Diff(Text{{Str: raw}}, got); diff != "" {
		t.Errorf("escaped text mismatch (-want +got):\n%s", diff)
	}
}

func TestTextWriteClipsAtMax(t *testing.T) {
	t.Parallel()

	g := NewGrid(20, 1)
	text := Text{
		{Str: "abc", At: Attr{Color: "pid"}},
		{Str: "defg", At: Attr{Bold: true}},
	}

	if got := text.Write(g, 0, 0, 5); got != 5 {
		t.Errorf("Write() = %d cells, want 5", got)
	}
	if got, want := g.Row(0), "abcde               "; got != want {
		t.Errorf("Row(0) = %q, want %q", got, want)
	}
	if got := g.Cell(0, 3).At; got != (Attr{Bold: true}) {
		t.Errorf("Cell(0,3).At = %+v, want bold", got)
	}
}

func TestTextLenAndString(t *testing.T) {
	t.Parallel()

	text := Text{{Str: "ab"}, {Str: "cd", At: Attr{Bold: true}}}
	if got := text.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := text.String(); got != "abcd" {
		t.Errorf("String() = %q, want %q", got, "abcd")
	}
}
