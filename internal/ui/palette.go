package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette maps names to lipgloss styles. Markup tags and Attr colors refer
// to entries by name so a skin file can restyle the whole dashboard without
// touching any widget.
type Palette struct {
	styles map[string]lipgloss.Style
}

// NewPalette returns the built-in color table.
func NewPalette() *Palette {
	p := &Palette{styles: make(map[string]lipgloss.Style)}

	set := func(name, fg string) {
		p.styles[name] = lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
	}

	// run states
	set("running", "#44FF44")
	set("paused", "#FFAA00")
	set("stopped", "#FF4444")

	// header fields
	set("pid", "#4AA5F0")
	set("tid", "#DDAA00")
	set("thread", "#DDAA00")
	set("hdrbox", "#AAAAAA")
	set("exec", "#44FF44")
	set("cpu", "#FF6666")
	set("mem", "#4AA5F0")
	set("mode_wall", "#44FF44")
	set("mode_cpu", "#FF6666")
	set("mode_memory", "#4AA5F0")
	set("inactive", "#666666")
	set("disabled", "#444444")
	set("notify", "#DDDDDD")
	set("error", "#FF6666")
	set("key", "#44FF44")
	set("keylabel", "#AAAAAA")

	// table cells
	set("filename", "#5FD7FF")
	set("lineno", "#8787AF")
	set("scrollbar", "#5FAFFF")

	// heat ramp with dimmed variants for rows off the active path
	set("heat20", "#87D75F")
	set("heat40", "#D7D75F")
	set("heat60", "#FFD75F")
	set("heat80", "#FF875F")
	set("heat100", "#FF5F5F")
	set("iheat20", "#5F875F")
	set("iheat40", "#87875F")
	set("iheat60", "#AF875F")
	set("iheat80", "#AF5F5F")
	set("iheat100", "#875F5F")

	// flame graph band cycle
	set("flame0", "#FF5F5F")
	set("flame1", "#FF875F")
	set("flame2", "#FFAF5F")
	set("flame3", "#FFD75F")
	set("flame4", "#FFFF5F")
	set("flame5", "#D7FF5F")

	return p
}

// Has reports whether a palette entry exists. Markup parsing checks tag
// names against it.
func (p *Palette) Has(name string) bool {
	_, ok := p.styles[name]
	return ok
}

// Set registers or replaces an entry.
func (p *Palette) Set(name string, st lipgloss.Style) {
	p.styles[name] = st
}

func (p *Palette) style(at Attr) lipgloss.Style {
	st := p.styles[at.Color]
	if at.Bold {
		st = st.Bold(true)
	}
	if at.Reverse {
		st = st.Reverse(true)
	}
	return st
}

type skinEntry struct {
	Fg   string `yaml:"fg"`
	Bg   string `yaml:"bg"`
	Bold bool   `yaml:"bold"`
}

// LoadSkin overlays entries from a YAML skin file onto the palette. An
// unreadable or malformed file is a startup error; an empty path is a no-op.
func (p *Palette) LoadSkin(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading skin: %w", err)
	}
	var entries map[string]skinEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parsing skin %s: %w", path, err)
	}
	for name, e := range entries {
		st := lipgloss.NewStyle()
		if e.Fg != "" {
			st = st.Foreground(lipgloss.Color(e.Fg))
		}
		if e.Bg != "" {
			st = st.Background(lipgloss.Color(e.Bg))
		}
		if e.Bold {
			st = st.Bold(true)
		}
		p.styles[name] = st
	}
	return nil
}
