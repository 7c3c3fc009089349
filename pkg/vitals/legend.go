package vitals

import (
	"fmt"
	"strings"
)

// Legend is the human-readable description of every defined column, grouped
// by category. It is built during the definition pass, frozen with the
// registry, and rendered once into cached text. Inactive columns are listed
// too, annotated as unavailable, so the legend is a complete reference on any
// platform.
type Legend struct {
	entries   []legendEntry
	footnotes []string
	frozen    bool
	cached    string
}

type legendEntry struct {
	category    string
	name        string
	description string
	active      bool
}

func newLegend() *Legend {
	return &Legend{}
}

func (l *Legend) addColumn(c *Column) {
	if l.frozen {
		return
	}
	name := c.Name
	if c.Header != "" {
		name = c.Header + " " + name
	}
	l.entries = append(l.entries, legendEntry{
		category:    c.Category,
		name:        name,
		description: c.Description,
		active:      c.active,
	})
}

// AddFootnote appends free-form text after the column listing, for caveats
// that apply platform-wide.
func (l *Legend) AddFootnote(text string) {
	if l.frozen || text == "" {
		return
	}
	l.footnotes = append(l.footnotes, text)
}

func (l *Legend) freeze() {
	l.frozen = true
}

// Render returns the legend text. The result is cached once the legend is
// frozen.
func (l *Legend) Render() string {
	if l.frozen && l.cached != "" {
		return l.cached
	}
	var b strings.Builder
	nameWidth := 0
	for _, e := range l.entries {
		if len(e.name) > nameWidth {
			nameWidth = len(e.name)
		}
	}
	lastCategory := ""
	for _, e := range l.entries {
		if e.category != lastCategory {
			fmt.Fprintf(&b, "--%s--\n", e.category)
			lastCategory = e.category
		}
		note := ""
		if !e.active {
			note = " [not available on this platform]"
		}
		fmt.Fprintf(&b, "  %*s: %s%s\n", nameWidth, e.name, e.description, note)
	}
	for _, f := range l.footnotes {
		fmt.Fprintf(&b, "%s\n", f)
	}
	out := b.String()
	if l.frozen {
		l.cached = out
	}
	return out
}
