package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/spkr/internal/migrations"
)

// RenderStatus formats migration statuses as an aligned list, one line per migration.
func (p *Palette) RenderStatus(statuses []migrations.Status) string {
	if len(statuses) == 0 {
		return p.Help("no migrations declared") + "\n"
	}

	width := 0
	for _, s := range statuses {
		width = max(width, lipgloss.Width(s.Name))
	}
	name := lipgloss.NewStyle().Width(width + 2)

	var b strings.Builder
	pending := 0
	for _, s := range statuses {
		switch {
		case s.Applied && s.Changed:
			fmt.Fprintf(&b, "%s %s%s %s\n", p.Warn("!"), name.Render(s.Name), s.AppliedAt.Local().Format(time.DateTime), p.Warn("(changed since applied)"))
		case s.Applied:
			fmt.Fprintf(&b, "%s %s%s\n", p.OK("✓"), name.Render(s.Name), s.AppliedAt.Local().Format(time.DateTime))
		default:
			pending++
			fmt.Fprintf(&b, "%s %s%s\n", p.Err("·"), name.Render(s.Name), p.Help("pending"))
		}
	}

	fmt.Fprintf(&b, "\n%d applied, %d pending\n", len(statuses)-pending, pending)
	return b.String()
}
