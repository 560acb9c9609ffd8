package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/drjarvisw-bit/usageclaw/provider"
	"github.com/drjarvisw-bit/usageclaw/tui"
	"github.com/drjarvisw-bit/usageclaw/usage"
)

// usageCard is one provider's renderable state: either a result, an error,
// or both (stale data shown alongside the last failure).
type usageCard struct {
	desc       provider.Descriptor
	result     *usage.Result
	err        string
	fetchedAt  time.Time
	refreshing bool
	loading    bool // first fetch still in flight, nothing to show yet
}

const cardWidth = 44

const maxCardModels = 3

// renderCard draws a bordered provider card. Highlighting swaps the border
// to the accent color for the dashboard cursor.
func renderCard(c usageCard, highlighted bool) string {
	borderColor := tui.ColorField
	if highlighted {
		borderColor = tui.ColorCyan
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(cardWidth)

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.desc.Color)).
		Render(c.desc.Icon + " " + c.desc.Name)
	var status string
	switch {
	case c.loading:
		status = lipgloss.NewStyle().Foreground(tui.ColorField).Render("loading…")
	case c.refreshing:
		status = lipgloss.NewStyle().Foreground(tui.ColorField).Render("refreshing…")
	case !c.fetchedAt.IsZero():
		status = lipgloss.NewStyle().Foreground(tui.ColorField).Render(c.fetchedAt.Format("15:04"))
	}

	gap := cardWidth - 2 - lipgloss.Width(title) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	lines := []string{title + strings.Repeat(" ", gap) + status}

	if c.err != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(tui.ColorError).Width(cardWidth-2).Render(c.err))
	}
	if c.result != nil {
		lines = append(lines, renderCardBody(c.result)...)
	} else if c.err == "" && !c.loading {
		lines = append(lines, lipgloss.NewStyle().Foreground(tui.ColorField).Render("no data yet"))
	}

	return box.Render(strings.Join(lines, "\n"))
}

func renderCardBody(r *usage.Result) []string {
	labelStyle := lipgloss.NewStyle().Foreground(tui.ColorField)
	valueStyle := lipgloss.NewStyle().Foreground(tui.ColorCyan).Bold(true)

	spend := valueStyle.Render(fmt.Sprintf("$%.2f", r.TotalSpend))
	if r.Limit != nil {
		spend += labelStyle.Render(fmt.Sprintf(" / $%.0f", *r.Limit))
	}
	lines := []string{labelStyle.Render("spend ") + spend}

	if r.Requests > 0 || r.InputTokens > 0 || r.OutputTokens > 0 {
		lines = append(lines, labelStyle.Render("reqs  ")+
			fmt.Sprintf("%s  %s↑ %s↓",
				formatCount(r.Requests), formatCount(r.InputTokens), formatCount(r.OutputTokens)))
	}

	for i, m := range r.Models {
		if i == maxCardModels {
			lines = append(lines, labelStyle.Render(fmt.Sprintf("      +%d more", len(r.Models)-maxCardModels)))
			break
		}
		lines = append(lines, fmt.Sprintf("      %-20s %s",
			truncate(m.Name, 20), labelStyle.Render(fmt.Sprintf("$%.2f", m.Cost))))
	}

	if r.Note != "" {
		lines = append(lines, labelStyle.Width(cardWidth-2).Render(truncate(r.Note, 2*(cardWidth-2))))
	}
	return lines
}

// formatCount renders large counts with k/M suffixes to keep card rows narrow.
func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return s[:n-1] + "…"
}
