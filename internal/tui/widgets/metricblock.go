// ABOUTME: Compact stat block widget for the seller and admin dashboards
// ABOUTME: Title sits in the top border, value and caption below

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/markalston/storefront-cli/internal/tui/icons"
)

// StatBlockWidth is the default width of one stat block
const StatBlockWidth = 24

// StatBlock renders a bordered block with a title, a value, and a caption
func StatBlock(icon icons.Icon, title, value, caption string, width int) string {
	if width <= 0 {
		width = StatBlockWidth
	}
	innerWidth := width - 4

	titleStr := ansi.Truncate(icon.String()+" "+title, innerWidth-1, "…")
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	fill := max(0, width-4-lipgloss.Width(titleStr))
	top := "┌─ " + titleStyle.Render(titleStr) + " " + strings.Repeat("─", max(0, fill-1)) + "┐"

	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Bold(true)
	captionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	border := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	return strings.Join([]string{
		border.Render(top),
		border.Render("│ ") + pad(valueStyle.Render(ansi.Truncate(value, innerWidth, "…")), innerWidth) + border.Render(" │"),
		border.Render("│ ") + pad(captionStyle.Render(ansi.Truncate(caption, innerWidth, "…")), innerWidth) + border.Render(" │"),
		border.Render("└" + strings.Repeat("─", width-2) + "┘"),
	}, "\n")
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}

// StatRow lays out blocks side by side, wrapping when they do not fit
func StatRow(totalWidth int, blocks ...string) string {
	if len(blocks) == 0 {
		return ""
	}
	perRow := max(1, totalWidth/(StatBlockWidth+1))
	var rows []string
	for start := 0; start < len(blocks); start += perRow {
		end := min(start+perRow, len(blocks))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, spaced(blocks[start:end])...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func spaced(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}
