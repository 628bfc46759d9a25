// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, panels, banners, and table styles used across screens

package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Accent    = lipgloss.Color("#8B5CF6") // Lighter purple
	Surface   = lipgloss.Color("#374151")
	Info      = lipgloss.Color("#3B82F6") // Blue

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Price renders money amounts
	Price = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	// Banners sit above page content
	BannerSuccess = lipgloss.NewStyle().
			Foreground(Secondary).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Secondary).
			PaddingLeft(1)

	BannerError = lipgloss.NewStyle().
			Foreground(Danger).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Danger).
			PaddingLeft(1)

	BannerInfo = lipgloss.NewStyle().
			Foreground(Info).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Info).
			PaddingLeft(1)

	// NavActive highlights the current route in the header
	NavActive = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Underline(true)

	NavLink = lipgloss.NewStyle().
		Foreground(Text)
)

// Table returns bubbles table styles in the app palette
func Table() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Muted).
		BorderBottom(true).
		Foreground(Primary).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(Text).
		Background(Primary).
		Bold(false)
	return s
}
