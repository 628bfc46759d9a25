// ABOUTME: Rendering helpers shared by screens: banners, placeholders, tables, forms

package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

// Money formats an amount with two decimals
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Banner renders a page banner, or nothing when there is none
func Banner(b pages.Banner) string {
	switch b.Kind {
	case pages.BannerSuccess:
		return styles.BannerSuccess.Render(icons.CheckOK.String()+" "+b.Text) + "\n"
	case pages.BannerError:
		return styles.BannerError.Render(icons.Critical.String()+" "+b.Text) + "\n"
	case pages.BannerInfo:
		return styles.BannerInfo.Render(icons.Info.String()+" "+b.Text) + "\n"
	default:
		return ""
	}
}

// FlashBanner renders a one-shot router message
func FlashBanner(text string) string {
	if text == "" {
		return ""
	}
	return Banner(pages.Banner{Kind: pages.BannerInfo, Text: text})
}

// NewSpinner returns the loading spinner used by every screen
func NewSpinner() spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)
}

// Placeholder renders the loading or load-error state. ok is false when the
// page content must not be shown.
func Placeholder(st pages.Status, sp spinner.Model, what string) (string, bool) {
	switch {
	case st.Loading:
		return sp.View() + " Loading " + what + "...", false
	case st.LoadErr != "":
		return styles.StatusCritical.Render(icons.Critical.String()+" "+st.LoadErr) + "\n" +
			styles.Help.Render(icons.Refresh.String()+" r to retry"), false
	default:
		return "", true
	}
}

// Busy renders a working indicator while a mutation is in flight
func Busy(st pages.Status, sp spinner.Model) string {
	if !st.Busy {
		return ""
	}
	return sp.View() + styles.Subtitle.Render(" Working...") + "\n"
}

// NewTable builds a focused bubbles table in the app palette
func NewTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, height)),
	)
	t.SetStyles(styles.Table())
	return t
}

// Empty renders a muted empty-state line
func Empty(text string) string {
	return styles.Subtitle.Render(text)
}

// Heading renders a page title
func Heading(icon icons.Icon, text string) string {
	return styles.Title.Render(icon.String() + " " + text)
}

// Pairs renders "label: value" lines aligned on the colon
func Pairs(rows ...[2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(styles.Subtitle.Render(r[0] + ":" + strings.Repeat(" ", width-lipgloss.Width(r[0])+1)))
		sb.WriteString(styles.ValueStyle.Render(r[1]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// UpdateForm forwards msg to a huh form and keeps the concrete type
func UpdateForm(f *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	model, cmd := f.Update(msg)
	if next, ok := model.(*huh.Form); ok {
		f = next
	}
	return f, cmd
}

// NewForm builds a huh form in the app theme
func NewForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(Theme()).
		WithShowHelp(true)
}

// Theme returns the huh theme matching the app palette
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().Foreground(styles.Muted).MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().Foreground(styles.Accent).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(styles.Danger).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(styles.Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(styles.Primary).SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().Foreground(styles.Text)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(styles.Primary)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(styles.Surface).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(styles.Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().Foreground(styles.Muted)

	return t
}
