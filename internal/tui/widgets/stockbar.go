// ABOUTME: Stock gauge with a marker at the low-stock threshold
// ABOUTME: Fill color follows the same levels as the stock badge

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StockBarWidth is the default number of cells in a stock bar
const StockBarWidth = 10

var stockEmptyColor = lipgloss.Color("#374151")

// StockBar draws stock against a scale of twice threshold, so the marker
// sits in the middle. Any stock at all fills at least one cell.
func StockBar(stock, threshold, width int) string {
	if width <= 0 {
		width = StockBarWidth
	}
	scale := max(1, 2*threshold)
	filled := min(width, max(0, stock)*width/scale)
	if stock > 0 && filled == 0 {
		filled = 1
	}
	markPos := threshold * width / scale

	var color lipgloss.Color
	switch StockLevel(stock, threshold) {
	case StatusCritical:
		color = BadgeCritBg
	case StatusWarning:
		color = BadgeWarnBg
	default:
		color = BadgeOKBg
	}
	fill := lipgloss.NewStyle().Foreground(color)
	empty := lipgloss.NewStyle().Foreground(stockEmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			bar.WriteString(fill.Render("█"))
		case i == markPos:
			bar.WriteString(empty.Render("│"))
		default:
			bar.WriteString(empty.Render("░"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}
