package shop

import (
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/tui/widgets"
)

func categoryName(c *models.Category) string {
	if c == nil {
		return "—"
	}
	return c.Name
}

func stockLabel(n int) string {
	return widgets.StockText(n, pages.LowStockThreshold)
}

// stockStyled colors the stock text for detail views; table cells stay plain
func stockStyled(n int) string {
	text := stockLabel(n)
	switch widgets.StockLevel(n, pages.LowStockThreshold) {
	case widgets.StatusCritical:
		return styles.StatusCritical.Render(text)
	case widgets.StatusWarning:
		return styles.StatusWarning.Render(text)
	default:
		return styles.StatusOK.Render(text)
	}
}
