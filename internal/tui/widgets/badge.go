// ABOUTME: Inline badges for order status, roles, and stock levels
// ABOUTME: Colors follow the severity of the thing being labelled

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/storefront-cli/internal/models"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
)

// Badge renders a colored inline label
func Badge(text string, level StatusLevel) string {
	bg, fg := BadgeNeutralBg, lipgloss.Color("#FFFFFF")
	switch level {
	case StatusOK:
		bg = BadgeOKBg
	case StatusWarning:
		bg, fg = BadgeWarnBg, lipgloss.Color("#000000")
	case StatusCritical:
		bg = BadgeCritBg
	case StatusInfo:
		bg = BadgeInfoBg
	}

	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// OrderLevel maps an order status onto a badge level
func OrderLevel(s models.OrderStatus) StatusLevel {
	switch s {
	case models.OrderDelivered:
		return StatusOK
	case models.OrderPlaced, models.OrderPending:
		return StatusWarning
	case models.OrderCancelled:
		return StatusCritical
	case models.OrderConfirmed, models.OrderShipped:
		return StatusInfo
	default:
		return StatusNeutral
	}
}

// OrderBadge renders an order status
func OrderBadge(s models.OrderStatus) string {
	return Badge(s.Label(), OrderLevel(s))
}

// RoleBadge renders a user's role
func RoleBadge(r models.Role) string {
	switch r {
	case models.RoleAdmin:
		return Badge(r.Label(), StatusCritical)
	case models.RoleSeller:
		return Badge(r.Label(), StatusInfo)
	case models.RoleCustomer:
		return Badge(r.Label(), StatusOK)
	default:
		return Badge(r.Label(), StatusNeutral)
	}
}

// StockLevel flags empty and low stock against threshold
func StockLevel(stock, threshold int) StatusLevel {
	switch {
	case stock <= 0:
		return StatusCritical
	case stock <= threshold:
		return StatusWarning
	default:
		return StatusOK
	}
}

// StockText describes a stock count in words
func StockText(stock, threshold int) string {
	switch StockLevel(stock, threshold) {
	case StatusCritical:
		return "Out of stock"
	case StatusWarning:
		return fmt.Sprintf("Only %d left", stock)
	default:
		return fmt.Sprintf("%d in stock", stock)
	}
}
