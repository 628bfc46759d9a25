// ABOUTME: Role-based navigation shell rendered as the TUI header bar
// ABOUTME: One variant per role plus anonymous and loading

package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

// LogoutRoute is a pseudo-route the router handles by ending the session
const LogoutRoute = "/logout"

// Variant selects which navigation the header shows
type Variant int

const (
	VariantLoading Variant = iota
	VariantAnonymous
	VariantCustomer
	VariantSeller
	VariantAdmin
)

func (v Variant) String() string {
	switch v {
	case VariantAnonymous:
		return "anonymous"
	case VariantCustomer:
		return "customer"
	case VariantSeller:
		return "seller"
	case VariantAdmin:
		return "admin"
	default:
		return "loading"
	}
}

// VariantFor picks the header for a session. Unknown roles get the
// anonymous header.
func VariantFor(s session.Snapshot) Variant {
	if s.Status != session.StatusReady {
		return VariantLoading
	}
	if !s.Authenticated() {
		return VariantAnonymous
	}
	switch s.Role() {
	case models.RoleCustomer:
		return VariantCustomer
	case models.RoleSeller:
		return VariantSeller
	case models.RoleAdmin:
		return VariantAdmin
	default:
		return VariantAnonymous
	}
}

// Link is one header navigation entry
type Link struct {
	Label string
	Route string
}

var links = map[Variant][]Link{
	VariantAnonymous: {
		{"Home", "/"},
		{"Login", "/login"},
		{"Register", "/register"},
	},
	VariantCustomer: {
		{"Home", "/"},
		{"Cart", "/cart"},
		{"Wishlist", "/wishlist"},
		{"Orders", "/orders"},
		{"Profile", "/profile"},
		{"Logout", LogoutRoute},
	},
	VariantSeller: {
		{"Dashboard", "/seller/dashboard"},
		{"My Products", "/seller/products"},
		{"Add Product", "/seller/product/add"},
		{"Profile", "/profile"},
		{"Logout", LogoutRoute},
	},
	VariantAdmin: {
		{"Home", "/"},
		{"Dashboard", "/admin/dashboard"},
		{"Users", "/admin/users"},
		{"Products", "/admin/products"},
		{"Orders", "/admin/orders"},
		{"Categories", "/admin/categories"},
		{"Profile", "/profile"},
		{"Logout", LogoutRoute},
	},
}

// Links returns the navigation entries for v, in display order. Entry i is
// selected with digit key i+1.
func Links(v Variant) []Link {
	return links[v]
}

// LinkForKey resolves a digit key press to a link
func LinkForKey(v Variant, key string) (Link, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return Link{}, false
	}
	i := int(key[0] - '1')
	ls := Links(v)
	if i >= len(ls) {
		return Link{}, false
	}
	return ls[i], true
}

// View renders the header bar at width. The link matching active is
// highlighted; the right side shows who is signed in.
func View(s session.Snapshot, active string, width int) string {
	v := VariantFor(s)
	border := lipgloss.NewStyle().Foreground(styles.Muted)
	brand := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("Storefront")

	left := fmt.Sprintf(" %s %s ", icons.App.String(), brand)
	if v == VariantLoading {
		left += styles.Subtitle.Render("restoring session…")
	} else {
		parts := make([]string, 0, len(Links(v)))
		for i, l := range Links(v) {
			label := styles.NavLink.Render(l.Label)
			if l.Route == active {
				label = styles.NavActive.Render(l.Label)
			}
			parts = append(parts, styles.KeyStyle.Render(fmt.Sprint(i+1))+" "+label)
		}
		left += strings.Join(parts, "  ")
	}

	right := ""
	if s.Authenticated() {
		right = " " + lipgloss.NewStyle().Foreground(styles.Secondary).Render(s.Identity.Name+" · "+s.Role().Label()) + " "
	}

	fill := width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if fill < 0 {
		// drop the identity before the links
		right = ""
		fill = width - 4 - lipgloss.Width(left)
	}
	if fill < 0 {
		left = ansi.Truncate(left, width-4, "…")
		fill = 0
	}
	return border.Render("╭─") + left + border.Render(strings.Repeat("─", fill)) + right + border.Render("─╮")
}
