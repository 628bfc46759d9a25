// ABOUTME: Route table mapping paths to screens and their access rules
// ABOUTME: Patterns match segment by segment; ":name" segments become params

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/guard"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/tui/account"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/manage"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/shop"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

// Route binds a path pattern to a screen. A nil Rule is public.
type Route struct {
	Pattern string
	Rule    *guard.Rule
	New     func(screen.Env) screen.Screen
}

var (
	customerOnly = guard.Require(models.RoleCustomer)
	sellerOnly   = guard.Require(models.RoleSeller)
	adminOnly    = guard.Require(models.RoleAdmin)
	signedIn     = guard.Require(models.RoleCustomer, models.RoleSeller, models.RoleAdmin)
)

// DefaultRoutes is the storefront's route table
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/", New: shop.NewHome},
		{Pattern: "/login", New: account.NewLogin},
		{Pattern: "/register", New: account.NewRegister},
		{Pattern: "/product/:id", New: shop.NewProduct},

		{Pattern: "/cart", Rule: customerOnly, New: shop.NewCart},
		{Pattern: "/wishlist", Rule: customerOnly, New: shop.NewWishlist},
		{Pattern: "/orders", Rule: customerOnly, New: shop.NewOrders},

		{Pattern: "/seller/dashboard", Rule: sellerOnly, New: manage.NewSellerDashboard},
		{Pattern: "/seller/products", Rule: sellerOnly, New: manage.NewSellerProducts},
		{Pattern: "/seller/product/add", Rule: sellerOnly, New: manage.NewEditor},
		{Pattern: "/seller/products/edit/:id", Rule: sellerOnly, New: manage.NewEditor},

		{Pattern: "/admin/dashboard", Rule: adminOnly, New: manage.NewAdminDashboard},
		{Pattern: "/admin/users", Rule: adminOnly, New: manage.NewUsers},
		{Pattern: "/admin/products", Rule: adminOnly, New: manage.NewAdminProducts},
		{Pattern: "/admin/orders", Rule: adminOnly, New: manage.NewOrders},
		{Pattern: "/admin/product/add", Rule: adminOnly, New: manage.NewEditor},
		{Pattern: "/admin/categories", Rule: adminOnly, New: manage.NewCategories},
		{Pattern: "/admin/products/edit/:id", Rule: adminOnly, New: manage.NewEditor},

		{Pattern: "/profile", Rule: signedIn, New: account.NewProfile},
	}
}

// match finds the first route whose pattern fits path
func match(routes []Route, path string) (Route, screen.Params, bool) {
	got := segments(path)
	for _, r := range routes {
		want := segments(r.Pattern)
		if len(want) != len(got) {
			continue
		}
		params := screen.Params{}
		ok := true
		for i, seg := range want {
			switch {
			case strings.HasPrefix(seg, ":"):
				params[seg[1:]] = got[i]
			case seg != got[i]:
				ok = false
			}
			if !ok {
				break
			}
		}
		if ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// homeFor is where a role lands after signing in
func homeFor(role models.Role) string {
	switch role {
	case models.RoleSeller:
		return "/seller/dashboard"
	case models.RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}

var notFoundRoute = Route{Pattern: "*", New: newNotFound}

type notFound struct{ path string }

func newNotFound(env screen.Env) screen.Screen { return notFound{path: env.Path} }

func (n notFound) Init() tea.Cmd { return nil }

func (n notFound) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "esc" || key.String() == "enter") {
		return n, screen.Navigate("/")
	}
	return n, nil
}

func (n notFound) View() string {
	return screen.Heading(icons.Warning, "Page not found") + "\n\n" +
		styles.Subtitle.Render("Nothing lives at "+n.path+".")
}

func (n notFound) Shortcuts() []string { return []string{"Enter Home"} }

func (n notFound) Capturing() bool { return false }
