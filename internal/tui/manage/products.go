// ABOUTME: Product management list shared by sellers and administrators
// ABOUTME: Deleting asks first; products with orders stay listed with an explanation

package manage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/widgets"
)

// productRoutes are where the list sends the user to add or edit
type productRoutes struct {
	add  string
	edit string
}

var (
	sellerRoutes = productRoutes{add: "/seller/product/add", edit: "/seller/products/edit/%d"}
	adminRoutes  = productRoutes{add: "/admin/product/add", edit: "/admin/products/edit/%d"}
)

// Products is the /seller/products and /admin/products screen
type Products struct {
	env     screen.Env
	ctrl    *pages.ProductList
	routes  productRoutes
	title   string
	admin   bool
	table   table.Model
	spinner spinner.Model
	confirm *screen.Confirm
}

// NewSellerProducts lists the signed-in seller's products
func NewSellerProducts(env screen.Env) screen.Screen {
	return newProducts(env, pages.NewSellerProducts(env.API, env.Logger), sellerRoutes, "My Products", false)
}

// NewAdminProducts lists every product
func NewAdminProducts(env screen.Env) screen.Screen {
	return newProducts(env, pages.NewAdminProducts(env.API, env.Logger), adminRoutes, "Manage Products", true)
}

func newProducts(env screen.Env, ctrl *pages.ProductList, routes productRoutes, title string, admin bool) *Products {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Product", Width: 26},
		{Title: "Category", Width: 12},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 12},
	}
	if admin {
		cols = append(cols, table.Column{Title: "Seller", Width: 14})
	}
	return &Products{
		env:     env,
		ctrl:    ctrl,
		routes:  routes,
		title:   title,
		admin:   admin,
		table:   screen.NewTable(cols, env.Height-6),
		spinner: screen.NewSpinner(),
	}
}

func (p *Products) Init() tea.Cmd {
	return tea.Batch(p.spinner.Tick, p.env.Run("load", p.ctrl.Load))
}

func (p *Products) selected() (models.Product, bool) {
	products := p.ctrl.State().Products
	i := p.table.Cursor()
	if i < 0 || i >= len(products) {
		return models.Product{}, false
	}
	return products[i], true
}

func (p *Products) sync() {
	products := p.ctrl.State().Products
	rows := make([]table.Row, 0, len(products))
	for _, prod := range products {
		cat := "—"
		if prod.Category != nil {
			cat = prod.Category.Name
		}
		row := table.Row{
			strconv.FormatInt(prod.ID, 10),
			prod.Name,
			cat,
			screen.Money(prod.Price),
			widgets.StockText(prod.StockQuantity, pages.LowStockThreshold),
		}
		if p.admin {
			seller := "—"
			if prod.Seller != nil {
				seller = prod.Seller.Name
			}
			row = append(row, seller)
		}
		rows = append(rows, row)
	}
	p.table.SetRows(rows)
	if n := len(rows); n > 0 && p.table.Cursor() >= n {
		p.table.SetCursor(n - 1)
	}
}

func (p *Products) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		p.sync()
		return p, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	if p.confirm != nil {
		cmd, done, yes := p.confirm.Update(msg)
		if !done {
			return p, cmd
		}
		id := p.confirm.Target
		p.confirm = nil
		if !yes {
			return p, nil
		}
		return p, p.env.Mutate(p.ctrl, "delete", func(ctx context.Context) error {
			return p.ctrl.Delete(ctx, id)
		})
	}

	if p.ctrl.State().Busy {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return p, p.env.Run("load", p.ctrl.Load)
		case "n":
			return p, screen.Navigate(p.routes.add)
		case "e", "enter":
			if prod, ok := p.selected(); ok {
				return p, screen.Navigate(fmt.Sprintf(p.routes.edit, prod.ID))
			}
			return p, nil
		case "d", "delete":
			if prod, ok := p.selected(); ok {
				p.confirm = screen.NewConfirm("delete", prod.ID,
					fmt.Sprintf("Delete %q?", prod.Name), "This cannot be undone.")
				return p, p.confirm.Init()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p *Products) View() string {
	st := p.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Package, p.title))
	sb.WriteString("\n")
	sb.WriteString(screen.FlashBanner(p.env.Flash))
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, p.spinner, "products"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	if p.confirm != nil {
		sb.WriteString(p.confirm.View())
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, p.spinner))
	if len(st.Products) == 0 {
		sb.WriteString(screen.Empty("No products yet. Press n to add one."))
		return sb.String()
	}
	sb.WriteString(p.table.View())
	return sb.String()
}

func (p *Products) Shortcuts() []string {
	if p.confirm != nil {
		return []string{"y Yes", "n No"}
	}
	return []string{"↑↓ Select", "n New", "e Edit", "d Delete", "r Refresh"}
}

func (p *Products) Capturing() bool { return p.confirm != nil }
