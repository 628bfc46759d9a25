// ABOUTME: Seller and administrator dashboards rendered as rows of stat blocks

package manage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/tui/widgets"
)

// SellerDashboard is the /seller/dashboard screen
type SellerDashboard struct {
	env     screen.Env
	ctrl    *pages.SellerDashboard
	spinner spinner.Model
}

// NewSellerDashboard creates the seller overview
func NewSellerDashboard(env screen.Env) screen.Screen {
	return &SellerDashboard{
		env:     env,
		ctrl:    pages.NewSellerDashboard(env.API, env.Logger),
		spinner: screen.NewSpinner(),
	}
}

func (d *SellerDashboard) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.env.Run("load", d.ctrl.Load))
}

func (d *SellerDashboard) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return d, d.env.Run("load", d.ctrl.Load)
		case "p":
			return d, screen.Navigate("/seller/products")
		case "n":
			return d, screen.Navigate("/seller/product/add")
		}
	}
	return d, nil
}

func (d *SellerDashboard) View() string {
	st := d.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.App, "Seller Dashboard"))
	sb.WriteString("\n")
	sb.WriteString(screen.FlashBanner(d.env.Flash))
	if body, ok := screen.Placeholder(st.Status, d.spinner, "dashboard"); !ok {
		sb.WriteString(body)
		return sb.String()
	}

	w := widgets.StatBlockWidth
	sb.WriteString(widgets.StatRow(d.env.Width,
		widgets.StatBlock(icons.Package, "Products", strconv.Itoa(st.TotalProducts), "listed", w),
		widgets.StatBlock(icons.Warning, "Low stock", strconv.Itoa(len(st.LowStock)),
			fmt.Sprintf("%d units or fewer", pages.LowStockThreshold), w),
		widgets.StatBlock(icons.Money, "Inventory value", screen.Money(st.InventoryValue), "price × stock", w),
	))
	sb.WriteString("\n\n")

	if len(st.LowStock) > 0 {
		sb.WriteString(styles.Subtitle.Render("Low stock") + "\n")
		for _, p := range st.LowStock {
			sb.WriteString(productLine(p))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(styles.Subtitle.Render("Recently added") + "\n")
	if len(st.Recent) == 0 {
		sb.WriteString(screen.Empty("No products yet. Press n to add one."))
	}
	for _, p := range st.Recent {
		sb.WriteString(productLine(p))
	}
	return sb.String()
}

func productLine(p models.Product) string {
	level := widgets.StockLevel(p.StockQuantity, pages.LowStockThreshold)
	return fmt.Sprintf("  #%-4d %-28s %10s  %s %s\n",
		p.ID, p.Name, screen.Money(p.Price),
		widgets.StockBar(p.StockQuantity, pages.LowStockThreshold, 0),
		widgets.Badge(widgets.StockText(p.StockQuantity, pages.LowStockThreshold), level))
}

func (d *SellerDashboard) Shortcuts() []string {
	return []string{"p Products", "n Add product", "r Refresh"}
}

func (d *SellerDashboard) Capturing() bool { return false }

// AdminDashboard is the /admin/dashboard screen
type AdminDashboard struct {
	env     screen.Env
	ctrl    *pages.AdminDashboard
	spinner spinner.Model
}

// NewAdminDashboard creates the platform overview
func NewAdminDashboard(env screen.Env) screen.Screen {
	return &AdminDashboard{
		env:     env,
		ctrl:    pages.NewAdminDashboard(env.API, env.Logger),
		spinner: screen.NewSpinner(),
	}
}

func (d *AdminDashboard) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.env.Run("load", d.ctrl.Load))
}

func (d *AdminDashboard) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case tea.KeyMsg:
		if msg.String() == "r" {
			return d, d.env.Run("load", d.ctrl.Load)
		}
	}
	return d, nil
}

func (d *AdminDashboard) View() string {
	st := d.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.App, "Admin Dashboard"))
	sb.WriteString("\n")
	sb.WriteString(screen.FlashBanner(d.env.Flash))
	if body, ok := screen.Placeholder(st.Status, d.spinner, "dashboard"); !ok {
		sb.WriteString(body)
		return sb.String()
	}

	s := st.Stats
	w := widgets.StatBlockWidth
	sb.WriteString(widgets.StatRow(d.env.Width,
		widgets.StatBlock(icons.Users, "Customers", strconv.Itoa(s.TotalCustomers), "registered", w),
		widgets.StatBlock(icons.User, "Sellers", strconv.Itoa(s.TotalSellers), "registered", w),
		widgets.StatBlock(icons.Package, "Products", strconv.Itoa(s.TotalProducts), "in catalog", w),
	))
	sb.WriteString("\n")
	awaiting := "nothing pending"
	if s.AwaitingAction > 0 {
		awaiting = fmt.Sprintf("%d awaiting action", s.AwaitingAction)
	}
	sb.WriteString(widgets.StatRow(d.env.Width,
		widgets.StatBlock(icons.Truck, "Orders", strconv.Itoa(s.TotalOrders), awaiting, w),
		widgets.StatBlock(icons.Money, "Revenue", screen.Money(s.Revenue), "excl. cancelled", w),
	))
	if len(s.RecentTotals) > 0 {
		totals := make([]float64, len(s.RecentTotals))
		for i, t := range s.RecentTotals {
			totals[i] = t.InexactFloat64()
		}
		sb.WriteString("\n\n" + styles.Subtitle.Render("Recent order totals ") +
			widgets.Sparkline(totals, pages.TrendLength, styles.Secondary))
	}
	return sb.String()
}

func (d *AdminDashboard) Shortcuts() []string { return []string{"r Refresh"} }

func (d *AdminDashboard) Capturing() bool { return false }
