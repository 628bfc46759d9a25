// ABOUTME: Administrator order management: filter by status and move orders along

package manage

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/tui/widgets"
)

var statusFilters = []models.OrderStatus{
	"", models.OrderPlaced, models.OrderPending, models.OrderConfirmed,
	models.OrderShipped, models.OrderDelivered, models.OrderCancelled,
}

// Orders is the /admin/orders screen
type Orders struct {
	env     screen.Env
	ctrl    *pages.AdminOrders
	table   table.Model
	spinner spinner.Model
	filter  int

	picker *huh.Form
	target int64
	status models.OrderStatus
}

// NewOrders creates the admin order screen
func NewOrders(env screen.Env) screen.Screen {
	return &Orders{
		env:  env,
		ctrl: pages.NewAdminOrders(env.API, env.Logger),
		table: screen.NewTable([]table.Column{
			{Title: "Order", Width: 7},
			{Title: "Customer", Width: 20},
			{Title: "Placed", Width: 17},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 11},
			{Title: "Status", Width: 10},
		}, (env.Height-8)/2),
		spinner: screen.NewSpinner(),
	}
}

func (o *Orders) Init() tea.Cmd {
	return tea.Batch(o.spinner.Tick, o.env.Run("load", o.ctrl.Load))
}

func (o *Orders) selected() (models.Order, bool) {
	orders := o.ctrl.State().Visible()
	i := o.table.Cursor()
	if i < 0 || i >= len(orders) {
		return models.Order{}, false
	}
	return orders[i], true
}

func (o *Orders) sync() {
	orders := o.ctrl.State().Visible()
	rows := make([]table.Row, 0, len(orders))
	for _, ord := range orders {
		customer := "—"
		if ord.Customer != nil {
			customer = ord.Customer.Name
		}
		placed := ""
		if !ord.CreatedAt.IsZero() {
			placed = ord.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("#%d", ord.ID),
			customer,
			placed,
			fmt.Sprintf("%d", len(ord.Items)),
			screen.Money(ord.TotalAmount),
			ord.Status.Label(),
		})
	}
	o.table.SetRows(rows)
	if n := len(rows); n > 0 && o.table.Cursor() >= n {
		o.table.SetCursor(n - 1)
	}
	if len(rows) == 0 {
		o.table.SetCursor(0)
	}
}

func (o *Orders) openPicker(ord models.Order) tea.Cmd {
	options := make([]huh.Option[models.OrderStatus], 0, len(models.AdminStatuses))
	for _, s := range models.AdminStatuses {
		options = append(options, huh.NewOption(s.Label(), s))
	}
	o.target = ord.ID
	o.status = ord.Status
	o.picker = screen.NewForm(huh.NewGroup(
		huh.NewSelect[models.OrderStatus]().
			Title(fmt.Sprintf("Status for order #%d", ord.ID)).
			Options(options...).
			Value(&o.status),
	)).WithWidth(o.env.FormWidth())
	return o.picker.Init()
}

func (o *Orders) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		o.sync()
		return o, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		o.spinner, cmd = o.spinner.Update(msg)
		return o, cmd
	}

	if o.picker != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			o.picker = nil
			return o, nil
		}
		var cmd tea.Cmd
		o.picker, cmd = screen.UpdateForm(o.picker, msg)
		if o.picker.State != huh.StateCompleted {
			return o, cmd
		}
		o.picker = nil
		return o, o.apply(o.target, o.status)
	}

	if o.ctrl.State().Busy {
		return o, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return o, o.env.Run("load", o.ctrl.Load)
		case "f":
			o.filter = (o.filter + 1) % len(statusFilters)
			o.ctrl.SetFilter(statusFilters[o.filter])
			o.sync()
			return o, nil
		case "s", "enter":
			if ord, ok := o.selected(); ok {
				return o, o.openPicker(ord)
			}
			return o, nil
		}
	}

	var cmd tea.Cmd
	o.table, cmd = o.table.Update(msg)
	return o, cmd
}

func (o *Orders) apply(id int64, status models.OrderStatus) tea.Cmd {
	return o.env.Mutate(o.ctrl, "update status", func(ctx context.Context) error {
		return o.ctrl.UpdateStatus(ctx, id, status)
	})
}

func (o *Orders) View() string {
	st := o.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Truck, "Manage Orders"))
	label := "All statuses"
	if st.StatusFilter != "" {
		label = st.StatusFilter.Label()
	}
	sb.WriteString("  " + styles.Subtitle.Render("showing: "+label))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, o.spinner, "orders"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	if o.picker != nil {
		sb.WriteString(o.picker.View())
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, o.spinner))
	if len(st.Visible()) == 0 {
		sb.WriteString(screen.Empty("No orders found."))
		return sb.String()
	}
	sb.WriteString(o.table.View())
	sb.WriteString("\n\n")
	if ord, ok := o.selected(); ok {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Order #%d ", ord.ID)) + widgets.OrderBadge(ord.Status) + "\n")
		for _, it := range ord.Items {
			fmt.Fprintf(&sb, "  %d × %s @ %s\n", it.Quantity, it.Product.Name, screen.Money(it.PriceAtPurchase))
		}
	}
	return sb.String()
}

func (o *Orders) Shortcuts() []string {
	if o.picker != nil {
		return []string{"↑↓ Choose", "Enter Apply", "Esc Cancel"}
	}
	return []string{"↑↓ Select", "s Set status", "f Filter", "r Refresh"}
}

func (o *Orders) Capturing() bool { return o.picker != nil }
