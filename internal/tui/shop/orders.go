// ABOUTME: Order history screen with cancellation of open orders

package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/tui/widgets"
)

// Orders is the /orders screen
type Orders struct {
	env     screen.Env
	ctrl    *pages.Orders
	table   table.Model
	spinner spinner.Model
	confirm *screen.Confirm
}

// NewOrders creates the order history screen
func NewOrders(env screen.Env) screen.Screen {
	return &Orders{
		env:  env,
		ctrl: pages.NewOrders(env.API, env.Logger),
		table: screen.NewTable([]table.Column{
			{Title: "Order", Width: 8},
			{Title: "Placed", Width: 17},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 11},
			{Title: "Status", Width: 12},
		}, (env.Height-8)/2),
		spinner: screen.NewSpinner(),
	}
}

func (o *Orders) Init() tea.Cmd {
	return tea.Batch(o.spinner.Tick, o.env.Run("load", o.ctrl.Load))
}

func (o *Orders) selected() (models.Order, bool) {
	orders := o.ctrl.State().Orders
	i := o.table.Cursor()
	if i < 0 || i >= len(orders) {
		return models.Order{}, false
	}
	return orders[i], true
}

func (o *Orders) sync() {
	orders := o.ctrl.State().Orders
	rows := make([]table.Row, 0, len(orders))
	for _, ord := range orders {
		rows = append(rows, orderRow(ord))
	}
	o.table.SetRows(rows)
	if n := len(rows); n > 0 && o.table.Cursor() >= n {
		o.table.SetCursor(n - 1)
	}
}

// orderRow renders the status as plain text; table cells are truncated
// by width and styled badges would be cut mid-sequence
func orderRow(ord models.Order) table.Row {
	placed := ""
	if !ord.CreatedAt.IsZero() {
		placed = ord.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	return table.Row{
		fmt.Sprintf("#%d", ord.ID),
		placed,
		fmt.Sprintf("%d", len(ord.Items)),
		screen.Money(ord.TotalAmount),
		ord.Status.Label(),
	}
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

	if o.confirm != nil {
		cmd, done, yes := o.confirm.Update(msg)
		if !done {
			return o, cmd
		}
		id := o.confirm.Target
		o.confirm = nil
		if yes {
			return o, o.env.Mutate(o.ctrl, "cancel", func(ctx context.Context) error {
				return o.ctrl.Cancel(ctx, id)
			})
		}
		return o, nil
	}

	if o.ctrl.State().Busy {
		return o, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return o, o.env.Run("load", o.ctrl.Load)
		case "x":
			ord, ok := o.selected()
			if !ok {
				return o, nil
			}
			if !ord.Status.Cancellable() {
				// let the controller explain why
				return o, o.env.Mutate(o.ctrl, "cancel", func(ctx context.Context) error {
					return o.ctrl.Cancel(ctx, ord.ID)
				})
			}
			o.confirm = screen.NewConfirm("cancel", ord.ID,
				fmt.Sprintf("Cancel order #%d?", ord.ID), "This cannot be undone.")
			return o, o.confirm.Init()
		}
	}

	var cmd tea.Cmd
	o.table, cmd = o.table.Update(msg)
	return o, cmd
}

func (o *Orders) View() string {
	st := o.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Truck, "My Orders"))
	sb.WriteString("\n")
	sb.WriteString(screen.FlashBanner(o.env.Flash))
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, o.spinner, "orders"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	if o.confirm != nil {
		sb.WriteString(o.confirm.View())
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, o.spinner))
	if len(st.Orders) == 0 {
		sb.WriteString(screen.Empty("You have no orders yet."))
		return sb.String()
	}
	sb.WriteString(o.table.View())
	sb.WriteString("\n\n")
	if ord, ok := o.selected(); ok {
		sb.WriteString(styles.Panel.Render(orderDetail(ord)) + "\n")
	}
	return sb.String()
}

func orderDetail(ord models.Order) string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Order #%d ", ord.ID)) + widgets.OrderBadge(ord.Status) + "\n")
	for _, it := range ord.Items {
		sb.WriteString(fmt.Sprintf("  %d × %s @ %s = %s\n",
			it.Quantity, it.Product.Name, screen.Money(it.PriceAtPurchase), screen.Money(it.LineTotal())))
	}
	if a := ord.ShippingAddress; a != nil {
		sb.WriteString(styles.Subtitle.Render("  Ship to: ") +
			strings.Join(nonEmpty(a.Street, a.City, a.State, a.ZipCode, a.Country), ", ") + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (o *Orders) Shortcuts() []string {
	if o.confirm != nil {
		return []string{"←→ Choose", "Enter Confirm", "Esc Cancel"}
	}
	return []string{"↑↓ Select", "x Cancel order", "r Refresh"}
}

func (o *Orders) Capturing() bool { return o.confirm != nil }
