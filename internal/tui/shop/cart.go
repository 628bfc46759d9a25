// ABOUTME: Cart screen: quantities, removal, clearing, and checkout
// ABOUTME: Clear and checkout ask for confirmation first

package shop

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

const (
	actionClear = "clear"
	actionPlace = "place"
)

// Cart is the /cart screen
type Cart struct {
	env     screen.Env
	ctrl    *pages.Cart
	table   table.Model
	spinner spinner.Model
	confirm *screen.Confirm
}

// NewCart creates the cart screen
func NewCart(env screen.Env) screen.Screen {
	return &Cart{
		env:  env,
		ctrl: pages.NewCart(env.API, env.Logger),
		table: screen.NewTable([]table.Column{
			{Title: "Product", Width: 28},
			{Title: "Price", Width: 10},
			{Title: "Qty", Width: 5},
			{Title: "Total", Width: 11},
			{Title: "Stock", Width: 12},
		}, env.Height-8),
		spinner: screen.NewSpinner(),
	}
}

func (c *Cart) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, c.load())
}

func (c *Cart) load() tea.Cmd {
	return c.env.Run("load", c.ctrl.Load)
}

func (c *Cart) selected() (models.CartItem, bool) {
	items := c.ctrl.State().Cart.Items
	i := c.table.Cursor()
	if i < 0 || i >= len(items) {
		return models.CartItem{}, false
	}
	return items[i], true
}

func (c *Cart) sync() {
	items := c.ctrl.State().Cart.Items
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, table.Row{
			it.Product.Name,
			screen.Money(it.Product.Price),
			strconv.Itoa(it.Quantity),
			screen.Money(it.LineTotal()),
			stockLabel(it.Product.StockQuantity),
		})
	}
	c.table.SetRows(rows)
	if n := len(rows); n > 0 && c.table.Cursor() >= n {
		c.table.SetCursor(n - 1)
	}
}

func (c *Cart) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		c.sync()
		if msg.Op == actionPlace && msg.Err == nil {
			return c, screen.NavigateWithFlash("/orders", "Order placed successfully!")
		}
		return c, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	if c.confirm != nil {
		cmd, done, yes := c.confirm.Update(msg)
		if !done {
			return c, cmd
		}
		action := c.confirm.Action
		c.confirm = nil
		if !yes {
			return c, nil
		}
		switch action {
		case actionClear:
			return c, c.env.Mutate(c.ctrl, actionClear, c.ctrl.Clear)
		case actionPlace:
			return c, c.placeOrder()
		}
		return c, nil
	}

	st := c.ctrl.State()
	if st.Busy {
		return c, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return c, c.load()
		case "+", "=", "right":
			return c, c.changeQuantity(1)
		case "-", "left":
			return c, c.changeQuantity(-1)
		case "d", "delete":
			if it, ok := c.selected(); ok {
				return c, c.env.Mutate(c.ctrl, "remove", func(ctx context.Context) error {
					return c.ctrl.Remove(ctx, it.ID)
				})
			}
			return c, nil
		case "C":
			if len(st.Cart.Items) == 0 {
				return c, nil
			}
			c.confirm = screen.NewConfirm(actionClear, 0, "Clear cart?", "Every item will be removed.")
			return c, c.confirm.Init()
		case "o":
			if len(st.Cart.Items) == 0 {
				return c, c.placeOrder()
			}
			c.confirm = screen.NewConfirm(actionPlace, 0, "Place order?",
				"Total "+screen.Money(st.Cart.Total())+" for "+strconv.Itoa(len(st.Cart.Items))+" item(s).")
			return c, c.confirm.Init()
		}
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *Cart) changeQuantity(delta int) tea.Cmd {
	it, ok := c.selected()
	if !ok {
		return nil
	}
	q := it.Quantity + delta
	return c.env.Mutate(c.ctrl, "update quantity", func(ctx context.Context) error {
		return c.ctrl.UpdateQuantity(ctx, it.ID, q)
	})
}

func (c *Cart) placeOrder() tea.Cmd {
	return c.env.Mutate(c.ctrl, actionPlace, func(ctx context.Context) error {
		_, err := c.ctrl.PlaceOrder(ctx)
		return err
	})
}

func (c *Cart) View() string {
	st := c.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Cart, "Shopping Cart"))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))

	if body, ok := screen.Placeholder(st.Status, c.spinner, "cart"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	if c.confirm != nil {
		sb.WriteString(c.confirm.View())
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, c.spinner))
	if len(st.Cart.Items) == 0 {
		sb.WriteString(screen.Empty("Your cart is empty."))
		return sb.String()
	}
	sb.WriteString(c.table.View())
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Total: ") + styles.Price.Render(screen.Money(st.Cart.Total())))
	return sb.String()
}

func (c *Cart) Shortcuts() []string {
	if c.confirm != nil {
		return []string{"←→ Choose", "Enter Confirm", "Esc Cancel"}
	}
	return []string{"↑↓ Select", "+/- Quantity", "d Remove", "C Clear", "o Place order"}
}

func (c *Cart) Capturing() bool { return c.confirm != nil }
