package shop

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
)

// Wishlist is the /wishlist screen
type Wishlist struct {
	env     screen.Env
	ctrl    *pages.Wishlist
	table   table.Model
	spinner spinner.Model
}

// NewWishlist creates the wishlist screen
func NewWishlist(env screen.Env) screen.Screen {
	return &Wishlist{
		env:  env,
		ctrl: pages.NewWishlist(env.API, env.Logger),
		table: screen.NewTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Product", Width: 30},
			{Title: "Category", Width: 14},
			{Title: "Price", Width: 10},
			{Title: "Stock", Width: 12},
		}, env.Height-6),
		spinner: screen.NewSpinner(),
	}
}

func (w *Wishlist) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, w.env.Run("load", w.ctrl.Load))
}

func (w *Wishlist) selected() (models.Product, bool) {
	products := w.ctrl.State().Products
	i := w.table.Cursor()
	if i < 0 || i >= len(products) {
		return models.Product{}, false
	}
	return products[i], true
}

func (w *Wishlist) sync() {
	products := w.ctrl.State().Products
	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, table.Row{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			categoryName(p.Category),
			screen.Money(p.Price),
			stockLabel(p.StockQuantity),
		})
	}
	w.table.SetRows(rows)
	if n := len(rows); n > 0 && w.table.Cursor() >= n {
		w.table.SetCursor(n - 1)
	}
}

func (w *Wishlist) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		w.sync()
		return w, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	if w.ctrl.State().Busy {
		return w, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return w, w.env.Run("load", w.ctrl.Load)
		case "enter":
			if p, ok := w.selected(); ok {
				return w, screen.Navigate(fmt.Sprintf("/product/%d", p.ID))
			}
			return w, nil
		case "d", "delete":
			if p, ok := w.selected(); ok {
				return w, w.env.Mutate(w.ctrl, "remove", func(ctx context.Context) error {
					return w.ctrl.Remove(ctx, p.ID)
				})
			}
			return w, nil
		case "m":
			if p, ok := w.selected(); ok {
				return w, w.env.Mutate(w.ctrl, "move to cart", func(ctx context.Context) error {
					return w.ctrl.MoveToCart(ctx, p.ID)
				})
			}
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.table, cmd = w.table.Update(msg)
	return w, cmd
}

func (w *Wishlist) View() string {
	st := w.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Heart, "My Wishlist"))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, w.spinner, "wishlist"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, w.spinner))
	if len(st.Products) == 0 {
		sb.WriteString(screen.Empty("Your wishlist is empty."))
		return sb.String()
	}
	sb.WriteString(w.table.View())
	return sb.String()
}

func (w *Wishlist) Shortcuts() []string {
	return []string{"↑↓ Select", "Enter Details", "m Move to cart", "d Remove"}
}

func (w *Wishlist) Capturing() bool { return false }
