// ABOUTME: Product detail screen with a quantity picker

package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

// Product is the /product/:id screen
type Product struct {
	env      screen.Env
	ctrl     *pages.ProductDetail
	spinner  spinner.Model
	quantity int
	badID    bool
}

// NewProduct creates the detail screen for the product in the route
func NewProduct(env screen.Env) screen.Screen {
	id, ok := env.Params.ID("id")
	return &Product{
		env:      env,
		ctrl:     pages.NewProductDetail(env.API, env.Session, env.Logger, id),
		spinner:  screen.NewSpinner(),
		quantity: 1,
		badID:    !ok,
	}
}

func (p *Product) Init() tea.Cmd {
	if p.badID {
		return nil
	}
	return tea.Batch(p.spinner.Tick, p.load())
}

func (p *Product) load() tea.Cmd {
	return p.env.Run("load", p.ctrl.Load)
}

func (p *Product) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		if errors.Is(msg.Err, pages.ErrLoginRequired) {
			return p, screen.Navigate("/login")
		}
		return p, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return p, screen.Navigate("/")
		}
		st := p.ctrl.State()
		if p.badID || st.Busy {
			return p, nil
		}
		if msg.String() == "r" {
			return p, p.load()
		}
		if st.Product == nil {
			return p, nil
		}
		switch msg.String() {
		case "+", "=", "right":
			p.quantity = min(p.quantity+1, max(1, st.Product.StockQuantity))
		case "-", "left":
			p.quantity = max(1, p.quantity-1)
		case "a":
			q := p.quantity
			return p, p.env.Mutate(p.ctrl, "add to cart", func(ctx context.Context) error {
				return p.ctrl.AddToCart(ctx, q)
			})
		case "w":
			return p, p.env.Mutate(p.ctrl, "wishlist", p.ctrl.ToggleWishlist)
		}
	}
	return p, nil
}

func (p *Product) View() string {
	var sb strings.Builder
	if p.badID {
		sb.WriteString(screen.Heading(icons.Package, "Product"))
		sb.WriteString("\n")
		sb.WriteString(styles.StatusCritical.Render("Product not found."))
		return sb.String()
	}

	st := p.ctrl.State()
	if body, ok := screen.Placeholder(st.Status, p.spinner, "product"); !ok {
		sb.WriteString(screen.Heading(icons.Package, "Product"))
		sb.WriteString("\n")
		sb.WriteString(body)
		return sb.String()
	}

	prod := st.Product
	sb.WriteString(screen.Heading(icons.Package, prod.Name))
	if st.Wishlisted {
		sb.WriteString("  " + styles.StatusCritical.Render(icons.Heart.String()))
	}
	sb.WriteString("\n\n")
	sb.WriteString(screen.Banner(st.Banner))
	sb.WriteString(screen.Busy(st.Status, p.spinner))

	sb.WriteString(styles.Price.Render(screen.Money(prod.Price)) + "\n\n")
	rows := [][2]string{
		{"Category", categoryName(prod.Category)},
		{"Availability", stockStyled(prod.StockQuantity)},
	}
	if prod.Seller != nil {
		rows = append(rows, [2]string{"Sold by", prod.Seller.Name})
	}
	sb.WriteString(screen.Pairs(rows...))
	if prod.Description != "" {
		sb.WriteString("\n" + prod.Description + "\n")
	}
	if prod.StockQuantity > 0 {
		sb.WriteString("\n" + styles.Subtitle.Render("Quantity: ") +
			styles.ValueStyle.Render(fmt.Sprintf("- %d +", p.quantity)) + "\n")
	}
	return sb.String()
}

func (p *Product) Shortcuts() []string {
	return []string{"+/- Quantity", "a Add to cart", "w Wishlist", "Esc Back"}
}

func (p *Product) Capturing() bool { return false }
