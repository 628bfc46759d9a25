// ABOUTME: Catalog home screen with search and category filters
// ABOUTME: Customers add to cart and toggle wishlist straight from the list

package shop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

// Home is the "/" screen
type Home struct {
	env     screen.Env
	ctrl    *pages.Catalog
	table   table.Model
	spinner spinner.Model

	filter *huh.Form
	fields filterFields
}

type filterFields struct {
	keyword  string
	category int64
	min, max string
}

// NewHome creates the catalog screen
func NewHome(env screen.Env) screen.Screen {
	return &Home{
		env:     env,
		ctrl:    pages.NewCatalog(env.API, env.Session, env.Logger),
		table:   screen.NewTable(productColumns(), env.Height-6),
		spinner: screen.NewSpinner(),
	}
}

func productColumns() []table.Column {
	return []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Product", Width: 28},
		{Title: "Category", Width: 14},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 12},
		{Title: "", Width: 2},
	}
}

func (h *Home) Init() tea.Cmd {
	return tea.Batch(h.spinner.Tick, h.load())
}

func (h *Home) load() tea.Cmd {
	return h.env.Run("load", h.ctrl.Load)
}

func (h *Home) selected() (models.Product, bool) {
	products := h.ctrl.State().Products
	i := h.table.Cursor()
	if i < 0 || i >= len(products) {
		return models.Product{}, false
	}
	return products[i], true
}

func (h *Home) sync() {
	st := h.ctrl.State()
	rows := make([]table.Row, 0, len(st.Products))
	for _, p := range st.Products {
		heart := ""
		if st.Wishlisted[p.ID] {
			heart = icons.Heart.String()
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			categoryName(p.Category),
			screen.Money(p.Price),
			stockLabel(p.StockQuantity),
			heart,
		})
	}
	h.table.SetRows(rows)
}

func (h *Home) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		h.sync()
		return h, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd
	case tea.WindowSizeMsg:
		h.table.SetHeight(max(3, msg.Height-8))
		return h, nil
	}

	if h.filter != nil {
		return h.updateFilter(msg)
	}

	st := h.ctrl.State()
	if st.Busy {
		return h, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return h, h.load()
		case "/":
			return h, h.openFilter()
		case "x":
			return h, h.env.Run("load", func(ctx context.Context) error {
				return h.ctrl.Search(ctx, models.ProductFilter{})
			})
		case "enter":
			if p, ok := h.selected(); ok {
				return h, screen.Navigate(fmt.Sprintf("/product/%d", p.ID))
			}
			return h, nil
		case "a":
			if p, ok := h.selected(); ok {
				return h, h.env.Mutate(h.ctrl, "add to cart", func(ctx context.Context) error {
					return h.ctrl.AddToCart(ctx, p.ID, 1)
				})
			}
			return h, nil
		case "w":
			if p, ok := h.selected(); ok {
				return h, h.env.Mutate(h.ctrl, "wishlist", func(ctx context.Context) error {
					return h.ctrl.ToggleWishlist(ctx, p.ID)
				})
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.table, cmd = h.table.Update(msg)
	return h, cmd
}

func (h *Home) openFilter() tea.Cmd {
	f := h.ctrl.State().Filter
	h.fields = filterFields{keyword: f.Keyword, category: f.CategoryID}
	if f.Min != nil {
		h.fields.min = f.Min.String()
	}
	if f.Max != nil {
		h.fields.max = f.Max.String()
	}

	options := []huh.Option[int64]{huh.NewOption("All categories", int64(0))}
	for _, c := range h.ctrl.State().Categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	h.filter = screen.NewForm(huh.NewGroup(
		huh.NewInput().Title("Search").Placeholder("keyword").Value(&h.fields.keyword),
		huh.NewSelect[int64]().Title("Category").Options(options...).Value(&h.fields.category),
		huh.NewInput().Title("Min price").Value(&h.fields.min).Validate(optionalPrice),
		huh.NewInput().Title("Max price").Value(&h.fields.max).Validate(optionalPrice),
	).Title("Filter products")).WithWidth(h.env.FormWidth())
	return h.filter.Init()
}

func optionalPrice(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := decimal.NewFromString(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func (h *Home) updateFilter(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		h.filter = nil
		return h, nil
	}
	var cmd tea.Cmd
	h.filter, cmd = screen.UpdateForm(h.filter, msg)
	if h.filter.State != huh.StateCompleted {
		return h, cmd
	}
	h.filter = nil
	f := h.fields.toFilter()
	return h, h.env.Run("load", func(ctx context.Context) error {
		return h.ctrl.Search(ctx, f)
	})
}

func (f filterFields) toFilter() models.ProductFilter {
	out := models.ProductFilter{Keyword: strings.TrimSpace(f.keyword), CategoryID: f.category}
	if d, err := decimal.NewFromString(strings.TrimSpace(f.min)); err == nil {
		out.Min = &d
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(f.max)); err == nil {
		out.Max = &d
	}
	return out
}

func (h *Home) View() string {
	st := h.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.App, "Products"))
	sb.WriteString(filterSummary(st.Filter, st.Categories))
	sb.WriteString("\n")
	sb.WriteString(screen.FlashBanner(h.env.Flash))
	sb.WriteString(screen.Banner(st.Banner))

	if h.filter != nil {
		sb.WriteString(h.filter.View())
		return sb.String()
	}
	if body, ok := screen.Placeholder(st.Status, h.spinner, "products"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, h.spinner))
	if len(st.Products) == 0 {
		sb.WriteString(screen.Empty("No products found."))
		return sb.String()
	}
	sb.WriteString(h.table.View())
	return sb.String()
}

func filterSummary(f models.ProductFilter, cats []models.Category) string {
	var parts []string
	if f.Keyword != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Keyword))
	}
	if f.CategoryID != 0 {
		name := fmt.Sprintf("category %d", f.CategoryID)
		for _, c := range cats {
			if c.ID == f.CategoryID {
				name = c.Name
			}
		}
		parts = append(parts, name)
	}
	if f.Min != nil {
		parts = append(parts, "from "+screen.Money(*f.Min))
	}
	if f.Max != nil {
		parts = append(parts, "up to "+screen.Money(*f.Max))
	}
	if len(parts) == 0 {
		return ""
	}
	return styles.Subtitle.Render("filtered: " + strings.Join(parts, ", "))
}

func (h *Home) Shortcuts() []string {
	if h.filter != nil {
		return []string{"Tab Next", "Enter Apply", "Esc Cancel"}
	}
	return []string{"↑↓ Select", "Enter Details", "a Add to cart", "w Wishlist", "/ Filter", "x Clear"}
}

func (h *Home) Capturing() bool { return h.filter != nil }
