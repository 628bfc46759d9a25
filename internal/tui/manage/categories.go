package manage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/validate"
)

// Categories is the /admin/categories screen
type Categories struct {
	env     screen.Env
	ctrl    *pages.AdminCategories
	table   table.Model
	spinner spinner.Model
	confirm *screen.Confirm

	form    *huh.Form
	editing int64
	input   models.CategoryInput
}

// NewCategories creates the category management screen
func NewCategories(env screen.Env) screen.Screen {
	return &Categories{
		env:  env,
		ctrl: pages.NewAdminCategories(env.API, env.Logger),
		table: screen.NewTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 20},
			{Title: "Description", Width: 44},
		}, env.Height-6),
		spinner: screen.NewSpinner(),
	}
}

func (c *Categories) Init() tea.Cmd {
	return tea.Batch(c.spinner.Tick, c.env.Run("load", c.ctrl.Load))
}

func (c *Categories) selected() (models.Category, bool) {
	cats := c.ctrl.State().Categories
	i := c.table.Cursor()
	if i < 0 || i >= len(cats) {
		return models.Category{}, false
	}
	return cats[i], true
}

func (c *Categories) sync() {
	cats := c.ctrl.State().Categories
	rows := make([]table.Row, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, table.Row{strconv.FormatInt(cat.ID, 10), cat.Name, cat.Description})
	}
	c.table.SetRows(rows)
	if n := len(rows); n > 0 && c.table.Cursor() >= n {
		c.table.SetCursor(n - 1)
	}
}

func (c *Categories) openForm(id int64, in models.CategoryInput) tea.Cmd {
	c.editing = id
	c.input = in
	title := "Add Category"
	if id != 0 {
		title = "Edit Category"
	}
	c.form = screen.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&c.input.Name).Validate(validate.Required),
		huh.NewText().Title("Description").Lines(3).Value(&c.input.Description),
	).Title(title)).WithWidth(c.env.FormWidth())
	return c.form.Init()
}

func (c *Categories) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		c.sync()
		if msg.Op == "save" && msg.Err != nil {
			return c, c.openForm(c.editing, c.input)
		}
		return c, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	if c.form != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			c.form = nil
			return c, nil
		}
		var cmd tea.Cmd
		c.form, cmd = screen.UpdateForm(c.form, msg)
		if c.form.State != huh.StateCompleted {
			return c, cmd
		}
		c.form = nil
		id, in := c.editing, c.input
		return c, c.env.Mutate(c.ctrl, "save", func(ctx context.Context) error {
			return c.ctrl.Save(ctx, id, in)
		})
	}

	if c.confirm != nil {
		cmd, done, yes := c.confirm.Update(msg)
		if !done {
			return c, cmd
		}
		id := c.confirm.Target
		c.confirm = nil
		if !yes {
			return c, nil
		}
		return c, c.env.Mutate(c.ctrl, "delete", func(ctx context.Context) error {
			return c.ctrl.Delete(ctx, id)
		})
	}

	if c.ctrl.State().Busy {
		return c, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return c, c.env.Run("load", c.ctrl.Load)
		case "n":
			return c, c.openForm(0, models.CategoryInput{})
		case "e", "enter":
			if cat, ok := c.selected(); ok {
				return c, c.openForm(cat.ID, models.CategoryInput{Name: cat.Name, Description: cat.Description})
			}
			return c, nil
		case "d", "delete":
			if cat, ok := c.selected(); ok {
				c.confirm = screen.NewConfirm("delete", cat.ID,
					fmt.Sprintf("Delete category %q?", cat.Name), "Products must be moved out of it first.")
				return c, c.confirm.Init()
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *Categories) View() string {
	st := c.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Tag, "Manage Categories"))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, c.spinner, "categories"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	switch {
	case c.form != nil:
		sb.WriteString(c.form.View())
		return sb.String()
	case c.confirm != nil:
		sb.WriteString(c.confirm.View())
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, c.spinner))
	if len(st.Categories) == 0 {
		sb.WriteString(screen.Empty("No categories yet. Press n to add one."))
		return sb.String()
	}
	sb.WriteString(c.table.View())
	return sb.String()
}

func (c *Categories) Shortcuts() []string {
	switch {
	case c.form != nil:
		return []string{"Tab Next", "Enter Save", "Esc Cancel"}
	case c.confirm != nil:
		return []string{"y Yes", "n No"}
	}
	return []string{"↑↓ Select", "n New", "e Edit", "d Delete"}
}

func (c *Categories) Capturing() bool { return c.form != nil || c.confirm != nil }
