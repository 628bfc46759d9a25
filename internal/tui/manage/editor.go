// ABOUTME: Product create and edit form for sellers and administrators

package manage

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/validate"
)

// Editor is the add and edit product screen. With an ":id" route
// parameter it edits, otherwise it creates.
type Editor struct {
	env     screen.Env
	ctrl    *pages.ProductEditor
	spinner spinner.Model

	form   *huh.Form
	focus  screen.Focus
	fields pages.ProductForm
}

// NewEditor creates the product form
func NewEditor(env screen.Env) screen.Screen {
	id, _ := env.Params.ID("id")
	return &Editor{
		env:     env,
		ctrl:    pages.NewProductEditor(env.API, env.Session, env.Logger, id),
		spinner: screen.NewSpinner(),
	}
}

func (e *Editor) Init() tea.Cmd {
	return tea.Batch(e.spinner.Tick, e.env.Run("load", e.ctrl.Load))
}

func (e *Editor) buildForm() tea.Cmd {
	st := e.ctrl.State()

	categories := []huh.Option[int64]{huh.NewOption("Select a category", int64(0))}
	for _, c := range st.Categories {
		categories = append(categories, huh.NewOption(c.Name, c.ID))
	}

	fields := []huh.Field{
		huh.NewInput().Title("Product Name").Value(&e.fields.Name).Validate(validate.Required),
		huh.NewText().Title("Description").Lines(3).Value(&e.fields.Description),
		huh.NewInput().Title("Price").Placeholder("0.00").Value(&e.fields.Price).Validate(func(s string) error {
			_, err := validate.ParsePrice(s)
			return err
		}),
		huh.NewInput().Title("Stock Quantity").Value(&e.fields.Stock).Validate(validate.Required),
		huh.NewInput().Title("Image URL").Placeholder("optional").Value(&e.fields.ImageURL),
		huh.NewSelect[int64]().Title("Category").Options(categories...).Value(&e.fields.CategoryID),
	}
	if e.ctrl.IsAdmin() {
		sellers := []huh.Option[int64]{huh.NewOption("Select a seller", int64(0))}
		for _, u := range st.Sellers {
			sellers = append(sellers, huh.NewOption(u.Name+" ("+u.Email+")", u.ID))
		}
		fields = append(fields, huh.NewSelect[int64]().Title("Seller").Options(sellers...).Value(&e.fields.SellerID))
	}

	e.focus = screen.Focus{}
	e.form = screen.NewForm(huh.NewGroup(fields...).Title(e.title())).WithWidth(e.env.FormWidth())
	return e.form.Init()
}

func (e *Editor) title() string {
	if e.ctrl.Editing() {
		return "Edit Product"
	}
	return "Add New Product"
}

func (e *Editor) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		st := e.ctrl.State()
		switch msg.Op {
		case "load":
			if st.LoadErr != "" {
				return e, nil
			}
			e.fields = st.Form
			return e, e.buildForm()
		case "save":
			if st.Saved {
				return e, screen.NavigateWithFlash(e.ctrl.DoneRoute(), st.Banner.Text)
			}
			// fields keep what the user typed
			return e, e.buildForm()
		}
		return e, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		e.spinner, cmd = e.spinner.Update(msg)
		return e, cmd
	}

	if e.form == nil || e.ctrl.State().Busy {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "r" && e.form == nil {
			return e, e.env.Run("load", e.ctrl.Load)
		}
		return e, nil
	}
	if e.focus.Key(msg) {
		return e, nil
	}

	var cmd tea.Cmd
	e.form, cmd = screen.UpdateForm(e.form, msg)
	if e.form.State == huh.StateCompleted {
		e.form = nil
		fields := e.fields
		return e, e.env.Mutate(e.ctrl, "save", func(ctx context.Context) error {
			return e.ctrl.Save(ctx, fields)
		})
	}
	return e, cmd
}

func (e *Editor) View() string {
	st := e.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Tag, e.title()))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, e.spinner, "product"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	if st.Busy || e.form == nil {
		sb.WriteString(e.spinner.View() + " Saving...")
		return sb.String()
	}
	sb.WriteString(e.form.View())
	return sb.String()
}

func (e *Editor) Shortcuts() []string {
	if !e.focus.Active() {
		return []string{"Enter Form"}
	}
	return []string{"Tab Next", "Enter Save", "Esc Menu"}
}

func (e *Editor) Capturing() bool { return e.form != nil && e.focus.Active() }
