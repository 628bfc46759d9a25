// ABOUTME: Profile screen for every signed-in role

package account

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/tui/widgets"
	"github.com/markalston/storefront-cli/internal/validate"
)

// Profile is the /profile screen. It shows the identity and, after e,
// an edit form.
type Profile struct {
	env     screen.Env
	ctrl    *pages.Profile
	spinner spinner.Model

	form  *huh.Form
	focus screen.Focus
	edit  models.UserUpdate
}

// NewProfile creates the profile screen
func NewProfile(env screen.Env) screen.Screen {
	return &Profile{
		env:     env,
		ctrl:    pages.NewProfile(env.API, env.Session, env.Logger),
		spinner: screen.NewSpinner(),
	}
}

func (p *Profile) Init() tea.Cmd { return p.spinner.Tick }

func (p *Profile) openForm() tea.Cmd {
	id := p.ctrl.State().Identity
	if id == nil {
		return nil
	}
	p.edit = models.UserUpdate{Name: id.Name, Email: id.Email}
	p.focus = screen.Focus{}
	p.form = screen.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(&p.edit.Name).Validate(validate.Required),
		huh.NewInput().Title("Email").Value(&p.edit.Email).Validate(validate.Email),
	).Title("Edit profile")).WithWidth(p.env.FormWidth())
	return p.form.Init()
}

func (p *Profile) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		// the banner carries the outcome
		return p, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	if p.ctrl.State().Busy {
		return p, nil
	}

	if p.form == nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "e" {
			return p, p.openForm()
		}
		return p, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" && p.focus.Active() {
		p.form = nil
		return p, nil
	}
	if p.focus.Key(msg) {
		return p, nil
	}
	var cmd tea.Cmd
	p.form, cmd = screen.UpdateForm(p.form, msg)
	if p.form.State == huh.StateCompleted {
		p.form = nil
		in := p.edit
		return p, p.env.Mutate(p.ctrl, "save profile", func(ctx context.Context) error {
			return p.ctrl.Save(ctx, in)
		})
	}
	return p, cmd
}

func (p *Profile) View() string {
	st := p.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.User, "My Profile"))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))
	sb.WriteString(screen.Busy(st.Status, p.spinner))

	if p.form != nil {
		sb.WriteString(p.form.View())
		return sb.String()
	}
	if st.Identity == nil {
		sb.WriteString(screen.Empty("No profile loaded."))
		return sb.String()
	}
	sb.WriteString(screen.Pairs(
		[2]string{"Name", st.Identity.Name},
		[2]string{"Email", st.Identity.Email},
	))
	sb.WriteString(styles.Subtitle.Render("Role: ") + widgets.RoleBadge(st.Identity.Role) + "\n")
	return sb.String()
}

func (p *Profile) Shortcuts() []string {
	if p.form != nil {
		return []string{"Tab Next", "Enter Save", "Esc Cancel"}
	}
	return []string{"e Edit"}
}

func (p *Profile) Capturing() bool { return p.form != nil && p.focus.Active() }
