package account

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/validate"
)

// RegisteredFlash is shown on the login screen after a successful sign-up
const RegisteredFlash = "Registration successful! Please login."

// Register is the /register screen
type Register struct {
	env     screen.Env
	form    *huh.Form
	focus   screen.Focus
	spinner spinner.Model
	values  validate.RegisterForm

	busy bool
	err  string
}

// NewRegister creates the registration screen
func NewRegister(env screen.Env) screen.Screen {
	r := &Register{env: env, spinner: screen.NewSpinner()}
	r.values.Role = string(models.RoleCustomer)
	r.form = r.buildForm()
	return r
}

func (r *Register) buildForm() *huh.Form {
	r.values.Password, r.values.ConfirmPassword = "", ""
	return screen.NewForm(huh.NewGroup(
		huh.NewInput().Title("Full Name").Value(&r.values.Name).Validate(validate.Required),
		huh.NewInput().Title("Email").Value(&r.values.Email).Validate(validate.Email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&r.values.Password).Validate(validate.Required),
		huh.NewInput().Title("Confirm Password").EchoMode(huh.EchoModePassword).Value(&r.values.ConfirmPassword),
		huh.NewSelect[string]().
			Title("Account type").
			Options(
				huh.NewOption(models.RoleCustomer.Label(), string(models.RoleCustomer)),
				huh.NewOption(models.RoleSeller.Label(), string(models.RoleSeller)),
			).
			Value(&r.values.Role),
	).Title("Create your account")).WithWidth(r.env.FormWidth())
}

func (r *Register) Init() tea.Cmd {
	return tea.Batch(r.form.Init(), r.spinner.Tick)
}

func (r *Register) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		r.busy = false
		if msg.Err != nil {
			r.err = apperrors.UserMessage(msg.Err, apperrors.Messages{Default: "Registration failed. Please try again."})
			r.form = r.buildForm()
			return r, r.form.Init()
		}
		return r, screen.NavigateWithFlash("/login", RegisteredFlash)

	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}

	if r.busy || r.focus.Key(msg) {
		return r, nil
	}

	var cmd tea.Cmd
	r.form, cmd = screen.UpdateForm(r.form, msg)
	if r.form.State != huh.StateCompleted {
		return r, cmd
	}

	if err := validate.Struct(r.values); err != nil {
		r.err = apperrors.UserMessage(err, apperrors.Messages{})
		r.form = r.buildForm()
		return r, r.form.Init()
	}

	r.busy = true
	r.err = ""
	reg := r.values.Registration()
	store := r.env.Session
	return r, r.env.Run("register", func(ctx context.Context) error {
		return store.Register(ctx, reg).Err
	})
}

func (r *Register) View() string {
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.User, "Register"))
	sb.WriteString("\n")
	if r.err != "" {
		sb.WriteString(styles.BannerError.Render(r.err) + "\n")
	}
	if r.busy {
		sb.WriteString(r.spinner.View() + " Creating account...\n")
		return sb.String()
	}
	sb.WriteString(r.form.View())
	return sb.String()
}

func (r *Register) Shortcuts() []string { return formShortcuts(r.focus) }

func (r *Register) Capturing() bool { return r.focus.Active() && !r.busy }
