// ABOUTME: Login and registration screens backed by huh forms
// ABOUTME: The router sends the user on once the session changes

package account

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
	"github.com/markalston/storefront-cli/internal/tui/icons"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/styles"
	"github.com/markalston/storefront-cli/internal/validate"
)

var loginMessages = apperrors.Messages{
	Default:      "Login failed. Please try again.",
	Unauthorized: "Invalid email or password",
}

// Login is the /login screen
type Login struct {
	env     screen.Env
	form    *huh.Form
	focus   screen.Focus
	spinner spinner.Model

	email    string
	password string

	busy bool
	err  string
}

// NewLogin creates the login screen
func NewLogin(env screen.Env) screen.Screen {
	l := &Login{env: env, spinner: screen.NewSpinner()}
	l.form = l.buildForm()
	return l
}

func (l *Login) buildForm() *huh.Form {
	l.password = ""
	return screen.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Value(&l.email).
			Validate(validate.Email),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&l.password).
			Validate(validate.Required),
	).Title("Sign in")).WithWidth(l.env.FormWidth())
}

func (l *Login) Init() tea.Cmd {
	return tea.Batch(l.form.Init(), l.spinner.Tick)
}

func (l *Login) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		l.busy = false
		if msg.Err != nil {
			l.err = loginError(msg.Err)
			l.form = l.buildForm()
			return l, l.form.Init()
		}
		// the session change moves us on
		return l, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	}

	if l.busy || l.focus.Key(msg) {
		return l, nil
	}

	var cmd tea.Cmd
	l.form, cmd = screen.UpdateForm(l.form, msg)
	if l.form.State == huh.StateCompleted {
		l.busy = true
		l.err = ""
		creds := models.Credentials{Email: strings.TrimSpace(l.email), Password: l.password}
		store := l.env.Session
		return l, l.env.Run("login", func(ctx context.Context) error {
			return store.Login(ctx, creds).Err
		})
	}
	return l, cmd
}

func loginError(err error) string {
	if errors.Is(err, session.ErrSuperseded) {
		return "Login was cancelled by a newer session change"
	}
	return apperrors.UserMessage(err, loginMessages)
}

func (l *Login) View() string {
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Lock, "Login"))
	sb.WriteString("\n")
	sb.WriteString(screen.FlashBanner(l.env.Flash))
	if l.err != "" {
		sb.WriteString(styles.BannerError.Render(l.err) + "\n")
	}
	if l.busy {
		sb.WriteString(l.spinner.View() + " Signing in...\n")
		return sb.String()
	}
	sb.WriteString(l.form.View())
	sb.WriteString("\n")
	if l.focus.Active() {
		sb.WriteString(styles.Help.Render("No account yet? Press esc, then 3 for Register."))
	} else {
		sb.WriteString(styles.Help.Render("Press enter to continue signing in."))
	}
	return sb.String()
}

func (l *Login) Shortcuts() []string {
	return formShortcuts(l.focus)
}

func (l *Login) Capturing() bool { return l.focus.Active() && !l.busy }

func formShortcuts(f screen.Focus) []string {
	if f.Active() {
		return []string{"Tab Next", "Enter Submit", "Esc Menu"}
	}
	return []string{"Enter Form"}
}
