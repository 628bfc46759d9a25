package manage

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
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

var roleFilters = []models.Role{"", models.RoleCustomer, models.RoleSeller, models.RoleAdmin}

// Users is the /admin/users screen
type Users struct {
	env     screen.Env
	ctrl    *pages.AdminUsers
	table   table.Model
	spinner spinner.Model
	confirm *screen.Confirm
	filter  int
}

// NewUsers creates the user management screen
func NewUsers(env screen.Env) screen.Screen {
	return &Users{
		env:  env,
		ctrl: pages.NewAdminUsers(env.API, env.Session, env.Logger),
		table: screen.NewTable([]table.Column{
			{Title: "ID", Width: 5},
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 28},
			{Title: "Role", Width: 10},
			{Title: "Joined", Width: 11},
		}, env.Height-7),
		spinner: screen.NewSpinner(),
	}
}

func (u *Users) Init() tea.Cmd {
	return tea.Batch(u.spinner.Tick, u.env.Run("load", u.ctrl.Load))
}

func (u *Users) selected() (models.User, bool) {
	users := u.ctrl.State().Visible()
	i := u.table.Cursor()
	if i < 0 || i >= len(users) {
		return models.User{}, false
	}
	return users[i], true
}

func (u *Users) sync() {
	users := u.ctrl.State().Visible()
	rows := make([]table.Row, 0, len(users))
	for _, usr := range users {
		joined := ""
		if !usr.CreatedAt.IsZero() {
			joined = usr.CreatedAt.Local().Format("2006-01-02")
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(usr.ID, 10),
			usr.Name,
			usr.Email,
			usr.Role.Label(),
			joined,
		})
	}
	u.table.SetRows(rows)
	if n := len(rows); n > 0 && u.table.Cursor() >= n {
		u.table.SetCursor(n - 1)
	}
	if len(rows) == 0 {
		u.table.SetCursor(0)
	}
}

func (u *Users) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.Done:
		u.sync()
		return u, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		u.spinner, cmd = u.spinner.Update(msg)
		return u, cmd
	}

	if u.confirm != nil {
		cmd, done, yes := u.confirm.Update(msg)
		if !done {
			return u, cmd
		}
		id := u.confirm.Target
		u.confirm = nil
		if !yes {
			return u, nil
		}
		return u, u.env.Mutate(u.ctrl, "delete", func(ctx context.Context) error {
			return u.ctrl.Delete(ctx, id)
		})
	}

	if u.ctrl.State().Busy {
		return u, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "r":
			return u, u.env.Run("load", u.ctrl.Load)
		case "f":
			u.filter = (u.filter + 1) % len(roleFilters)
			u.ctrl.SetFilter(roleFilters[u.filter])
			u.sync()
			return u, nil
		case "d", "delete":
			usr, ok := u.selected()
			if !ok {
				return u, nil
			}
			if me := u.env.Session.Snapshot().Identity; me != nil && me.ID == usr.ID {
				// refused without asking
				return u, u.env.Mutate(u.ctrl, "delete", func(ctx context.Context) error {
					return u.ctrl.Delete(ctx, usr.ID)
				})
			}
			u.confirm = screen.NewConfirm("delete", usr.ID,
				fmt.Sprintf("Delete %s?", usr.Name), "Their account is removed permanently.")
			return u, u.confirm.Init()
		}
	}

	var cmd tea.Cmd
	u.table, cmd = u.table.Update(msg)
	return u, cmd
}

func (u *Users) View() string {
	st := u.ctrl.State()
	var sb strings.Builder
	sb.WriteString(screen.Heading(icons.Users, "Manage Users"))
	label := "All roles"
	if st.RoleFilter != "" {
		label = st.RoleFilter.Label() + "s"
	}
	sb.WriteString("  " + styles.Subtitle.Render("showing: "+label))
	sb.WriteString("\n")
	sb.WriteString(screen.Banner(st.Banner))
	if body, ok := screen.Placeholder(st.Status, u.spinner, "users"); !ok {
		sb.WriteString(body)
		return sb.String()
	}
	if u.confirm != nil {
		sb.WriteString(u.confirm.View())
		return sb.String()
	}
	sb.WriteString(screen.Busy(st.Status, u.spinner))
	if len(st.Visible()) == 0 {
		sb.WriteString(screen.Empty("No users found."))
		return sb.String()
	}
	sb.WriteString(u.table.View())
	return sb.String()
}

func (u *Users) Shortcuts() []string {
	if u.confirm != nil {
		return []string{"y Yes", "n No"}
	}
	return []string{"↑↓ Select", "f Filter role", "d Delete", "r Refresh"}
}

func (u *Users) Capturing() bool { return u.confirm != nil }
