// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes between screens, guards protected routes, and draws the frame

package tui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sony/gobreaker/v2"

	"github.com/markalston/storefront-cli/internal/client"
	"github.com/markalston/storefront-cli/internal/guard"
	"github.com/markalston/storefront-cli/internal/logger"
	"github.com/markalston/storefront-cli/internal/session"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	"github.com/markalston/storefront-cli/internal/tui/shell"
	"github.com/markalston/storefront-cli/internal/tui/styles"
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	frameOverhead    = 4  // header, two newlines, footer
)

const (
	loginRequiredFlash = "Please login to continue"
	loggedOutFlash     = "You have been logged out."
)

// sessionChangedMsg is sent whenever the session store changes
type sessionChangedMsg struct{}

// restoredMsg is sent once the persisted session has been loaded
type restoredMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	api     *client.Client
	session *session.Store
	logger  *slog.Logger
	routes  []Route

	width  int
	height int

	path   string
	route  Route
	params screen.Params
	// flash waits here until the next mount picks it up
	flash string

	current screen.Screen
	variant shell.Variant
	mount   uint64
	ctx     context.Context
	stop    context.CancelFunc
	cancel  context.CancelFunc
}

// New creates a new TUI application. The store must not be restored yet;
// Init does that so the loading state is visible.
func New(api *client.Client, store *session.Store, log *slog.Logger) *App {
	return newApp(api, store, log, DefaultRoutes())
}

func newApp(api *client.Client, store *session.Store, log *slog.Logger, routes []Route) *App {
	if log == nil {
		log = logger.Discard()
	}
	ctx, stop := context.WithCancel(context.Background())
	return &App{
		api:     api,
		session: store,
		logger:  log,
		routes:  routes,
		path:    "/",
		ctx:     ctx,
		stop:    stop,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	store := a.session
	restore := func() tea.Msg {
		return restoredMsg{err: store.Restore()}
	}
	return tea.Batch(restore, a.navigate("/", ""))
}

// Close cancels any in-flight work of the mounted screen
func (a *App) Close() {
	a.leave()
	a.stop()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.forward(tea.WindowSizeMsg{Width: a.frameWidth(), Height: a.contentHeight()})

	case restoredMsg:
		if msg.err != nil {
			a.logger.Warn("session restore failed", "error", msg.err)
		}
		return a, a.settle()

	case sessionChangedMsg:
		return a, a.sessionChanged()

	case screen.NavigateMsg:
		return a, a.navigate(msg.Route, msg.Flash)

	case screen.Done:
		if a.current == nil || msg.Mount != a.mount {
			a.logger.Debug("dropping result from unmounted screen", "op", msg.Op, "mount", msg.Mount)
			return a, nil
		}
		if msg.Err != nil {
			a.logger.Debug("screen operation failed", "op", msg.Op, "path", a.path, "error", msg.Err)
		}
		return a, a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.current == nil || !a.current.Capturing() {
			if msg.String() == "q" {
				return a, tea.Quit
			}
			if link, ok := shell.LinkForKey(shell.VariantFor(a.session.Snapshot()), msg.String()); ok {
				return a, a.follow(link)
			}
		}
		return a, a.forward(msg)
	}

	// spinner ticks and huh internals
	return a, a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	if a.current == nil {
		return nil
	}
	next, cmd := a.current.Update(msg)
	a.current = next
	return cmd
}

func (a *App) follow(link shell.Link) tea.Cmd {
	if link.Route != shell.LogoutRoute {
		return a.navigate(link.Route, "")
	}
	a.logger.Info("logging out", "path", a.path)
	a.flash = loggedOutFlash
	if err := a.session.Logout(); err != nil {
		a.logger.Warn("logout left a persisted session behind", "error", err)
	}
	return a.sessionChanged()
}

// navigate leaves the current screen and settles on path
func (a *App) navigate(path, flash string) tea.Cmd {
	route, params, ok := match(a.routes, path)
	if !ok {
		route, params = notFoundRoute, screen.Params{}
	}
	a.leave()
	a.path, a.route, a.params = path, route, params
	a.flash = flash
	return a.settle()
}

// settle applies the guard to the current route. Nothing is mounted while
// the session is loading.
func (a *App) settle() tea.Cmd {
	switch guard.Check(a.session.Snapshot(), a.route.Rule) {
	case guard.DecisionRedirect:
		flash := a.flash
		if flash == "" {
			flash = loginRequiredFlash
		}
		a.logger.Info("route guarded", "path", a.path)
		return a.navigate(guard.LoginRoute, flash)
	case guard.DecisionRender:
		if a.current == nil {
			return a.mountCurrent()
		}
	}
	return nil
}

func (a *App) sessionChanged() tea.Cmd {
	snap := a.session.Snapshot()
	if snap.Authenticated() && (a.path == guard.LoginRoute || a.path == "/register") {
		return a.navigate(homeFor(snap.Role()), "")
	}
	if a.current != nil && shell.VariantFor(snap) != a.variant {
		// the mounted screen was built for someone else
		a.leave()
	}
	return a.settle()
}

func (a *App) mountCurrent() tea.Cmd {
	a.mount++
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel

	env := screen.Env{
		Ctx:     ctx,
		Mount:   a.mount,
		API:     a.api,
		Session: a.session,
		Logger:  a.logger.With("path", a.path),
		Path:    a.path,
		Params:  a.params,
		Flash:   a.flash,
		Width:   a.frameWidth(),
		Height:  a.contentHeight(),
	}
	a.flash = ""
	a.variant = shell.VariantFor(a.session.Snapshot())
	a.current = a.route.New(env)
	a.logger.Debug("mounted screen", "path", a.path, "mount", a.mount)
	return a.current.Init()
}

// leave cancels the mounted screen's context and forgets it
func (a *App) leave() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.current = nil
}

// View implements tea.Model
func (a *App) View() string {
	snap := a.session.Snapshot()

	var content string
	switch guard.Check(snap, a.route.Rule) {
	case guard.DecisionLoading:
		content = styles.Subtitle.Render("Loading...")
	case guard.DecisionRedirect:
		content = styles.Subtitle.Render("Redirecting to login...")
	default:
		if a.current != nil {
			content = a.current.View()
		} else {
			content = styles.Subtitle.Render("Loading...")
		}
	}

	return a.wrapWithFrame(snap, content)
}

// frameWidth is one less than the terminal so the frame never wraps, but
// never below the minimum
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

func (a *App) contentHeight() int {
	return max(10, a.height-frameOverhead)
}

func (a *App) shortcuts() []string {
	var out []string
	if a.current != nil {
		out = append(out, a.current.Shortcuts()...)
	}
	if a.current == nil || !a.current.Capturing() {
		out = append(out, "1-9 Navigate", "q Quit")
	}
	return out
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Warning)

	rightText, rightPlain := "", ""
	if a.api != nil && a.api.BreakerState() == gobreaker.StateOpen {
		rightPlain = " backend unavailable "
		rightText = statusStyle.Render(rightPlain)
	}

	// drop shortcuts from the end until the line fits
	shortcuts := a.shortcuts()
	room := width - 4 - lipgloss.Width(rightPlain) // -4 for ╰─ and ─╯
	for len(shortcuts) > 0 && lipgloss.Width(" "+strings.Join(shortcuts, "  ")+" ") > room {
		shortcuts = shortcuts[:len(shortcuts)-1]
	}

	var styled []string
	for _, s := range shortcuts {
		key, label, ok := strings.Cut(s, " ")
		if ok {
			styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlain := " " + strings.Join(shortcuts, "  ") + " "
	fillWidth := max(0, room-lipgloss.Width(leftPlain))

	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fillWidth)) + rightText + borderStyle.Render("─╯")
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(snap session.Snapshot, content string) string {
	var sb strings.Builder

	sb.WriteString(shell.View(snap, a.path, a.frameWidth()))
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(api *client.Client, store *session.Store, log *slog.Logger) error {
	app := New(api, store, log)
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())

	// Send blocks while Update runs, and logout notifies from inside Update
	unsubscribe := store.Subscribe(func(session.Snapshot) {
		go p.Send(sessionChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
