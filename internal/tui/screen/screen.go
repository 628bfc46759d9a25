// ABOUTME: Contract between the router and the screens it mounts
// ABOUTME: Each mount gets its own context and id; results from old mounts are dropped

package screen

import (
	"context"
	"log/slog"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/client"
	"github.com/markalston/storefront-cli/internal/session"
)

// Screen is one mounted page. A screen is built fresh on every navigation
// and discarded when the user leaves.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	// Shortcuts lists "key label" pairs for the footer
	Shortcuts() []string
	// Capturing is true while a text field has focus, so the router leaves
	// digit and letter keys alone
	Capturing() bool
}

// Params holds the values of ":name" segments in the matched route
type Params map[string]string

// ID parses the named parameter as a positive integer
func (p Params) ID(name string) (int64, bool) {
	id, err := strconv.ParseInt(p[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Env is what a screen gets from the router at mount time
type Env struct {
	// Ctx is cancelled when the screen is left
	Ctx     context.Context
	Mount   uint64
	API     *client.Client
	Session *session.Store
	Logger  *slog.Logger
	Path    string
	Params  Params
	// Flash is a one-shot message carried across a navigation
	Flash  string
	Width  int
	Height int
}

// Done reports that a backend call started by a screen has finished.
// The router drops it unless Mount is still the mounted screen.
type Done struct {
	Mount uint64
	Op    string
	Err   error
}

// Run performs fn off the event loop and reports back with Done
func (e Env) Run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx, mount := e.Ctx, e.Mount
	return func() tea.Msg {
		return Done{Mount: mount, Op: op, Err: fn(ctx)}
	}
}

// Mutator is a page controller that allows one mutation at a time
type Mutator interface {
	Begin() bool
	End()
}

// Mutate is Run for calls that change server state. The controller is marked
// busy before the command is returned, so a second key press that arrives
// before the first call starts is dropped and yields no command.
func (e Env) Mutate(m Mutator, op string, fn func(ctx context.Context) error) tea.Cmd {
	if !m.Begin() {
		return nil
	}
	return e.Run(op, func(ctx context.Context) error {
		defer m.End()
		return fn(ctx)
	})
}

// NavigateMsg asks the router to move to Route
type NavigateMsg struct {
	Route string
	Flash string
}

// Navigate returns a command that moves to route
func Navigate(route string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

// NavigateWithFlash moves to route and shows flash there once
func NavigateWithFlash(route, flash string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route, Flash: flash} }
}

// FormWidth is the width forms render at on this mount
func (e Env) FormWidth() int {
	return min(60, max(40, e.Width))
}
