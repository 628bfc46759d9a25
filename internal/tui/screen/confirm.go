// ABOUTME: Yes/no confirmation dialog guarding destructive actions

package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question before a destructive action. Target and
// Action identify what was asked so the caller can act on the answer.
type Confirm struct {
	Action string
	Target int64

	form     *huh.Form
	accepted bool
}

// NewConfirm builds a dialog that defaults to "No"
func NewConfirm(action string, target int64, title, description string) *Confirm {
	c := &Confirm{Action: action, Target: target}
	c.form = NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&c.accepted),
	)).WithShowHelp(false)
	return c
}

// Init starts the dialog
func (c *Confirm) Init() tea.Cmd {
	return c.form.Init()
}

// Update feeds msg to the dialog. done is true once it closed; accepted
// is the answer. y and n answer at once; esc closes it with "No".
func (c *Confirm) Update(msg tea.Msg) (cmd tea.Cmd, done, accepted bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			return nil, true, true
		case "n", "N", "esc":
			return nil, true, false
		}
	}
	c.form, cmd = UpdateForm(c.form, msg)
	switch c.form.State {
	case huh.StateCompleted:
		return cmd, true, c.accepted
	case huh.StateAborted:
		return cmd, true, false
	}
	return cmd, false, false
}

// View renders the dialog
func (c *Confirm) View() string {
	return c.form.View()
}

// Focus tracks whether a form owns the keyboard. Esc hands keys back to
// the router for navigation; enter takes them again.
type Focus struct {
	released bool
}

// Key consumes focus-changing keys. It returns true when msg must not
// reach the form.
func (f *Focus) Key(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false
	}
	switch key.String() {
	case "esc":
		f.released = !f.released
		return true
	case "enter":
		if f.released {
			f.released = false
			return true
		}
	}
	return f.released
}

// Active reports whether the form has the keyboard
func (f Focus) Active() bool { return !f.released }
