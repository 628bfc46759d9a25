// ABOUTME: Shared output, exit codes, and confirmation for subcommands

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/guard"
	"github.com/markalston/storefront-cli/internal/models"
)

// Exit codes
const (
	exitOK          = 0
	exitRejected    = 1 // the backend or a local check said no
	exitUnavailable = 2 // backend unreachable, failing, or misconfigured
)

// exitCode maps an error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) && (apiErr.Kind == apperrors.KindTransport || apiErr.Kind == apperrors.KindUnknown) {
		return exitUnavailable
	}
	return exitRejected
}

// fail reports err the way the TUI banner would and returns its exit code
func fail(w io.Writer, err error, m apperrors.Messages) int {
	msg := apperrors.UserMessage(err, m)
	if IsJSONOutput() {
		writeJSON(w, map[string]string{"error": msg, "kind": apperrors.KindOf(err).String()})
	} else {
		fmt.Fprintf(w, "Error: %s\n", msg)
	}
	return exitCode(err)
}

// reject reports a local refusal that never reached the backend
func reject(w io.Writer, msg string) int {
	return fail(w, apperrors.Validation(msg), apperrors.Messages{})
}

func writeJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// render writes v as JSON, or the human form
func render(w io.Writer, v any, human func() string) {
	if IsJSONOutput() {
		writeJSON(w, v)
		return
	}
	fmt.Fprintln(w, human())
}

// done prints a success line, or {"ok": true, "message": ...} in JSON mode
func done(w io.Writer, msg string) int {
	render(w, map[string]any{"ok": true, "message": msg}, func() string { return msg })
	return exitOK
}

// requireRole refuses unless the saved session has one of roles
func requireRole(d *deps, w io.Writer, roles ...models.Role) int {
	snap := d.store.Snapshot()
	if guard.Evaluate(snap, guard.Rule{Roles: roles}) == guard.DecisionRender {
		return exitOK
	}
	if !snap.Authenticated() {
		return fail(w, &apperrors.APIError{Kind: apperrors.KindUnauthenticated, Message: "Not logged in. Run 'storefront login' first."}, apperrors.Messages{})
	}
	return fail(w, &apperrors.APIError{Kind: apperrors.KindForbidden}, apperrors.Messages{
		Forbidden: fmt.Sprintf("This command is not available to %s accounts.", snap.Role().Label()),
	})
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(fmt.Sprintf("%s must be a positive number, got %q", what, s))
	}
	return id, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// newTable builds a plain bordered table for list output
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...)
}

// confirmFn asks before destructive actions when --yes is absent
var confirmFn = func(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok).Run()
	return ok, err
}

// confirmed reports whether to go ahead. A failed prompt (no terminal)
// counts as a no.
func confirmed(w io.Writer, yes bool, title string) bool {
	if yes {
		return true
	}
	ok, err := confirmFn(title)
	if err != nil {
		fmt.Fprintln(w, "Not confirmed; pass --yes to skip the prompt.")
		return false
	}
	return ok
}
