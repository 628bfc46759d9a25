// ABOUTME: Shared plumbing for page controllers
// ABOUTME: Banner state, session access, and a mutex-guarded state holder

package pages

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
)

// ErrLoginRequired is returned when an anonymous visitor tries a customer action
var ErrLoginRequired = errors.New("login required")

// SessionReader is read-only access to the current session
type SessionReader interface {
	Snapshot() session.Snapshot
}

// BannerKind is the tone of an in-page message
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
	BannerInfo
)

// Banner is an in-page message shown above the content
type Banner struct {
	Kind BannerKind
	Text string
}

// Status is the loading and message state every page carries
type Status struct {
	// Loading is true until the first fetch resolves
	Loading bool
	// Busy is true while a mutation is in flight; input is ignored
	Busy bool
	// LoadErr is set when the primary fetch failed; content is not shown
	LoadErr string
	Banner  Banner
}

func (s *Status) status() *Status { return s }

func success(text string) Banner { return Banner{Kind: BannerSuccess, Text: text} }
func info(text string) Banner    { return Banner{Kind: BannerInfo, Text: text} }

// failure logs err and converts it to an error banner
func failure(logger *slog.Logger, op string, err error, m apperrors.Messages) Banner {
	logger.Warn(op+" failed", "error", err, "kind", apperrors.KindOf(err).String())
	return Banner{Kind: BannerError, Text: apperrors.UserMessage(err, m)}
}

// page holds controller state behind a mutex. Controllers run their calls
// on tea.Cmd goroutines while the UI reads State from the event loop.
type page[S any] struct {
	mu    sync.Mutex
	state S
}

// State returns a copy of the page state. Slices are replaced wholesale on
// every fetch and never mutated in place, so sharing them is safe.
func (p *page[S]) State() S {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *page[S]) update(fn func(*S)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
}

// Begin marks a mutation as in flight from the event loop, before its
// command runs. It reports false if one already is, so the caller drops
// the input.
func (p *page[S]) Begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.status()
	if st.Busy {
		return false
	}
	st.Busy = true
	return true
}

// End releases the mark taken by Begin
func (p *page[S]) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status().Busy = false
}

// status reaches the Status every page state embeds. Caller holds mu.
func (p *page[S]) status() *Status {
	return any(&p.state).(interface{ status() *Status }).status()
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

// isCustomer reports whether the session belongs to a signed-in customer
func isCustomer(s SessionReader) bool {
	snap := s.Snapshot()
	return snap.Authenticated() && snap.Role() == models.RoleCustomer
}
