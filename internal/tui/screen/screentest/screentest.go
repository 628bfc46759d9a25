// ABOUTME: Test support for screens: an httptest backend with hit counts,
// ABOUTME: a signed-in Env, and a synchronous command driver

package screentest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/storefront-cli/internal/client"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
	"github.com/markalston/storefront-cli/internal/tui/screen"
)

// Token is the bearer token of sessions created by Env
const Token = "test-token"

// Backend is a fake storefront API. Routes use net/http method patterns
// relative to /api, for example "GET /cart" or "DELETE /cart/remove/{id}".
type Backend struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// NewBackend starts a backend serving routes. Unknown paths return 404.
func NewBackend(t testing.TB, routes map[string]http.HandlerFunc) *Backend {
	t.Helper()
	b := &Backend{hits: make(map[string]int)}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		method, path, _ := strings.Cut(pattern, " ")
		key, handler := pattern, h
		mux.HandleFunc(method+" /api"+path, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.hits[key]++
			b.mu.Unlock()
			handler(w, r)
		})
	}
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

// Hits returns how many requests matched pattern
func (b *Backend) Hits(pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[pattern]
}

// JSON responds 200 with v encoded as JSON
func JSON(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

// Status responds with code and an error body carrying message
func Status(code int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"message": message})
	}
}

// OK responds 200 with an empty body
func OK(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// NewClient returns a client for b
func NewClient(b *Backend) *client.Client {
	return client.New(b.URL + "/api")
}

// NewSession creates a restored store persisted under a temp dir. A nil
// identity leaves it anonymous.
func NewSession(t testing.TB, api *client.Client, id *models.Identity) *session.Store {
	t.Helper()
	fs := session.NewFileStore(t.TempDir())
	if id != nil {
		if err := fs.Save(session.Record{Token: Token, Identity: id}); err != nil {
			t.Fatalf("saving session: %v", err)
		}
	}
	store := session.New(api, fs, nil)
	api.BindSession(store)
	if err := store.Restore(); err != nil {
		t.Fatalf("restoring session: %v", err)
	}
	return store
}

// Env builds a mount environment against b
func Env(t testing.TB, b *Backend, id *models.Identity) screen.Env {
	t.Helper()
	api := NewClient(b)
	return screen.Env{
		Ctx:     context.Background(),
		Mount:   1,
		API:     api,
		Session: NewSession(t, api, id),
		Params:  screen.Params{},
		Width:   100,
		Height:  30,
	}
}

// Customer, Seller, and Admin are ready-made identities
var (
	Customer = &models.Identity{ID: 7, Name: "Casey", Email: "casey@example.com", Role: models.RoleCustomer}
	Seller   = &models.Identity{ID: 3, Name: "Sam", Email: "sam@example.com", Role: models.RoleSeller}
	Admin    = &models.Identity{ID: 1, Name: "Alex", Email: "alex@example.com", Role: models.RoleAdmin}
)

// Result is what Drive observed
type Result struct {
	Screen   screen.Screen
	Navigate []screen.NavigateMsg
	Done     []screen.Done
}

// LastRoute returns the last navigation target, or ""
func (r Result) LastRoute() string {
	if len(r.Navigate) == 0 {
		return ""
	}
	return r.Navigate[len(r.Navigate)-1].Route
}

// Drive runs cmd and every command it leads to. Done results are fed back
// into s; navigations are recorded. Other messages are dropped so timers
// such as spinner ticks never run.
func Drive(s screen.Screen, cmd tea.Cmd) Result {
	r := Result{Screen: s}
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := Exec(next).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case screen.Done:
			r.Done = append(r.Done, msg)
			var follow tea.Cmd
			r.Screen, follow = r.Screen.Update(msg)
			queue = append(queue, follow)
		case screen.NavigateMsg:
			r.Navigate = append(r.Navigate, msg)
		}
	}
	return r
}

// Key sends a key press to s and drives the resulting command
func Key(s screen.Screen, key string) Result {
	next, cmd := s.Update(KeyMsg(key))
	return Drive(next, cmd)
}

// KeyMsg builds the tea message for a key name such as "a", "enter" or "esc"
func KeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// Exec runs cmd, giving up on commands that wait on a timer
func Exec(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		return nil
	}
}
