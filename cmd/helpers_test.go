// ABOUTME: Shared fixtures for command tests: a fake backend and a saved session

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/markalston/storefront-cli/internal/client"
	"github.com/markalston/storefront-cli/internal/logger"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
)

var (
	customer = &models.Identity{ID: 7, Name: "Casey", Email: "casey@example.com", Role: models.RoleCustomer}
	admin    = &models.Identity{ID: 1, Name: "Alex", Email: "alex@example.com", Role: models.RoleAdmin}
)

// backend counts requests per "METHOD /path" pattern
type backend struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func (b *backend) count(pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[pattern]
}

// newTestDeps wires deps against a fake backend. Patterns are relative to /api.
func newTestDeps(t *testing.T, routes map[string]http.HandlerFunc, id *models.Identity) (*deps, *backend) {
	t.Helper()
	b := &backend{hits: map[string]int{}}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		method, path, _ := strings.Cut(pattern, " ")
		mux.HandleFunc(method+" /api"+path, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.hits[pattern]++
			b.mu.Unlock()
			h(w, r)
		})
	}
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)

	fs := session.NewFileStore(t.TempDir())
	if id != nil {
		require.NoError(t, fs.Save(session.Record{Token: "cli-token", Identity: id}))
	}
	api := client.New(b.URL + "/api")
	store := session.New(api, fs, nil)
	api.BindSession(store)
	require.NoError(t, store.Restore())

	return &deps{api: api, store: store, logger: logger.Discard()}, b
}

func reply(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

func replyStatus(code int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"message": message})
	}
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

// withJSON turns on --json for one test
func withJSON(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}

// answer stubs the confirmation prompt
func answer(t *testing.T, yes bool) *int {
	t.Helper()
	asked := 0
	prev := confirmFn
	confirmFn = func(string) (bool, error) {
		asked++
		return yes, nil
	}
	t.Cleanup(func() { confirmFn = prev })
	return &asked
}
