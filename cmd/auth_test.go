package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/validate"
)

func TestRunLogin_SavesSession(t *testing.T) {
	d, b := newTestDeps(t, map[string]http.HandlerFunc{
		"POST /auth/login": reply(map[string]any{"token": "fresh", "user": customer}),
	}, nil)
	var out bytes.Buffer

	code := runLogin(context.Background(), d, &out, models.Credentials{Email: " casey@example.com ", Password: "secret1"})

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "Logged in as Casey (Customer)")
	assert.Equal(t, "fresh", d.store.Token())
	assert.Equal(t, 1, b.count("POST /auth/login"))
}

func TestRunLogin_BadPasswordIsRejected(t *testing.T) {
	d, _ := newTestDeps(t, map[string]http.HandlerFunc{
		"POST /auth/login": replyStatus(http.StatusUnauthorized, "Bad credentials"),
	}, nil)
	var out bytes.Buffer

	code := runLogin(context.Background(), d, &out, models.Credentials{Email: "casey@example.com", Password: "wrong"})

	assert.Equal(t, exitRejected, code)
	assert.Contains(t, out.String(), "Invalid email or password")
	assert.False(t, d.store.Snapshot().Authenticated())
}

func TestRunLogin_InvalidEmailNeverSent(t *testing.T) {
	d, b := newTestDeps(t, map[string]http.HandlerFunc{
		"POST /auth/login": reply(map[string]any{"token": "fresh", "user": customer}),
	}, nil)
	var out bytes.Buffer

	code := runLogin(context.Background(), d, &out, models.Credentials{Email: "not-an-email", Password: "pw"})

	assert.Equal(t, exitRejected, code)
	assert.Zero(t, b.count("POST /auth/login"))
}

func TestRunLogin_BackendDown(t *testing.T) {
	d, b := newTestDeps(t, nil, nil)
	b.Close()
	var out bytes.Buffer

	code := runLogin(context.Background(), d, &out, models.Credentials{Email: "casey@example.com", Password: "pw"})

	assert.Equal(t, exitUnavailable, code)
	assert.Contains(t, out.String(), "Cannot reach the store")
}

func TestRunLogout(t *testing.T) {
	d, _ := newTestDeps(t, nil, customer)
	var out bytes.Buffer

	code := runLogout(d, &out)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "logged out")
	assert.False(t, d.store.Snapshot().Authenticated())
}

func TestRunRegister(t *testing.T) {
	form := validate.RegisterForm{
		Name: "Sam", Email: "sam@example.com", Password: "secret1", ConfirmPassword: "secret1", Role: "SELLER",
	}

	t.Run("success leaves the user signed out", func(t *testing.T) {
		d, b := newTestDeps(t, map[string]http.HandlerFunc{"POST /auth/register": ok}, nil)
		var out bytes.Buffer

		code := runRegister(context.Background(), d, &out, form)

		assert.Equal(t, exitOK, code)
		assert.Contains(t, out.String(), "Registration successful! Please login.")
		assert.Equal(t, 1, b.count("POST /auth/register"))
		assert.False(t, d.store.Snapshot().Authenticated())
	})

	t.Run("admin accounts are refused locally", func(t *testing.T) {
		d, b := newTestDeps(t, map[string]http.HandlerFunc{"POST /auth/register": ok}, nil)
		bad := form
		bad.Role = "ADMIN"
		var out bytes.Buffer

		code := runRegister(context.Background(), d, &out, bad)

		assert.Equal(t, exitRejected, code)
		assert.Zero(t, b.count("POST /auth/register"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		d, _ := newTestDeps(t, map[string]http.HandlerFunc{
			"POST /auth/register": replyStatus(http.StatusConflict, "Email already registered"),
		}, nil)
		var out bytes.Buffer

		code := runRegister(context.Background(), d, &out, form)

		assert.Equal(t, exitRejected, code)
		assert.Contains(t, out.String(), "Email already registered")
	})
}

func TestRunWhoami(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		d, _ := newTestDeps(t, nil, nil)
		var out bytes.Buffer

		assert.Equal(t, exitRejected, runWhoami(d, &out))
		assert.Contains(t, out.String(), "Not logged in")
	})

	t.Run("json", func(t *testing.T) {
		withJSON(t)
		d, _ := newTestDeps(t, nil, admin)
		var out bytes.Buffer

		require.Equal(t, exitOK, runWhoami(d, &out))
		var got models.Identity
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, *admin, got)
	})
}
