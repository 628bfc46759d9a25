// ABOUTME: Tests for the session store
// ABOUTME: Covers restore, logout, forced logout, and out-of-order login completion

package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

type fakeAuth struct {
	resp     *models.AuthResponse
	err      error
	release  chan struct{}
	started  chan struct{}
	regErr   error
	regCalls int
}

func (f *fakeAuth) Login(ctx context.Context, _ models.Credentials) (*models.AuthResponse, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

func (f *fakeAuth) Register(_ context.Context, _ models.Registration) error {
	f.regCalls++
	return f.regErr
}

var (
	alice = models.Identity{ID: 7, Name: "Alice", Email: "alice@example.com", Role: models.RoleCustomer}
	creds = models.Credentials{Email: "alice@example.com", Password: "secret1"}
)

func newTestStore(t *testing.T, auth Authenticator) (*Store, *FileStore) {
	t.Helper()
	fs := NewFileStore(t.TempDir())
	return New(auth, fs, nil), fs
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestNew_StartsLoading(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{})
	assert.Equal(t, StatusLoading, s.Snapshot().Status)
}

func TestRestore_NoRecord(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{})
	require.NoError(t, s.Restore())

	snap := s.Snapshot()
	assert.Equal(t, StatusReady, snap.Status)
	assert.False(t, snap.Authenticated())
}

func TestRestore_ValidRecord(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{})
	tok := signed(t, time.Now().Add(time.Hour))
	require.NoError(t, fs.Save(Record{Token: tok, Identity: &alice}))

	require.NoError(t, s.Restore())

	snap := s.Snapshot()
	require.True(t, snap.Authenticated())
	assert.Equal(t, alice, *snap.Identity)
	assert.Equal(t, tok, snap.Token)
}

func TestRestore_ExpiredTokenDropped(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{})
	require.NoError(t, fs.Save(Record{Token: signed(t, time.Now().Add(-time.Minute)), Identity: &alice}))

	require.NoError(t, s.Restore())

	assert.False(t, s.Snapshot().Authenticated())
	_, err := os.Stat(fs.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "expired record should be removed")
}

func TestRestore_OpaqueTokenKept(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{})
	require.NoError(t, fs.Save(Record{Token: "opaque-token", Identity: &alice}))

	require.NoError(t, s.Restore())
	assert.True(t, s.Snapshot().Authenticated())
}

func TestRestore_HalfRecordDiscarded(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{})
	require.NoError(t, fs.Save(Record{Token: "tok"}))

	require.NoError(t, s.Restore())

	snap := s.Snapshot()
	assert.Nil(t, snap.Identity)
	assert.Empty(t, snap.Token)
	assert.Equal(t, StatusReady, snap.Status)
}

func TestRestore_CorruptFileStillReady(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{})
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0o600))

	err := s.Restore()
	assert.Error(t, err)
	assert.Equal(t, StatusReady, s.Snapshot().Status)
	assert.False(t, s.Snapshot().Authenticated())
}

func TestRestoreThenLogout_LeavesNoRecord(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{})
	require.NoError(t, fs.Save(Record{Token: "tok", Identity: &alice}))

	require.NoError(t, s.Restore())
	require.NoError(t, s.Logout())

	rec, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLogin_StoresAndPersists(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{resp: &models.AuthResponse{Token: "tok", User: alice}})
	require.NoError(t, s.Restore())

	res := s.Login(context.Background(), creds)
	require.True(t, res.OK())
	assert.Equal(t, alice, *res.Identity)

	rec, err := fs.Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "tok", rec.Token)
	assert.Equal(t, alice, *rec.Identity)
}

func TestLogin_FailureKeepsPriorSession(t *testing.T) {
	auth := &fakeAuth{resp: &models.AuthResponse{Token: "tok", User: alice}}
	s, _ := newTestStore(t, auth)
	require.NoError(t, s.Restore())
	require.True(t, s.Login(context.Background(), creds).OK())

	auth.resp = nil
	auth.err = apperrors.FromStatus(401, "Bad credentials")
	res := s.Login(context.Background(), creds)

	require.False(t, res.OK())
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(res.Err))
	assert.Equal(t, "tok", s.Snapshot().Token)
	assert.Equal(t, alice, *s.Snapshot().Identity)
}

func TestLogin_ValidationNeverCallsBackend(t *testing.T) {
	auth := &fakeAuth{started: make(chan struct{})}
	s, _ := newTestStore(t, auth)

	res := s.Login(context.Background(), models.Credentials{Email: "not-an-email"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(res.Err))

	select {
	case <-auth.started:
		t.Fatal("backend called with invalid credentials")
	default:
	}
}

func TestLogin_LateResultAfterLogoutDiscarded(t *testing.T) {
	auth := &fakeAuth{
		resp:    &models.AuthResponse{Token: "late", User: alice},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	s, fs := newTestStore(t, auth)
	require.NoError(t, s.Restore())

	done := make(chan LoginResult, 1)
	go func() { done <- s.Login(context.Background(), creds) }()

	<-auth.started
	require.NoError(t, s.Logout())
	close(auth.release)

	res := <-done
	assert.ErrorIs(t, res.Err, ErrSuperseded)
	assert.False(t, s.Snapshot().Authenticated())

	rec, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLogout_ClearsBothFieldsAndIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{resp: &models.AuthResponse{Token: "tok", User: alice}})
	require.NoError(t, s.Restore())
	require.True(t, s.Login(context.Background(), creds).OK())

	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())

	snap := s.Snapshot()
	assert.Nil(t, snap.Identity)
	assert.Empty(t, snap.Token)
}

func TestInvalidateToken_OnlyCurrentToken(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{resp: &models.AuthResponse{Token: "new", User: alice}})
	require.NoError(t, s.Restore())
	require.True(t, s.Login(context.Background(), creds).OK())

	assert.False(t, s.InvalidateToken("old"))
	assert.True(t, s.Snapshot().Authenticated())

	assert.True(t, s.InvalidateToken("new"))
	assert.False(t, s.Snapshot().Authenticated())
}

func TestInvalidateToken_PendingLoginStillApplies(t *testing.T) {
	auth := &fakeAuth{
		resp:    &models.AuthResponse{Token: "new", User: alice},
		release: make(chan struct{}),
		started: make(chan struct{}),
	}
	s, fs := newTestStore(t, auth)
	require.NoError(t, fs.Save(Record{Token: "old", Identity: &alice}))
	require.NoError(t, s.Restore())

	done := make(chan LoginResult, 1)
	go func() { done <- s.Login(context.Background(), creds) }()

	<-auth.started
	assert.True(t, s.InvalidateToken("old"))
	close(auth.release)

	res := <-done
	require.NoError(t, res.Err)
	assert.Equal(t, "new", s.Snapshot().Token)

	rec, err := fs.Load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "new", rec.Token)
}

func TestUpdateIdentity_KeepsToken(t *testing.T) {
	s, fs := newTestStore(t, &fakeAuth{resp: &models.AuthResponse{Token: "tok", User: alice}})
	require.NoError(t, s.Restore())
	require.True(t, s.Login(context.Background(), creds).OK())

	renamed := alice
	renamed.Name = "Alice Liddell"
	s.UpdateIdentity(renamed)

	assert.Equal(t, "Alice Liddell", s.Snapshot().Identity.Name)
	assert.Equal(t, "tok", s.Snapshot().Token)

	rec, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", rec.Identity.Name)
}

func TestUpdateIdentity_NoSessionIsNoop(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{})
	require.NoError(t, s.Restore())

	s.UpdateIdentity(alice)
	assert.Nil(t, s.Snapshot().Identity)
}

func TestRegister_DoesNotCreateSession(t *testing.T) {
	auth := &fakeAuth{}
	s, _ := newTestStore(t, auth)
	require.NoError(t, s.Restore())

	res := s.Register(context.Background(), models.Registration{
		Name: "Bob", Email: "bob@example.com", Password: "secret1", Role: models.RoleSeller,
	})
	require.True(t, res.OK())
	assert.Equal(t, 1, auth.regCalls)
	assert.False(t, s.Snapshot().Authenticated())
}

func TestSubscribe_ReceivesChanges(t *testing.T) {
	s, _ := newTestStore(t, &fakeAuth{resp: &models.AuthResponse{Token: "tok", User: alice}})

	var got []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	require.NoError(t, s.Restore())
	require.True(t, s.Login(context.Background(), creds).OK())
	cancel()
	require.NoError(t, s.Logout())

	require.Len(t, got, 2)
	assert.False(t, got[0].Authenticated())
	assert.True(t, got[1].Authenticated())
}
