// ABOUTME: Session store holding the current identity and bearer token
// ABOUTME: Serializes writes, persists through to disk, and discards out-of-order logins

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/validate"
)

// ErrSuperseded reports a login whose result arrived after a later logout or login
var ErrSuperseded = errors.New("login superseded by a later session change")

// Status is the store's lifecycle state
type Status int

const (
	StatusLoading Status = iota
	StatusReady
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "loading"
}

// Snapshot is a read-only copy of the session
type Snapshot struct {
	Identity *models.Identity
	Token    string
	Status   Status
}

// Authenticated reports whether a session exists
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusReady && s.Identity != nil && s.Token != ""
}

// Role returns the identity's role, or "" when anonymous
func (s Snapshot) Role() models.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Authenticator performs the backend auth calls
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) error
}

// LoginResult carries the resolved identity so callers can route immediately
type LoginResult struct {
	Identity *models.Identity
	Err      error
}

// OK reports success
func (r LoginResult) OK() bool { return r.Err == nil && r.Identity != nil }

// RegisterResult signals registration success or failure only
type RegisterResult struct {
	Err error
}

// OK reports success
func (r RegisterResult) OK() bool { return r.Err == nil }

// Store is the single source of truth for the current user
type Store struct {
	auth    Authenticator
	persist Persister
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	identity *models.Identity
	token    string
	status   Status
	epoch    uint64
	subs     map[int]func(Snapshot)
	nextSub  int
}

// New creates a store in the loading state. Call Restore once at startup.
func New(auth Authenticator, persist Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		auth:    auth,
		persist: persist,
		logger:  logger,
		now:     time.Now,
		status:  StatusLoading,
		subs:    make(map[int]func(Snapshot)),
	}
}

// Restore loads the persisted session. The store is Ready afterwards whatever
// the outcome; the returned error is informational.
func (s *Store) Restore() error {
	s.mu.Lock()
	rec, err := s.persist.Load()
	switch {
	case err != nil:
		s.logger.Warn("discarding unreadable session", "error", err)
		s.clearPersistedLocked()
	case rec == nil:
	case !rec.complete():
		s.logger.Warn("discarding incomplete session record")
		s.clearPersistedLocked()
	case s.expired(rec.Token):
		s.logger.Info("persisted session expired", "user_id", rec.Identity.ID)
		s.clearPersistedLocked()
	default:
		id := *rec.Identity
		s.identity = &id
		s.token = rec.Token
		s.logger.Info("session restored", "user_id", id.ID, "role", id.Role)
	}
	s.status = StatusReady
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// expired reads the exp claim without verifying the signature. Tokens that
// are not JWTs are kept; the backend rejects them with 401 if stale.
func (s *Store) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

// Login authenticates and, on success, establishes and persists the session.
// A failed login leaves any prior session untouched.
func (s *Store) Login(ctx context.Context, creds models.Credentials) LoginResult {
	if err := validate.Struct(creds); err != nil {
		return LoginResult{Err: err}
	}

	s.mu.Lock()
	s.epoch++
	issued := s.epoch
	s.mu.Unlock()

	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.logger.Info("login failed", "email", creds.Email, "error", err)
		return LoginResult{Err: err}
	}
	if resp == nil || resp.Token == "" || resp.User.ID == 0 {
		return LoginResult{Err: errors.New("login response missing token or user")}
	}

	s.mu.Lock()
	if s.epoch != issued {
		s.mu.Unlock()
		s.logger.Info("discarding superseded login", "email", creds.Email)
		return LoginResult{Err: ErrSuperseded}
	}
	id := resp.User
	s.identity = &id
	s.token = resp.Token
	s.status = StatusReady
	s.saveLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("logged in", "user_id", id.ID, "role", id.Role)
	s.notify(snap)
	out := id
	return LoginResult{Identity: &out}
}

// Register creates an account. It never establishes a session.
func (s *Store) Register(ctx context.Context, reg models.Registration) RegisterResult {
	if err := validate.Struct(reg); err != nil {
		return RegisterResult{Err: err}
	}
	if err := s.auth.Register(ctx, reg); err != nil {
		s.logger.Info("registration failed", "email", reg.Email, "error", err)
		return RegisterResult{Err: err}
	}
	s.logger.Info("registered", "email", reg.Email, "role", reg.Role)
	return RegisterResult{}
}

// Logout clears memory and the persisted record. Calling it twice is harmless.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.epoch++
	err := s.logoutLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return err
}

// InvalidateToken logs out only if token is still the current one, so a
// late 401 for an old token cannot end a newer session. It leaves the epoch
// alone: a login the user started in the meantime still applies.
func (s *Store) InvalidateToken(token string) bool {
	s.mu.Lock()
	if token == "" || token != s.token {
		s.mu.Unlock()
		return false
	}
	if err := s.logoutLocked(); err != nil {
		s.logger.Warn("forced logout could not remove session file", "error", err)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("session invalidated by backend")
	s.notify(snap)
	return true
}

// UpdateIdentity replaces the identity with server-confirmed values and keeps the token
func (s *Store) UpdateIdentity(id models.Identity) {
	s.mu.Lock()
	if s.identity == nil || s.token == "" {
		s.mu.Unlock()
		return
	}
	s.identity = &id
	s.saveLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current bearer token, or ""
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn to receive every snapshot after a change.
// fn runs on the goroutine that made the change.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) logoutLocked() error {
	s.identity = nil
	s.token = ""
	s.status = StatusReady
	return s.clearPersistedLocked()
}

func (s *Store) saveLocked() {
	if err := s.persist.Save(Record{Token: s.token, Identity: s.identity}); err != nil {
		s.logger.Warn("session not persisted", "error", err)
	}
}

func (s *Store) clearPersistedLocked() error {
	if err := s.persist.Clear(); err != nil {
		s.logger.Warn("removing persisted session", "error", err)
		return err
	}
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Token: s.token, Status: s.status}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
