// ABOUTME: Profile editing for any signed-in role
// ABOUTME: Saved values come back from the server and replace the session identity

package pages

import (
	"context"
	"log/slog"
	"strings"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/validate"
)

// ProfileAPI is what the profile page needs from the backend
type ProfileAPI interface {
	UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error)
}

// IdentityUpdater is the session write used after a confirmed profile edit
type IdentityUpdater interface {
	SessionReader
	UpdateIdentity(models.Identity)
}

// ProfileState is what the profile screen renders
type ProfileState struct {
	Status
	Identity *models.Identity
}

// Profile drives /profile
type Profile struct {
	page[ProfileState]
	api     ProfileAPI
	session IdentityUpdater
	logger  *slog.Logger
}

// NewProfile creates a profile controller seeded from the session
func NewProfile(api ProfileAPI, s IdentityUpdater, logger *slog.Logger) *Profile {
	p := &Profile{api: api, session: s, logger: loggerOr(logger)}
	p.state.Identity = s.Snapshot().Identity
	return p
}

// Save sends the edit and, on success, replaces the session identity
func (p *Profile) Save(ctx context.Context, in models.UserUpdate) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		p.update(func(s *ProfileState) { s.Banner = Banner{Kind: BannerError, Text: apperrors.UserMessage(err, apperrors.Messages{})} })
		return err
	}

	current := p.session.Snapshot().Identity
	if current == nil {
		p.update(func(s *ProfileState) { s.Banner = info("Please login to edit your profile") })
		return ErrLoginRequired
	}

	p.update(func(s *ProfileState) { s.Busy = true })
	user, err := p.api.UpdateUser(ctx, current.ID, in)
	if err == nil {
		p.session.UpdateIdentity(confirmedIdentity(*current, in, user))
	}
	p.update(func(s *ProfileState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(p.logger, "update profile", err, apperrors.Messages{Default: "Failed to update profile"})
			return
		}
		s.Identity = p.session.Snapshot().Identity
		s.Banner = success("Profile updated successfully!")
	})
	return err
}

// confirmedIdentity prefers what the server echoed, field by field, and
// falls back to the submitted values for anything it left out
func confirmedIdentity(current models.Identity, in models.UserUpdate, user *models.User) models.Identity {
	id := models.Identity{ID: current.ID, Name: in.Name, Email: in.Email, Role: current.Role}
	if user == nil {
		return id
	}
	if user.ID != 0 {
		id.ID = user.ID
	}
	if user.Name != "" {
		id.Name = user.Name
	}
	if user.Email != "" {
		id.Email = user.Email
	}
	if user.Role != "" {
		id.Role = user.Role
	}
	return id
}
