// ABOUTME: Authentication endpoints
// ABOUTME: Login accepts both nested and flat user shapes in the token response

package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/markalston/storefront-cli/internal/models"
)

type loginResponse struct {
	Token string           `json:"token"`
	User  *models.Identity `json:"user"`

	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (r loginResponse) identity() models.Identity {
	if r.User != nil {
		return *r.User
	}
	return models.Identity{ID: r.ID, Name: r.Name, Email: r.Email, Role: r.Role}
}

// Login calls POST /auth/login. Login never sends an existing token, so a
// failed attempt cannot revoke the current session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp loginResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds, public: true}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("invalid response from backend: missing token")
	}
	return &models.AuthResponse{Token: resp.Token, User: resp.identity()}, nil
}

// Register calls POST /auth/register
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: reg, public: true}, nil)
}
