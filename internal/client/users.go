// ABOUTME: User account endpoints

package client

import (
	"context"
	"net/http"

	"github.com/markalston/storefront-cli/internal/models"
)

// Users calls GET /users
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser calls PUT /users/:id and returns the server-confirmed account
func (c *Client) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/users", id), body: in}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser calls DELETE /users/:id
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/users", id)}, nil)
}
