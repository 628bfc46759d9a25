// ABOUTME: Order endpoints for customers and administrators

package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/markalston/storefront-cli/internal/models"
)

// PlaceOrder calls POST /orders/place with the current cart
func (c *Client) PlaceOrder(ctx context.Context) (*models.Order, error) {
	var o models.Order
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders/place"}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// MyOrders calls GET /orders/my
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/my"}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AllOrders calls GET /orders/all
func (c *Client) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/all"}, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder calls PUT /orders/cancel/:id
func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodPut, path: idPath("/orders/cancel", id)}, nil)
}

// UpdateOrderStatus calls PUT /orders/status/:id?status
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	q := url.Values{}
	q.Set("status", string(status))
	return c.do(ctx, request{method: http.MethodPut, path: idPath("/orders/status", id), query: q}, nil)
}
