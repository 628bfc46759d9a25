// ABOUTME: Cart and wishlist endpoints for customers
// ABOUTME: Mutations return no data; callers re-fetch the authoritative state

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/markalston/storefront-cli/internal/models"
)

// Cart calls GET /cart
func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, request{method: http.MethodGet, path: "/cart"}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart calls POST /cart/add?productId&quantity
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) error {
	q := url.Values{}
	q.Set("productId", strconv.FormatInt(productID, 10))
	q.Set("quantity", strconv.Itoa(quantity))
	return c.do(ctx, request{method: http.MethodPost, path: "/cart/add", query: q}, nil)
}

// RemoveFromCart calls DELETE /cart/remove/:cartItemId
func (c *Client) RemoveFromCart(ctx context.Context, cartItemID int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/cart/remove", cartItemID)}, nil)
}

// ClearCart calls DELETE /cart/clear
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/cart/clear"}, nil)
}

// Wishlist calls GET /wishlist
func (c *Client) Wishlist(ctx context.Context) (*models.Wishlist, error) {
	var w models.Wishlist
	if err := c.do(ctx, request{method: http.MethodGet, path: "/wishlist"}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// AddToWishlist calls POST /wishlist/add?productId
func (c *Client) AddToWishlist(ctx context.Context, productID int64) error {
	q := url.Values{}
	q.Set("productId", strconv.FormatInt(productID, 10))
	return c.do(ctx, request{method: http.MethodPost, path: "/wishlist/add", query: q}, nil)
}

// RemoveFromWishlist calls DELETE /wishlist/remove?productId
func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) error {
	q := url.Values{}
	q.Set("productId", strconv.FormatInt(productID, 10))
	return c.do(ctx, request{method: http.MethodDelete, path: "/wishlist/remove", query: q}, nil)
}
