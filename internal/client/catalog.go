// ABOUTME: Catalog and product management endpoints

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/markalston/storefront-cli/internal/models"
)

// Products calls GET /products with any set filter fields
func (c *Client) Products(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	q := url.Values{}
	if f.Keyword != "" {
		q.Set("keyword", f.Keyword)
	}
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.Min != nil {
		q.Set("min", f.Min.String())
	}
	if f.Max != nil {
		q.Set("max", f.Max.String())
	}

	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: q}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product calls GET /products/:id
func (c *Client) Product(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/products", id)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MyProducts calls GET /products/my for the signed-in seller
func (c *Client) MyProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/my"}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func productQuery(categoryID, sellerID int64) url.Values {
	q := url.Values{}
	q.Set("categoryId", strconv.FormatInt(categoryID, 10))
	if sellerID != 0 {
		q.Set("sellerId", strconv.FormatInt(sellerID, 10))
	}
	return q
}

// CreateProduct calls POST /products/add?categoryId[&sellerId].
// sellerID is only sent by administrators assigning a seller.
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput, categoryID, sellerID int64) (*models.Product, error) {
	var p models.Product
	req := request{method: http.MethodPost, path: "/products/add", query: productQuery(categoryID, sellerID), body: in}
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct calls PUT /products/:id?categoryId[&sellerId]
func (c *Client) UpdateProduct(ctx context.Context, id int64, in models.ProductInput, categoryID, sellerID int64) (*models.Product, error) {
	var p models.Product
	req := request{method: http.MethodPut, path: idPath("/products", id), query: productQuery(categoryID, sellerID), body: in}
	if err := c.do(ctx, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct calls DELETE /products/:id
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/products", id)}, nil)
}

// Categories calls GET /categories
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// CreateCategory calls POST /categories
func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/categories", body: in}, nil)
}

// UpdateCategory calls PUT /categories/:id
func (c *Client) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) error {
	return c.do(ctx, request{method: http.MethodPut, path: idPath("/categories", id), body: in}, nil)
}

// DeleteCategory calls DELETE /categories/:id
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/categories", id)}, nil)
}
