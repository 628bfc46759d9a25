// ABOUTME: Seller dashboard and product list controllers
// ABOUTME: Delete failures map to owner, conflict, and not-found messages

package pages

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

// LowStockThreshold is the stock level at or below which a product is flagged
const LowStockThreshold = 5

const recentProductCount = 5

var deleteProductMessages = apperrors.Messages{
	Default:   "Failed to delete product",
	Conflict:  "Cannot delete this product because it has been ordered by customers. You can only delete products that have never been purchased.",
	Forbidden: "You do not have permission to delete this product. Only the product owner can delete it.",
	NotFound:  "Product not found. It may have already been deleted.",
}

// SellerProductsAPI lists and deletes the seller's own products
type SellerProductsAPI interface {
	MyProducts(ctx context.Context) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// SellerDashboardState summarises the seller's catalog
type SellerDashboardState struct {
	Status
	TotalProducts  int
	LowStock       []models.Product
	Recent         []models.Product
	InventoryValue decimal.Decimal
}

// SellerDashboard drives /seller/dashboard
type SellerDashboard struct {
	page[SellerDashboardState]
	api    SellerProductsAPI
	logger *slog.Logger
}

// NewSellerDashboard creates a seller dashboard controller in the loading state
func NewSellerDashboard(api SellerProductsAPI, logger *slog.Logger) *SellerDashboard {
	d := &SellerDashboard{api: api, logger: loggerOr(logger)}
	d.state.Loading = true
	return d
}

// Load fetches the seller's products and derives the summary
func (d *SellerDashboard) Load(ctx context.Context) error {
	products, err := d.api.MyProducts(ctx)
	d.update(func(s *SellerDashboardState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(d.logger, "load seller dashboard", err, apperrors.Messages{Default: "Failed to load dashboard data"}).Text
			return
		}
		s.LoadErr = ""
		*s = summariseSellerProducts(products, s.Status)
	})
	return err
}

func summariseSellerProducts(products []models.Product, st Status) SellerDashboardState {
	out := SellerDashboardState{Status: st, TotalProducts: len(products), InventoryValue: decimal.Zero}
	for _, p := range products {
		if p.StockQuantity <= LowStockThreshold {
			out.LowStock = append(out.LowStock, p)
		}
		out.InventoryValue = out.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}

	// newest first; ids are assigned in creation order
	recent := slices.Clone(products)
	slices.SortFunc(recent, func(a, b models.Product) int { return cmp.Compare(b.ID, a.ID) })
	if len(recent) > recentProductCount {
		recent = recent[:recentProductCount]
	}
	out.Recent = recent
	return out
}

// ProductListState is what the seller and admin product lists render
type ProductListState struct {
	Status
	Products []models.Product
}

// ProductList drives /seller/products and /admin/products
type ProductList struct {
	page[ProductListState]
	fetch  func(ctx context.Context) ([]models.Product, error)
	delete func(ctx context.Context, id int64) error
	logger *slog.Logger
}

// NewSellerProducts lists only the signed-in seller's products
func NewSellerProducts(api SellerProductsAPI, logger *slog.Logger) *ProductList {
	l := &ProductList{fetch: api.MyProducts, delete: api.DeleteProduct, logger: loggerOr(logger)}
	l.state.Loading = true
	return l
}

// AdminProductsAPI lists and deletes every product
type AdminProductsAPI interface {
	Products(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// NewAdminProducts lists every product on the platform
func NewAdminProducts(api AdminProductsAPI, logger *slog.Logger) *ProductList {
	l := &ProductList{
		fetch: func(ctx context.Context) ([]models.Product, error) {
			return api.Products(ctx, models.ProductFilter{})
		},
		delete: api.DeleteProduct,
		logger: loggerOr(logger),
	}
	l.state.Loading = true
	return l
}

// Load fetches the product list
func (l *ProductList) Load(ctx context.Context) error {
	products, err := l.fetch(ctx)
	l.update(func(s *ProductListState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(l.logger, "load products", err, apperrors.Messages{Default: "Failed to load products"}).Text
			return
		}
		s.LoadErr = ""
		s.Products = products
	})
	return err
}

// Delete removes a product and re-fetches. A product that customers have
// ordered cannot be deleted and stays listed. Callers confirm first.
func (l *ProductList) Delete(ctx context.Context, id int64) error {
	l.update(func(s *ProductListState) { s.Busy = true })
	err := l.delete(ctx, id)
	products, ferr := l.fetch(ctx)
	l.update(func(s *ProductListState) {
		s.Busy = false
		if ferr == nil {
			s.Products = products
		} else {
			l.logger.Warn("re-fetching products", "error", ferr)
		}
		if err != nil {
			s.Banner = failure(l.logger, "delete product", err, deleteProductMessages)
			return
		}
		s.Banner = success("Product deleted successfully!")
	})
	return err
}
