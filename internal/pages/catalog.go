// ABOUTME: Public catalog and product detail controllers
// ABOUTME: Customers can add to cart and toggle wishlist; anonymous visitors are asked to log in

package pages

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

// CatalogAPI is what the catalog pages need from the backend
type CatalogAPI interface {
	Products(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	Product(ctx context.Context, id int64) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Wishlist(ctx context.Context) (*models.Wishlist, error)
	AddToWishlist(ctx context.Context, productID int64) error
	RemoveFromWishlist(ctx context.Context, productID int64) error
	AddToCart(ctx context.Context, productID int64, quantity int) error
}

// CatalogState is what the home screen renders
type CatalogState struct {
	Status
	Products   []models.Product
	Categories []models.Category
	Filter     models.ProductFilter
	// Wishlisted holds product ids on the customer's wishlist
	Wishlisted map[int64]bool
}

// Catalog drives the home screen
type Catalog struct {
	page[CatalogState]
	api     CatalogAPI
	session SessionReader
	logger  *slog.Logger
}

// NewCatalog creates a catalog controller in the loading state
func NewCatalog(api CatalogAPI, s SessionReader, logger *slog.Logger) *Catalog {
	c := &Catalog{api: api, session: s, logger: loggerOr(logger)}
	c.state.Loading = true
	return c
}

// Load fetches products, categories, and (for customers) wishlist ids in parallel
func (c *Catalog) Load(ctx context.Context) error {
	filter := c.State().Filter

	var (
		products   []models.Product
		categories []models.Category
		wished     map[int64]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.api.Products(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.api.Categories(gctx)
		return err
	})
	if isCustomer(c.session) {
		g.Go(func() error {
			var err error
			wished, err = wishlistIDs(gctx, c.api)
			return err
		})
	}

	err := g.Wait()
	c.update(func(s *CatalogState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(c.logger, "load catalog", err, apperrors.Messages{Default: "Failed to load products"}).Text
			return
		}
		s.LoadErr = ""
		s.Products = products
		s.Categories = categories
		s.Wishlisted = wished
	})
	return err
}

// Search replaces the filter and reloads
func (c *Catalog) Search(ctx context.Context, f models.ProductFilter) error {
	c.update(func(s *CatalogState) { s.Filter = f })
	return c.Load(ctx)
}

// AddToCart adds quantity of a product for a signed-in customer
func (c *Catalog) AddToCart(ctx context.Context, productID int64, quantity int) error {
	if !isCustomer(c.session) {
		c.update(func(s *CatalogState) { s.Banner = info("Please login to add items to cart") })
		return ErrLoginRequired
	}

	c.update(func(s *CatalogState) { s.Busy = true })
	err := c.api.AddToCart(ctx, productID, quantity)
	c.update(func(s *CatalogState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(c.logger, "add to cart", err, apperrors.Messages{Default: "Failed to add product to cart"})
			return
		}
		s.Banner = success("Product added to cart successfully!")
	})
	return err
}

// ToggleWishlist adds or removes a product and re-fetches the wishlist ids
func (c *Catalog) ToggleWishlist(ctx context.Context, productID int64) error {
	if !isCustomer(c.session) {
		c.update(func(s *CatalogState) { s.Banner = info("Please login to add items to wishlist") })
		return ErrLoginRequired
	}

	c.update(func(s *CatalogState) { s.Busy = true })
	text, err := toggleWishlist(ctx, c.api, productID, c.State().Wishlisted[productID])
	var wished map[int64]bool
	if err == nil {
		wished, err = wishlistIDs(ctx, c.api)
	}
	c.update(func(s *CatalogState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(c.logger, "update wishlist", err, apperrors.Messages{Default: "Failed to update wishlist"})
			return
		}
		s.Wishlisted = wished
		s.Banner = success(text)
	})
	return err
}

type wishlistToggler interface {
	AddToWishlist(ctx context.Context, productID int64) error
	RemoveFromWishlist(ctx context.Context, productID int64) error
}

func toggleWishlist(ctx context.Context, api wishlistToggler, productID int64, present bool) (string, error) {
	if present {
		return "Product removed from wishlist!", api.RemoveFromWishlist(ctx, productID)
	}
	return "Product added to wishlist!", api.AddToWishlist(ctx, productID)
}

func wishlistIDs(ctx context.Context, api interface {
	Wishlist(ctx context.Context) (*models.Wishlist, error)
}) (map[int64]bool, error) {
	w, err := api.Wishlist(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]bool, len(w.Products))
	for _, p := range w.Products {
		ids[p.ID] = true
	}
	return ids, nil
}

// ProductDetailState is what the product screen renders
type ProductDetailState struct {
	Status
	Product    *models.Product
	Wishlisted bool
}

// ProductDetail drives /product/:id
type ProductDetail struct {
	page[ProductDetailState]
	api     CatalogAPI
	session SessionReader
	logger  *slog.Logger
	id      int64
}

// NewProductDetail creates a controller for one product
func NewProductDetail(api CatalogAPI, s SessionReader, logger *slog.Logger, id int64) *ProductDetail {
	d := &ProductDetail{api: api, session: s, logger: loggerOr(logger), id: id}
	d.state.Loading = true
	return d
}

// Load fetches the product and, for customers, whether it is wishlisted
func (d *ProductDetail) Load(ctx context.Context) error {
	p, err := d.api.Product(ctx, d.id)
	var wished bool
	if err == nil && isCustomer(d.session) {
		ids, werr := wishlistIDs(ctx, d.api)
		if werr != nil {
			d.logger.Warn("loading wishlist for product", "error", werr)
		}
		wished = ids[d.id]
	}
	d.update(func(s *ProductDetailState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(d.logger, "load product", err, apperrors.Messages{
				Default:  "Failed to load product details",
				NotFound: "Product not found.",
			}).Text
			return
		}
		s.LoadErr = ""
		s.Product = p
		s.Wishlisted = wished
	})
	return err
}

// AddToCart adds quantity units, bounded by the stock last fetched
func (d *ProductDetail) AddToCart(ctx context.Context, quantity int) error {
	if !isCustomer(d.session) {
		d.update(func(s *ProductDetailState) { s.Banner = info("Please login to add items to cart") })
		return ErrLoginRequired
	}
	if p := d.State().Product; p != nil && (quantity < 1 || quantity > p.StockQuantity) {
		err := apperrors.Validation(fmt.Sprintf("Quantity must be between 1 and %d", p.StockQuantity))
		d.update(func(s *ProductDetailState) { s.Banner = Banner{Kind: BannerError, Text: err.Message} })
		return err
	}

	d.update(func(s *ProductDetailState) { s.Busy = true })
	err := d.api.AddToCart(ctx, d.id, quantity)
	d.update(func(s *ProductDetailState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(d.logger, "add to cart", err, apperrors.Messages{Default: "Failed to add product to cart"})
			return
		}
		s.Banner = success("Product added to cart successfully!")
	})
	return err
}

// ToggleWishlist flips wishlist membership and re-reads it
func (d *ProductDetail) ToggleWishlist(ctx context.Context) error {
	if !isCustomer(d.session) {
		d.update(func(s *ProductDetailState) { s.Banner = info("Please login to add items to wishlist") })
		return ErrLoginRequired
	}

	d.update(func(s *ProductDetailState) { s.Busy = true })
	text, err := toggleWishlist(ctx, d.api, d.id, d.State().Wishlisted)
	var ids map[int64]bool
	if err == nil {
		ids, err = wishlistIDs(ctx, d.api)
	}
	d.update(func(s *ProductDetailState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(d.logger, "update wishlist", err, apperrors.Messages{Default: "Failed to update wishlist"})
			return
		}
		s.Wishlisted = ids[d.id]
		s.Banner = success(text)
	})
	return err
}
