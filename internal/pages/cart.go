// ABOUTME: Customer cart and wishlist controllers
// ABOUTME: Every mutation is followed by a re-fetch; local copies are never patched

package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

// ErrEmptyCart is returned when placing an order with nothing in the cart
var ErrEmptyCart = errors.New("cart is empty")

// CartAPI is what the cart page needs from the backend
type CartAPI interface {
	Cart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	RemoveFromCart(ctx context.Context, cartItemID int64) error
	ClearCart(ctx context.Context) error
	PlaceOrder(ctx context.Context) (*models.Order, error)
}

// CartState is what the cart screen renders
type CartState struct {
	Status
	Cart models.Cart
	// Placed is set after a successful checkout
	Placed *models.Order
}

// Cart drives /cart
type Cart struct {
	page[CartState]
	api    CartAPI
	logger *slog.Logger
}

// NewCart creates a cart controller in the loading state
func NewCart(api CartAPI, logger *slog.Logger) *Cart {
	c := &Cart{api: api, logger: loggerOr(logger)}
	c.state.Loading = true
	return c
}

// Load fetches the cart
func (c *Cart) Load(ctx context.Context) error {
	cart, err := c.api.Cart(ctx)
	c.update(func(s *CartState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(c.logger, "load cart", err, apperrors.Messages{Default: "Failed to load cart items"}).Text
			return
		}
		s.LoadErr = ""
		s.Cart = *cart
	})
	return err
}

// refetch reloads the cart after a mutation without touching the banner
func (c *Cart) refetch(ctx context.Context) {
	cart, err := c.api.Cart(ctx)
	if err != nil {
		c.logger.Warn("re-fetching cart", "error", err)
		return
	}
	c.update(func(s *CartState) { s.Cart = *cart })
}

func (c *Cart) item(cartItemID int64) (models.CartItem, bool) {
	for _, it := range c.State().Cart.Items {
		if it.ID == cartItemID {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// UpdateQuantity sets a line's quantity. There is no atomic update endpoint,
// so the line is removed and re-added while Busy is held, then re-fetched.
// A quantity of zero or less removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	if quantity <= 0 {
		return c.Remove(ctx, cartItemID)
	}
	it, ok := c.item(cartItemID)
	if !ok {
		return apperrors.Validation("Item is no longer in the cart")
	}
	if quantity > it.Product.StockQuantity {
		err := apperrors.Validation(fmt.Sprintf("Only %d of %s in stock", it.Product.StockQuantity, it.Product.Name))
		c.update(func(s *CartState) { s.Banner = Banner{Kind: BannerError, Text: err.Message} })
		return err
	}

	c.update(func(s *CartState) { s.Busy = true })
	err := c.api.RemoveFromCart(ctx, cartItemID)
	if err == nil {
		err = c.api.AddToCart(ctx, it.Product.ID, quantity)
	}
	c.refetch(ctx)
	c.update(func(s *CartState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(c.logger, "update quantity", err, apperrors.Messages{Default: "Failed to update quantity"})
			return
		}
		s.Banner = Banner{}
	})
	return err
}

// Remove deletes one line
func (c *Cart) Remove(ctx context.Context, cartItemID int64) error {
	c.update(func(s *CartState) { s.Busy = true })
	err := c.api.RemoveFromCart(ctx, cartItemID)
	c.refetch(ctx)
	c.update(func(s *CartState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(c.logger, "remove cart item", err, apperrors.Messages{Default: "Failed to remove item from cart"})
			return
		}
		s.Banner = success("Item removed from cart")
	})
	return err
}

// Clear empties the cart. Callers confirm first.
func (c *Cart) Clear(ctx context.Context) error {
	c.update(func(s *CartState) { s.Busy = true })
	err := c.api.ClearCart(ctx)
	c.refetch(ctx)
	c.update(func(s *CartState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(c.logger, "clear cart", err, apperrors.Messages{Default: "Failed to clear cart"})
			return
		}
		s.Banner = success("Cart cleared")
	})
	return err
}

// PlaceOrder checks out the current cart
func (c *Cart) PlaceOrder(ctx context.Context) (*models.Order, error) {
	if len(c.State().Cart.Items) == 0 {
		c.update(func(s *CartState) { s.Banner = info("Your cart is empty") })
		return nil, ErrEmptyCart
	}

	c.update(func(s *CartState) { s.Busy = true })
	order, err := c.api.PlaceOrder(ctx)
	c.refetch(ctx)
	c.update(func(s *CartState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(c.logger, "place order", err, apperrors.Messages{Default: "Failed to place order"})
			return
		}
		s.Placed = order
		s.Banner = success("Order placed successfully!")
	})
	return order, err
}

// WishlistAPI is what the wishlist page needs from the backend
type WishlistAPI interface {
	Wishlist(ctx context.Context) (*models.Wishlist, error)
	RemoveFromWishlist(ctx context.Context, productID int64) error
	AddToCart(ctx context.Context, productID int64, quantity int) error
}

// WishlistState is what the wishlist screen renders
type WishlistState struct {
	Status
	Products []models.Product
}

// Wishlist drives /wishlist
type Wishlist struct {
	page[WishlistState]
	api    WishlistAPI
	logger *slog.Logger
}

// NewWishlist creates a wishlist controller in the loading state
func NewWishlist(api WishlistAPI, logger *slog.Logger) *Wishlist {
	w := &Wishlist{api: api, logger: loggerOr(logger)}
	w.state.Loading = true
	return w
}

// Load fetches the wishlist
func (w *Wishlist) Load(ctx context.Context) error {
	wl, err := w.api.Wishlist(ctx)
	w.update(func(s *WishlistState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(w.logger, "load wishlist", err, apperrors.Messages{Default: "Failed to load wishlist items"}).Text
			return
		}
		s.LoadErr = ""
		s.Products = wl.Products
	})
	return err
}

func (w *Wishlist) refetch(ctx context.Context) {
	wl, err := w.api.Wishlist(ctx)
	if err != nil {
		w.logger.Warn("re-fetching wishlist", "error", err)
		return
	}
	w.update(func(s *WishlistState) { s.Products = wl.Products })
}

// Remove drops a product from the wishlist
func (w *Wishlist) Remove(ctx context.Context, productID int64) error {
	w.update(func(s *WishlistState) { s.Busy = true })
	err := w.api.RemoveFromWishlist(ctx, productID)
	w.refetch(ctx)
	w.update(func(s *WishlistState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(w.logger, "remove from wishlist", err, apperrors.Messages{Default: "Failed to remove item from wishlist"})
			return
		}
		s.Banner = success("Product removed from wishlist!")
	})
	return err
}

// MoveToCart adds one unit to the cart; the product stays wishlisted
func (w *Wishlist) MoveToCart(ctx context.Context, productID int64) error {
	w.update(func(s *WishlistState) { s.Busy = true })
	err := w.api.AddToCart(ctx, productID, 1)
	w.update(func(s *WishlistState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(w.logger, "add to cart", err, apperrors.Messages{Default: "Failed to add product to cart"})
			return
		}
		s.Banner = success("Product added to cart successfully!")
	})
	return err
}
