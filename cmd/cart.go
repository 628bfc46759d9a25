// ABOUTME: Cart and wishlist subcommands for customers
// ABOUTME: Quantity changes go through the cart controller so stock is checked first

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
)

var (
	addQuantity int
	assumeYes   bool
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage your cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart and its total",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runCartShow(ctx, d, os.Stdout) })
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add PRODUCT_ID",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runCartAdd(ctx, d, os.Stdout, args[0], addQuantity) })
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove ITEM_ID",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runCartRemove(ctx, d, os.Stdout, args[0]) })
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update ITEM_ID QUANTITY",
	Short: "Set a cart line's quantity; 0 removes it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runCartUpdate(ctx, d, os.Stdout, args[0], args[1]) })
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runCartClear(ctx, d, os.Stdout, assumeYes) })
	},
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage your wishlist",
}

var wishlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the wishlist",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runWishlistShow(ctx, d, os.Stdout) })
	},
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add PRODUCT_ID",
	Short: "Add a product to the wishlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runWishlistAdd(ctx, d, os.Stdout, args[0]) })
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove PRODUCT_ID",
	Short: "Remove a product from the wishlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runWishlistRemove(ctx, d, os.Stdout, args[0]) })
	},
}

func init() {
	cartAddCmd.Flags().IntVarP(&addQuantity, "quantity", "n", 1, "How many to add")
	cartClearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartUpdateCmd, cartClearCmd)
	wishlistCmd.AddCommand(wishlistShowCmd, wishlistAddCmd, wishlistRemoveCmd)
	rootCmd.AddCommand(cartCmd, wishlistCmd)
}

// loadCart returns a loaded controller, or the exit code of the failure
func loadCart(ctx context.Context, d *deps, w io.Writer) (*pages.Cart, int) {
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return nil, code
	}
	c := pages.NewCart(d.api, d.logger)
	if err := c.Load(ctx); err != nil {
		return nil, fail(w, err, apperrors.Messages{Default: "Failed to load cart items"})
	}
	return c, exitOK
}

// bannerResult turns a controller banner into output and an exit code
func bannerResult(w io.Writer, b pages.Banner, err error) int {
	if err != nil {
		if b.Text == "" {
			return fail(w, err, apperrors.Messages{})
		}
		if IsJSONOutput() {
			writeJSON(w, map[string]string{"error": b.Text, "kind": apperrors.KindOf(err).String()})
		} else {
			fmt.Fprintf(w, "Error: %s\n", b.Text)
		}
		return exitCode(err)
	}
	return done(w, b.Text)
}

func cartTable(cart models.Cart) string {
	if len(cart.Items) == 0 {
		return "Your cart is empty."
	}
	t := newTable("Item", "Product", "Price", "Qty", "Total")
	for _, it := range cart.Items {
		t.Row(strconv.FormatInt(it.ID, 10), it.Product.Name, money(it.Product.Price), strconv.Itoa(it.Quantity), money(it.LineTotal()))
	}
	return t.String() + "\nTotal: " + money(cart.Total())
}

func runCartShow(ctx context.Context, d *deps, w io.Writer) int {
	c, code := loadCart(ctx, d, w)
	if c == nil {
		return code
	}
	cart := c.State().Cart
	render(w, cart, func() string { return cartTable(cart) })
	return exitOK
}

func runCartAdd(ctx context.Context, d *deps, w io.Writer, rawID string, quantity int) int {
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return code
	}
	id, err := parseID(rawID, "product ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	if quantity < 1 {
		return reject(w, "Quantity must be at least 1")
	}
	if err := d.api.AddToCart(ctx, id, quantity); err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to add to cart"})
	}
	return done(w, "Product added to cart!")
}

func runCartRemove(ctx context.Context, d *deps, w io.Writer, rawID string) int {
	id, err := parseID(rawID, "cart item ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	c, code := loadCart(ctx, d, w)
	if c == nil {
		return code
	}
	err = c.Remove(ctx, id)
	return bannerResult(w, c.State().Banner, err)
}

func runCartUpdate(ctx context.Context, d *deps, w io.Writer, rawID, rawQty string) int {
	id, err := parseID(rawID, "cart item ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return reject(w, fmt.Sprintf("quantity must be a whole number, got %q", rawQty))
	}
	c, code := loadCart(ctx, d, w)
	if c == nil {
		return code
	}
	if err := c.UpdateQuantity(ctx, id, qty); err != nil {
		return bannerResult(w, c.State().Banner, err)
	}
	cart := c.State().Cart
	render(w, cart, func() string { return cartTable(cart) })
	return exitOK
}

func runCartClear(ctx context.Context, d *deps, w io.Writer, yes bool) int {
	c, code := loadCart(ctx, d, w)
	if c == nil {
		return code
	}
	if !confirmed(w, yes, "Are you sure you want to clear your cart?") {
		return exitRejected
	}
	err := c.Clear(ctx)
	return bannerResult(w, c.State().Banner, err)
}

func runWishlistShow(ctx context.Context, d *deps, w io.Writer) int {
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return code
	}
	wl, err := d.api.Wishlist(ctx)
	if err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load wishlist"})
	}
	render(w, wl, func() string {
		if len(wl.Products) == 0 {
			return "Your wishlist is empty."
		}
		t := newTable("ID", "Product", "Price", "Stock")
		for _, p := range wl.Products {
			t.Row(strconv.FormatInt(p.ID, 10), p.Name, money(p.Price), strconv.Itoa(p.StockQuantity))
		}
		return t.String()
	})
	return exitOK
}

func runWishlistAdd(ctx context.Context, d *deps, w io.Writer, rawID string) int {
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return code
	}
	id, err := parseID(rawID, "product ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	if err := d.api.AddToWishlist(ctx, id); err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to update wishlist"})
	}
	return done(w, "Added to wishlist!")
}

func runWishlistRemove(ctx context.Context, d *deps, w io.Writer, rawID string) int {
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return code
	}
	id, err := parseID(rawID, "product ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	if err := d.api.RemoveFromWishlist(ctx, id); err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to remove from wishlist"})
	}
	return done(w, "Removed from wishlist")
}
