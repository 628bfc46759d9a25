// ABOUTME: Order subcommands for customers and administrators

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/pages"
)

var ordersStatusFilter string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Place and track orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runOrdersList(ctx, d, os.Stdout) })
	},
}

var ordersPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Check out the current cart",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runOrdersPlace(ctx, d, os.Stdout, assumeYes) })
	},
}

var ordersCancelCmd = &cobra.Command{
	Use:   "cancel ORDER_ID",
	Short: "Cancel an order that has not shipped",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runOrdersCancel(ctx, d, os.Stdout, args[0], assumeYes) })
	},
}

var ordersAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every order (administrators)",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runOrdersAll(ctx, d, os.Stdout, ordersStatusFilter) })
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status ORDER_ID STATUS",
	Short: "Set an order's status (administrators)",
	Long: `Set an order's status. STATUS is one of PENDING, CONFIRMED, SHIPPED,
DELIVERED, or CANCELLED.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int { return runOrdersStatus(ctx, d, os.Stdout, args[0], args[1]) })
	},
}

func init() {
	ordersPlaceCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	ordersCancelCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	ordersAllCmd.Flags().StringVar(&ordersStatusFilter, "status", "", "Only show orders with this status")

	ordersCmd.AddCommand(ordersListCmd, ordersPlaceCmd, ordersCancelCmd, ordersAllCmd, ordersStatusCmd)
	rootCmd.AddCommand(ordersCmd)
}

func ordersTable(orders []models.Order, withCustomer bool) string {
	if len(orders) == 0 {
		return "No orders yet."
	}
	headers := []string{"Order", "Placed", "Items", "Total", "Status"}
	if withCustomer {
		headers = append(headers, "Customer")
	}
	t := newTable(headers...)
	for _, o := range orders {
		row := []string{
			fmt.Sprintf("#%d", o.ID),
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(len(o.Items)),
			money(o.TotalAmount),
			o.Status.Label(),
		}
		if withCustomer {
			name := "-"
			if o.Customer != nil {
				name = o.Customer.Name
			}
			row = append(row, name)
		}
		t.Row(row...)
	}
	return t.String()
}

func runOrdersList(ctx context.Context, d *deps, w io.Writer) int {
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return code
	}
	o := pages.NewOrders(d.api, d.logger)
	if err := o.Load(ctx); err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load orders"})
	}
	orders := o.State().Orders
	render(w, orders, func() string { return ordersTable(orders, false) })
	return exitOK
}

func runOrdersPlace(ctx context.Context, d *deps, w io.Writer, yes bool) int {
	c, code := loadCart(ctx, d, w)
	if c == nil {
		return code
	}
	cart := c.State().Cart
	if len(cart.Items) > 0 && !confirmed(w, yes, fmt.Sprintf("Place order for %s?", money(cart.Total()))) {
		return exitRejected
	}
	order, err := c.PlaceOrder(ctx)
	if err != nil {
		return bannerResult(w, c.State().Banner, err)
	}
	render(w, order, func() string {
		return fmt.Sprintf("Order placed successfully! Order #%d, total %s", order.ID, money(order.TotalAmount))
	})
	return exitOK
}

func runOrdersCancel(ctx context.Context, d *deps, w io.Writer, rawID string, yes bool) int {
	id, err := parseID(rawID, "order ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	if code := requireRole(d, w, models.RoleCustomer); code != exitOK {
		return code
	}
	o := pages.NewOrders(d.api, d.logger)
	if err := o.Load(ctx); err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load orders"})
	}
	for _, ord := range o.State().Orders {
		if ord.ID == id && ord.Status.Cancellable() && !confirmed(w, yes, fmt.Sprintf("Cancel order #%d?", id)) {
			return exitRejected
		}
	}
	err = o.Cancel(ctx, id)
	return bannerResult(w, o.State().Banner, err)
}

func runOrdersAll(ctx context.Context, d *deps, w io.Writer, status string) int {
	if code := requireRole(d, w, models.RoleAdmin); code != exitOK {
		return code
	}
	a := pages.NewAdminOrders(d.api, d.logger)
	if status != "" {
		s, ok := models.ParseOrderStatus(strings.ToUpper(status))
		if !ok {
			return reject(w, fmt.Sprintf("unknown order status %q", status))
		}
		a.SetFilter(s)
	}
	if err := a.Load(ctx); err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load orders"})
	}
	orders := a.State().Visible()
	render(w, orders, func() string { return ordersTable(orders, true) })
	return exitOK
}

func runOrdersStatus(ctx context.Context, d *deps, w io.Writer, rawID, rawStatus string) int {
	if code := requireRole(d, w, models.RoleAdmin); code != exitOK {
		return code
	}
	id, err := parseID(rawID, "order ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	status, ok := models.ParseOrderStatus(strings.ToUpper(rawStatus))
	if !ok || status == models.OrderPlaced {
		return reject(w, fmt.Sprintf("STATUS must be one of PENDING, CONFIRMED, SHIPPED, DELIVERED, CANCELLED, got %q", rawStatus))
	}
	a := pages.NewAdminOrders(d.api, d.logger)
	err = a.UpdateStatus(ctx, id, status)
	return bannerResult(w, a.State().Banner, err)
}
