// ABOUTME: Order history for customers and order management for administrators

package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

// OrdersAPI is what the customer orders page needs
type OrdersAPI interface {
	MyOrders(ctx context.Context) ([]models.Order, error)
	CancelOrder(ctx context.Context, id int64) error
}

// OrdersState is what the orders screen renders
type OrdersState struct {
	Status
	Orders []models.Order
}

// Orders drives /orders
type Orders struct {
	page[OrdersState]
	api    OrdersAPI
	logger *slog.Logger
}

// NewOrders creates an orders controller in the loading state
func NewOrders(api OrdersAPI, logger *slog.Logger) *Orders {
	o := &Orders{api: api, logger: loggerOr(logger)}
	o.state.Loading = true
	return o
}

// Load fetches the customer's orders
func (o *Orders) Load(ctx context.Context) error {
	orders, err := o.api.MyOrders(ctx)
	o.update(func(s *OrdersState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(o.logger, "load orders", err, apperrors.Messages{Default: "Failed to load orders"}).Text
			return
		}
		s.LoadErr = ""
		s.Orders = orders
	})
	return err
}

func (o *Orders) find(id int64) (models.Order, bool) {
	for _, ord := range o.State().Orders {
		if ord.ID == id {
			return ord, true
		}
	}
	return models.Order{}, false
}

// Cancel cancels an order that has not progressed yet. Callers confirm first.
func (o *Orders) Cancel(ctx context.Context, id int64) error {
	if ord, ok := o.find(id); ok && !ord.Status.Cancellable() {
		err := apperrors.Validation(fmt.Sprintf("Order #%d is %s and can no longer be cancelled", id, ord.Status.Label()))
		o.update(func(s *OrdersState) { s.Banner = Banner{Kind: BannerError, Text: err.Message} })
		return err
	}

	o.update(func(s *OrdersState) { s.Busy = true })
	err := o.api.CancelOrder(ctx, id)
	orders, ferr := o.api.MyOrders(ctx)
	o.update(func(s *OrdersState) {
		s.Busy = false
		if ferr == nil {
			s.Orders = orders
		}
		if err != nil {
			s.Banner = failure(o.logger, "cancel order", err, apperrors.Messages{Default: "Failed to cancel order"})
			return
		}
		s.Banner = success("Order cancelled successfully!")
	})
	return err
}

// AdminOrdersAPI is what the admin orders page needs
type AdminOrdersAPI interface {
	AllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error
}

// AdminOrdersState is what the admin orders screen renders
type AdminOrdersState struct {
	Status
	Orders []models.Order
	// StatusFilter hides orders in other statuses when set
	StatusFilter models.OrderStatus
}

// Visible returns the orders passing the status filter
func (s AdminOrdersState) Visible() []models.Order {
	if s.StatusFilter == "" {
		return s.Orders
	}
	out := make([]models.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		if o.Status == s.StatusFilter {
			out = append(out, o)
		}
	}
	return out
}

// AdminOrders drives /admin/orders
type AdminOrders struct {
	page[AdminOrdersState]
	api    AdminOrdersAPI
	logger *slog.Logger
}

// NewAdminOrders creates an admin orders controller in the loading state
func NewAdminOrders(api AdminOrdersAPI, logger *slog.Logger) *AdminOrders {
	a := &AdminOrders{api: api, logger: loggerOr(logger)}
	a.state.Loading = true
	return a
}

// Load fetches every order
func (a *AdminOrders) Load(ctx context.Context) error {
	orders, err := a.api.AllOrders(ctx)
	a.update(func(s *AdminOrdersState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(a.logger, "load all orders", err, apperrors.Messages{Default: "Failed to load orders"}).Text
			return
		}
		s.LoadErr = ""
		s.Orders = orders
	})
	return err
}

// SetFilter narrows the visible orders; an empty status shows all
func (a *AdminOrders) SetFilter(status models.OrderStatus) {
	a.update(func(s *AdminOrdersState) { s.StatusFilter = status })
}

// UpdateStatus changes an order's status and re-fetches the list
func (a *AdminOrders) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if status == "" {
		a.update(func(s *AdminOrdersState) { s.Banner = info("Please select a status first.") })
		return apperrors.Validation("Please select a status first.")
	}

	a.update(func(s *AdminOrdersState) { s.Busy = true })
	err := a.api.UpdateOrderStatus(ctx, id, status)
	orders, ferr := a.api.AllOrders(ctx)
	a.update(func(s *AdminOrdersState) {
		s.Busy = false
		if ferr == nil {
			s.Orders = orders
		} else {
			a.logger.Warn("re-fetching orders", "error", ferr)
		}
		if err != nil {
			s.Banner = failure(a.logger, "update order status", err, apperrors.Messages{Default: "Failed to update order status"})
			return
		}
		s.Banner = success("Order status updated successfully!")
	})
	return err
}
