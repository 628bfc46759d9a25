// ABOUTME: Order lifecycle statuses as reported by the backend

package models

import "strings"

// OrderStatus is the backend-owned lifecycle state of an order
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// AdminStatuses are the values an administrator may assign
var AdminStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled,
}

// ParseOrderStatus accepts any known status, case-sensitive
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPlaced, OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// Cancellable reports whether a customer may still cancel the order.
// The backend makes the final call.
func (s OrderStatus) Cancellable() bool {
	return s == OrderPlaced
}

// Label is the status in title case for display
func (s OrderStatus) Label() string {
	if s == "" {
		return "Unknown"
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}
