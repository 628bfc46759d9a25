// ABOUTME: Wire models for the storefront REST backend
// ABOUTME: Server-owned projections; prices use shopspring/decimal

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend parses prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Identity is the authenticated user as seen by the client
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Credentials are submitted to POST /auth/login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is submitted to POST /auth/register
type Registration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=USER SELLER"`
}

// AuthResponse is returned by POST /auth/login
type AuthResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// User is a platform account as listed by GET /users
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UserUpdate is the body of PUT /users/:id
type UserUpdate struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// Category groups products in the catalog
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryInput is the body of POST/PUT /categories
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Product is a catalog entry
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Category      *Category       `json:"category,omitempty"`
	Seller        *User           `json:"seller,omitempty"`
}

// ProductInput is the body of POST /products/add and PUT /products/:id
type ProductInput struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=2000"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	ImageURL      string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// ProductFilter holds the optional catalog query parameters
type ProductFilter struct {
	Keyword    string
	CategoryID int64
	Min        *decimal.Decimal
	Max        *decimal.Decimal
}

// CartItem is one line in the customer's cart
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns quantity x unit price
func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is returned by GET /cart
type Cart struct {
	ID    int64      `json:"id"`
	Items []CartItem `json:"items"`
}

// Total sums all line totals
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Wishlist is returned by GET /wishlist
type Wishlist struct {
	ID       int64     `json:"id"`
	Products []Product `json:"products"`
}

// Contains reports whether the wishlist holds the product
func (w Wishlist) Contains(productID int64) bool {
	for _, p := range w.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Address is an order's shipping destination
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is one purchased line
type OrderItem struct {
	ID              int64           `json:"id"`
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// LineTotal returns quantity x purchase price
func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.PriceAtPurchase.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Order is a placed order
type Order struct {
	ID              int64           `json:"id"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items"`
	Customer        *User           `json:"customer,omitempty"`
	ShippingAddress *Address        `json:"shippingAddress,omitempty"`
}
