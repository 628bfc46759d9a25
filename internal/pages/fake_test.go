// ABOUTME: In-memory backend used by page controller tests

package pages

import (
	"context"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
)

type fakeSession struct {
	snap session.Snapshot
}

func (f *fakeSession) Snapshot() session.Snapshot { return f.snap }

func (f *fakeSession) UpdateIdentity(id models.Identity) {
	if f.snap.Identity != nil {
		f.snap.Identity = &id
	}
}

func sessionAs(role models.Role) *fakeSession {
	if role == "" {
		return &fakeSession{snap: session.Snapshot{Status: session.StatusReady}}
	}
	return &fakeSession{snap: session.Snapshot{
		Status:   session.StatusReady,
		Token:    "tok",
		Identity: &models.Identity{ID: 1, Name: "Pat", Email: "pat@example.com", Role: role},
	}}
}

// fakeShop is a tiny authoritative backend. Mutations change its state and
// reads return copies, so controllers only see changes after re-fetching.
type fakeShop struct {
	mu         sync.Mutex
	products   []models.Product
	categories []models.Category
	users      []models.User
	cart       []models.CartItem
	wishlist   []int64
	orders     []models.Order
	nextID     int64

	// referenced product ids cannot be deleted
	referenced map[int64]bool
	// failures forces an error for a named call
	failures map[string]error
	calls    []string
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		nextID:     100,
		referenced: map[int64]bool{},
		failures:   map[string]error{},
		products: []models.Product{
			{ID: 1, Name: "Lamp", Price: decimal.RequireFromString("12.50"), StockQuantity: 5, Category: &models.Category{ID: 1, Name: "Home"}},
			{ID: 2, Name: "Mug", Price: decimal.RequireFromString("4.00"), StockQuantity: 40},
			{ID: 3, Name: "Rug", Price: decimal.RequireFromString("80"), StockQuantity: 2},
		},
		categories: []models.Category{{ID: 1, Name: "Home"}, {ID: 2, Name: "Kitchen"}},
		users: []models.User{
			{ID: 1, Name: "Pat", Role: models.RoleAdmin},
			{ID: 2, Name: "Cam", Role: models.RoleCustomer},
			{ID: 3, Name: "Sel", Role: models.RoleSeller},
		},
	}
}

func (f *fakeShop) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failures[name]
}

func (f *fakeShop) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeShop) product(id int64) (models.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (f *fakeShop) Products(_ context.Context, _ models.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Products"); err != nil {
		return nil, err
	}
	return slices.Clone(f.products), nil
}

func (f *fakeShop) MyProducts(ctx context.Context) ([]models.Product, error) {
	return f.Products(ctx, models.ProductFilter{})
}

func (f *fakeShop) Product(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Product"); err != nil {
		return nil, err
	}
	p, ok := f.product(id)
	if !ok {
		return nil, apperrors.FromStatus(404, "")
	}
	return &p, nil
}

func (f *fakeShop) Categories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Categories"); err != nil {
		return nil, err
	}
	return slices.Clone(f.categories), nil
}

func (f *fakeShop) CreateCategory(_ context.Context, in models.CategoryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateCategory"); err != nil {
		return err
	}
	f.nextID++
	f.categories = append(f.categories, models.Category{ID: f.nextID, Name: in.Name, Description: in.Description})
	return nil
}

func (f *fakeShop) UpdateCategory(_ context.Context, id int64, in models.CategoryInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateCategory"); err != nil {
		return err
	}
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Name, f.categories[i].Description = in.Name, in.Description
		}
	}
	return nil
}

func (f *fakeShop) DeleteCategory(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteCategory"); err != nil {
		return err
	}
	f.categories = slices.DeleteFunc(f.categories, func(c models.Category) bool { return c.ID == id })
	return nil
}

func (f *fakeShop) DeleteProduct(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteProduct"); err != nil {
		return err
	}
	if f.referenced[id] {
		return apperrors.FromStatus(409, "could not execute statement; foreign key constraint fails")
	}
	if _, ok := f.product(id); !ok {
		return apperrors.FromStatus(404, "")
	}
	f.products = slices.DeleteFunc(f.products, func(p models.Product) bool { return p.ID == id })
	return nil
}

func (f *fakeShop) CreateProduct(_ context.Context, in models.ProductInput, categoryID, sellerID int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateProduct"); err != nil {
		return nil, err
	}
	f.nextID++
	p := models.Product{ID: f.nextID, Name: in.Name, Price: in.Price, StockQuantity: in.StockQuantity,
		Category: &models.Category{ID: categoryID}}
	if sellerID != 0 {
		p.Seller = &models.User{ID: sellerID}
	}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeShop) UpdateProduct(_ context.Context, id int64, in models.ProductInput, categoryID, _ int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateProduct"); err != nil {
		return nil, err
	}
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Name = in.Name
			f.products[i].Price = in.Price
			f.products[i].StockQuantity = in.StockQuantity
			f.products[i].Category = &models.Category{ID: categoryID}
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, apperrors.FromStatus(404, "")
}

func (f *fakeShop) Cart(context.Context) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Cart"); err != nil {
		return nil, err
	}
	items := make([]models.CartItem, len(f.cart))
	for i, it := range f.cart {
		p, _ := f.product(it.Product.ID)
		items[i] = models.CartItem{ID: it.ID, Product: p, Quantity: it.Quantity}
	}
	return &models.Cart{ID: 1, Items: items}, nil
}

func (f *fakeShop) AddToCart(_ context.Context, productID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddToCart"); err != nil {
		return err
	}
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart[i].Quantity += quantity
			return nil
		}
	}
	f.nextID++
	f.cart = append(f.cart, models.CartItem{ID: f.nextID, Product: models.Product{ID: productID}, Quantity: quantity})
	return nil
}

func (f *fakeShop) RemoveFromCart(_ context.Context, cartItemID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveFromCart"); err != nil {
		return err
	}
	f.cart = slices.DeleteFunc(f.cart, func(it models.CartItem) bool { return it.ID == cartItemID })
	return nil
}

func (f *fakeShop) ClearCart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ClearCart"); err != nil {
		return err
	}
	f.cart = nil
	return nil
}

func (f *fakeShop) PlaceOrder(context.Context) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PlaceOrder"); err != nil {
		return nil, err
	}
	f.nextID++
	o := models.Order{ID: f.nextID, Status: models.OrderPlaced, TotalAmount: decimal.Zero}
	for _, it := range f.cart {
		p, _ := f.product(it.Product.ID)
		o.TotalAmount = o.TotalAmount.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	f.orders = append(f.orders, o)
	f.cart = nil
	return &o, nil
}

func (f *fakeShop) Wishlist(context.Context) (*models.Wishlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Wishlist"); err != nil {
		return nil, err
	}
	w := &models.Wishlist{ID: 1}
	for _, id := range f.wishlist {
		p, _ := f.product(id)
		w.Products = append(w.Products, p)
	}
	return w, nil
}

func (f *fakeShop) AddToWishlist(_ context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddToWishlist"); err != nil {
		return err
	}
	if !slices.Contains(f.wishlist, productID) {
		f.wishlist = append(f.wishlist, productID)
	}
	return nil
}

func (f *fakeShop) RemoveFromWishlist(_ context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveFromWishlist"); err != nil {
		return err
	}
	f.wishlist = slices.DeleteFunc(f.wishlist, func(id int64) bool { return id == productID })
	return nil
}

func (f *fakeShop) MyOrders(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("MyOrders"); err != nil {
		return nil, err
	}
	return slices.Clone(f.orders), nil
}

func (f *fakeShop) AllOrders(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AllOrders"); err != nil {
		return nil, err
	}
	return slices.Clone(f.orders), nil
}

func (f *fakeShop) CancelOrder(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CancelOrder"); err != nil {
		return err
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = models.OrderCancelled
		}
	}
	return nil
}

func (f *fakeShop) UpdateOrderStatus(_ context.Context, id int64, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateOrderStatus"); err != nil {
		return err
	}
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return apperrors.FromStatus(404, "")
}

func (f *fakeShop) Users(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Users"); err != nil {
		return nil, err
	}
	return slices.Clone(f.users), nil
}

func (f *fakeShop) UpdateUser(_ context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateUser"); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Name, f.users[i].Email = in.Name, in.Email
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.FromStatus(404, "")
}

func (f *fakeShop) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteUser"); err != nil {
		return err
	}
	f.users = slices.DeleteFunc(f.users, func(u models.User) bool { return u.ID == id })
	return nil
}
