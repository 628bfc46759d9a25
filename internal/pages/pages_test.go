// ABOUTME: Scenario tests for page controllers against an in-memory backend
// ABOUTME: Each mutation must be visible only through a re-fetch

package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

var ctx = context.Background()

func TestCart_IncreaseQuantityShowsServerLineTotal(t *testing.T) {
	shop := newFakeShop()
	cat := NewCatalog(shop, sessionAs(models.RoleCustomer), nil)
	require.NoError(t, cat.AddToCart(ctx, 1, 2))

	cart := NewCart(shop, nil)
	require.NoError(t, cart.Load(ctx))
	items := cart.State().Cart.Items
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	require.NoError(t, cart.UpdateQuantity(ctx, items[0].ID, 3))

	st := cart.State()
	require.Len(t, st.Cart.Items, 1)
	line := st.Cart.Items[0]
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.LineTotal().Equal(decimal.RequireFromString("12.50").Mul(decimal.NewFromInt(3))),
		"line total %s", line.LineTotal())
	assert.False(t, st.Busy)
	assert.Equal(t, 1, shop.count("RemoveFromCart"))
	assert.Equal(t, 2, shop.count("AddToCart"))
}

func TestCart_BeginHoldsUntilEnd(t *testing.T) {
	cart := NewCart(newFakeShop(), nil)
	require.NoError(t, cart.Load(ctx))

	assert.True(t, cart.Begin())
	assert.True(t, cart.State().Busy)
	assert.False(t, cart.Begin())

	cart.End()
	assert.False(t, cart.State().Busy)
	assert.True(t, cart.Begin())
}

func TestCart_QuantityAboveStockRejected(t *testing.T) {
	shop := newFakeShop()
	require.NoError(t, shop.AddToCart(ctx, 3, 1))
	cart := NewCart(shop, nil)
	require.NoError(t, cart.Load(ctx))

	err := cart.UpdateQuantity(ctx, cart.State().Cart.Items[0].ID, 3)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, shop.count("RemoveFromCart"))
	assert.Equal(t, BannerError, cart.State().Banner.Kind)
}

func TestCart_ZeroQuantityRemoves(t *testing.T) {
	shop := newFakeShop()
	require.NoError(t, shop.AddToCart(ctx, 2, 4))
	cart := NewCart(shop, nil)
	require.NoError(t, cart.Load(ctx))

	require.NoError(t, cart.UpdateQuantity(ctx, cart.State().Cart.Items[0].ID, 0))
	assert.Empty(t, cart.State().Cart.Items)
}

func TestCart_FailedReAddStillRefetches(t *testing.T) {
	shop := newFakeShop()
	require.NoError(t, shop.AddToCart(ctx, 2, 1))
	cart := NewCart(shop, nil)
	require.NoError(t, cart.Load(ctx))

	shop.failures["AddToCart"] = apperrors.FromStatus(500, "")
	err := cart.UpdateQuantity(ctx, cart.State().Cart.Items[0].ID, 2)
	require.Error(t, err)

	st := cart.State()
	assert.Empty(t, st.Cart.Items, "display must match the server, not the request")
	assert.Equal(t, "Failed to update quantity", st.Banner.Text)
}

func TestCart_PlaceOrder(t *testing.T) {
	shop := newFakeShop()
	cart := NewCart(shop, nil)
	require.NoError(t, cart.Load(ctx))

	_, err := cart.PlaceOrder(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, shop.count("PlaceOrder"))

	require.NoError(t, shop.AddToCart(ctx, 2, 2))
	require.NoError(t, cart.Load(ctx))
	order, err := cart.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "8", order.TotalAmount.String())
	assert.Empty(t, cart.State().Cart.Items)
}

func TestCatalog_AnonymousCannotAddToCart(t *testing.T) {
	shop := newFakeShop()
	cat := NewCatalog(shop, sessionAs(""), nil)
	require.NoError(t, cat.Load(ctx))

	err := cat.AddToCart(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, "Please login to add items to cart", cat.State().Banner.Text)
	assert.Equal(t, 0, shop.count("AddToCart"))
	assert.Equal(t, 0, shop.count("Wishlist"), "anonymous visitors have no wishlist")
}

func TestCatalog_ToggleWishlist(t *testing.T) {
	shop := newFakeShop()
	cat := NewCatalog(shop, sessionAs(models.RoleCustomer), nil)
	require.NoError(t, cat.Load(ctx))

	require.NoError(t, cat.ToggleWishlist(ctx, 2))
	assert.True(t, cat.State().Wishlisted[2])
	assert.Equal(t, "Product added to wishlist!", cat.State().Banner.Text)

	require.NoError(t, cat.ToggleWishlist(ctx, 2))
	assert.False(t, cat.State().Wishlisted[2])
}

func TestCatalog_LoadFailureSetsLoadErr(t *testing.T) {
	shop := newFakeShop()
	shop.failures["Categories"] = apperrors.Transport(errors.New("refused"))
	cat := NewCatalog(shop, sessionAs(""), nil)

	require.Error(t, cat.Load(ctx))
	st := cat.State()
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.LoadErr)
}

func TestProductDetail_QuantityBoundedByStock(t *testing.T) {
	shop := newFakeShop()
	d := NewProductDetail(shop, sessionAs(models.RoleCustomer), nil, 3)
	require.NoError(t, d.Load(ctx))

	assert.Error(t, d.AddToCart(ctx, 5))
	require.NoError(t, d.AddToCart(ctx, 2))
	assert.Equal(t, 1, shop.count("AddToCart"))
}

func TestProductDetail_NotFound(t *testing.T) {
	d := NewProductDetail(newFakeShop(), sessionAs(""), nil, 999)
	require.Error(t, d.Load(ctx))
	assert.Equal(t, "Product not found.", d.State().LoadErr)
}

func TestSellerProducts_DeleteReferencedProductStaysListed(t *testing.T) {
	shop := newFakeShop()
	shop.referenced[1] = true
	list := NewSellerProducts(shop, nil)
	require.NoError(t, list.Load(ctx))

	err := list.Delete(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	st := list.State()
	assert.Equal(t, BannerError, st.Banner.Kind)
	assert.Contains(t, st.Banner.Text, "has been ordered by customers")
	ids := make([]int64, 0, len(st.Products))
	for _, p := range st.Products {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, int64(1))
}

func TestSellerProducts_DeleteMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"forbidden", apperrors.FromStatus(403, ""), "Only the product owner can delete it."},
		{"not found", apperrors.FromStatus(404, ""), "Product not found. It may have already been deleted."},
		{"conflict with message", apperrors.FromStatus(409, "Product has order history"), "Product has order history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shop := newFakeShop()
			shop.failures["DeleteProduct"] = tt.err
			list := NewSellerProducts(shop, nil)
			require.NoError(t, list.Load(ctx))

			require.Error(t, list.Delete(ctx, 2))
			assert.Contains(t, list.State().Banner.Text, tt.want)
			assert.Len(t, list.State().Products, 3)
		})
	}
}

func TestAdminProducts_DeleteRefetches(t *testing.T) {
	shop := newFakeShop()
	list := NewAdminProducts(shop, nil)
	require.NoError(t, list.Load(ctx))

	require.NoError(t, list.Delete(ctx, 2))
	assert.Len(t, list.State().Products, 2)
	assert.Equal(t, "Product deleted successfully!", list.State().Banner.Text)
}

func TestSellerDashboard_Summary(t *testing.T) {
	shop := newFakeShop()
	d := NewSellerDashboard(shop, nil)
	require.NoError(t, d.Load(ctx))

	st := d.State()
	assert.Equal(t, 3, st.TotalProducts)
	require.Len(t, st.LowStock, 2)
	assert.Equal(t, int64(3), st.Recent[0].ID)
	// 12.50*5 + 4*40 + 80*2
	assert.Equal(t, "382.5", st.InventoryValue.String())
}

func TestAdminOrders_StatusUpdateVisibleAfterRefetch(t *testing.T) {
	shop := newFakeShop()
	shop.orders = []models.Order{{ID: 50, Status: models.OrderPending, TotalAmount: decimal.NewFromInt(10)}}

	a := NewAdminOrders(shop, nil)
	require.NoError(t, a.Load(ctx))
	require.NoError(t, a.UpdateStatus(ctx, 50, models.OrderShipped))

	st := a.State()
	require.Len(t, st.Orders, 1)
	assert.Equal(t, models.OrderShipped, st.Orders[0].Status)
	assert.Equal(t, 2, shop.count("AllOrders"))

	a.SetFilter(models.OrderPending)
	assert.Empty(t, a.State().Visible())
}

func TestAdminOrders_EmptyStatusRejected(t *testing.T) {
	shop := newFakeShop()
	a := NewAdminOrders(shop, nil)
	assert.Error(t, a.UpdateStatus(ctx, 1, ""))
	assert.Equal(t, 0, shop.count("UpdateOrderStatus"))
}

func TestOrders_CancelOnlyWhenCancellable(t *testing.T) {
	shop := newFakeShop()
	shop.orders = []models.Order{
		{ID: 1, Status: models.OrderPlaced},
		{ID: 2, Status: models.OrderShipped},
		{ID: 3, Status: models.OrderPending},
	}
	o := NewOrders(shop, nil)
	require.NoError(t, o.Load(ctx))

	for _, id := range []int64{2, 3} {
		err := o.Cancel(ctx, id)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "order %d", id)
	}
	assert.Equal(t, 0, shop.count("CancelOrder"))
	assert.Contains(t, o.State().Banner.Text, "Pending")

	require.NoError(t, o.Cancel(ctx, 1))
	assert.Equal(t, models.OrderCancelled, o.State().Orders[0].Status)
}

func TestAdminDashboard_ComputesStats(t *testing.T) {
	shop := newFakeShop()
	shop.orders = []models.Order{
		{ID: 1, Status: models.OrderPending, TotalAmount: decimal.RequireFromString("10.25")},
		{ID: 2, Status: models.OrderDelivered, TotalAmount: decimal.RequireFromString("5")},
		{ID: 3, Status: models.OrderCancelled, TotalAmount: decimal.RequireFromString("99")},
	}
	d := NewAdminDashboard(shop, nil)
	require.NoError(t, d.Load(ctx))

	st := d.State().Stats
	assert.Equal(t, 1, st.TotalCustomers)
	assert.Equal(t, 1, st.TotalSellers)
	assert.Equal(t, 3, st.TotalProducts)
	assert.Equal(t, 3, st.TotalOrders)
	assert.Equal(t, "15.25", st.Revenue.String())
	assert.Equal(t, 1, st.AwaitingAction)
}

func TestComputeStats_RecentTotalsOldestFirst(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: 3, Status: models.OrderShipped, TotalAmount: decimal.NewFromInt(30), CreatedAt: day.Add(72 * time.Hour)},
		{ID: 1, Status: models.OrderPlaced, TotalAmount: decimal.NewFromInt(10), CreatedAt: day},
		{ID: 2, Status: models.OrderCancelled, TotalAmount: decimal.NewFromInt(99), CreatedAt: day.Add(24 * time.Hour)},
	}
	for i := 0; i < TrendLength; i++ {
		orders = append(orders, models.Order{
			ID: int64(100 + i), Status: models.OrderDelivered,
			TotalAmount: decimal.NewFromInt(1), CreatedAt: day.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	totals := ComputeStats(nil, nil, orders).RecentTotals
	require.Len(t, totals, TrendLength)
	assert.Equal(t, "30", totals[TrendLength-1].String())
	assert.Equal(t, "10", totals[TrendLength-2].String())
	for _, d := range totals {
		assert.NotEqual(t, "99", d.String(), "cancelled orders are left out")
	}
}

func TestAdminDashboard_AnyFailureFailsPage(t *testing.T) {
	shop := newFakeShop()
	shop.failures["AllOrders"] = apperrors.FromStatus(500, "")
	d := NewAdminDashboard(shop, nil)

	require.Error(t, d.Load(ctx))
	assert.Equal(t, "Failed to load dashboard data", d.State().LoadErr)
}

func TestAdminUsers_CannotDeleteSelf(t *testing.T) {
	shop := newFakeShop()
	a := NewAdminUsers(shop, sessionAs(models.RoleAdmin), nil)
	require.NoError(t, a.Load(ctx))

	assert.Error(t, a.Delete(ctx, 1))
	assert.Equal(t, 0, shop.count("DeleteUser"))

	require.NoError(t, a.Delete(ctx, 2))
	assert.Len(t, a.State().Users, 2)

	a.SetFilter(models.RoleSeller)
	require.Len(t, a.State().Visible(), 1)
}

func TestAdminCategories_CreateUpdateDelete(t *testing.T) {
	shop := newFakeShop()
	a := NewAdminCategories(shop, nil)
	require.NoError(t, a.Load(ctx))

	assert.Error(t, a.Save(ctx, 0, models.CategoryInput{Name: "  "}))
	assert.Equal(t, 0, shop.count("CreateCategory"))

	require.NoError(t, a.Save(ctx, 0, models.CategoryInput{Name: "Garden"}))
	require.Len(t, a.State().Categories, 3)

	require.NoError(t, a.Save(ctx, 2, models.CategoryInput{Name: "Cookware"}))
	assert.Equal(t, "Cookware", a.State().Categories[1].Name)

	require.NoError(t, a.Delete(ctx, 2))
	assert.Len(t, a.State().Categories, 2)
}

func TestProfile_SaveUpdatesSessionIdentity(t *testing.T) {
	shop := newFakeShop()
	sess := sessionAs(models.RoleAdmin)
	p := NewProfile(shop, sess, nil)

	require.NoError(t, p.Save(ctx, models.UserUpdate{Name: " Patricia ", Email: "patricia@example.com"}))
	assert.Equal(t, "Patricia", sess.snap.Identity.Name)
	assert.Equal(t, "patricia@example.com", p.State().Identity.Email)
	assert.Equal(t, "tok", sess.snap.Token)
}

// partialEcho answers a profile update with only the id and name
type partialEcho struct{}

func (partialEcho) UpdateUser(_ context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	return &models.User{ID: id, Name: in.Name}, nil
}

func TestProfile_MissingEchoFieldsKeepSubmittedValues(t *testing.T) {
	sess := sessionAs(models.RoleSeller)
	p := NewProfile(partialEcho{}, sess, nil)

	require.NoError(t, p.Save(ctx, models.UserUpdate{Name: "Pat Smith", Email: "pat.smith@example.com"}))
	id := sess.snap.Identity
	assert.Equal(t, "Pat Smith", id.Name)
	assert.Equal(t, "pat.smith@example.com", id.Email)
	assert.Equal(t, models.RoleSeller, id.Role)
}

func TestProfile_InvalidEmailNotSent(t *testing.T) {
	shop := newFakeShop()
	p := NewProfile(shop, sessionAs(models.RoleCustomer), nil)

	err := p.Save(ctx, models.UserUpdate{Name: "Pat", Email: "nope"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, shop.count("UpdateUser"))
}

func TestProductEditor_AdminCreatesForSeller(t *testing.T) {
	shop := newFakeShop()
	e := NewProductEditor(shop, sessionAs(models.RoleAdmin), nil, 0)
	require.NoError(t, e.Load(ctx))

	st := e.State()
	require.Len(t, st.Sellers, 1)
	assert.Len(t, st.Categories, 2)

	err := e.Save(ctx, ProductForm{Name: "Chair", Price: "49.99", Stock: "3", CategoryID: 2, SellerID: 3})
	require.NoError(t, err)
	assert.True(t, e.State().Saved)
	assert.Equal(t, "/admin/products", e.DoneRoute())

	created, _ := shop.product(shop.nextID)
	require.NotNil(t, created.Seller)
	assert.Equal(t, int64(3), created.Seller.ID)
}

func TestProductEditor_EditPrefillsAndValidates(t *testing.T) {
	shop := newFakeShop()
	e := NewProductEditor(shop, sessionAs(models.RoleSeller), nil, 1)
	require.NoError(t, e.Load(ctx))

	form := e.State().Form
	assert.Equal(t, "Lamp", form.Name)
	assert.Equal(t, "12.5", form.Price)
	assert.Equal(t, int64(1), form.CategoryID)
	assert.Empty(t, e.State().Sellers)

	form.Price = "-1"
	assert.Error(t, e.Save(ctx, form))
	assert.Equal(t, 0, shop.count("UpdateProduct"))

	form.Price = "15"
	require.NoError(t, e.Save(ctx, form))
	assert.Equal(t, "/seller/products", e.DoneRoute())
	p, _ := shop.product(1)
	assert.Equal(t, "15", p.Price.String())
}

func TestWishlist_MoveToCartAndRemove(t *testing.T) {
	shop := newFakeShop()
	require.NoError(t, shop.AddToWishlist(ctx, 2))
	w := NewWishlist(shop, nil)
	require.NoError(t, w.Load(ctx))
	require.Len(t, w.State().Products, 1)

	require.NoError(t, w.MoveToCart(ctx, 2))
	assert.Equal(t, 1, shop.count("AddToCart"))

	require.NoError(t, w.Remove(ctx, 2))
	assert.Empty(t, w.State().Products)
}
