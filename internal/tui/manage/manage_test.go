package manage

import (
	"context"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/storefront-cli/internal/pages"
	"github.com/markalston/storefront-cli/internal/tui/screen"
	st "github.com/markalston/storefront-cli/internal/tui/screen/screentest"
)

var sellerProducts = []map[string]any{
	{"id": 3, "name": "Desk lamp", "price": 24.5, "stockQuantity": 2, "category": map[string]any{"id": 2, "name": "Home"}},
	{"id": 1, "name": "Notebook", "price": 3, "stockQuantity": 40, "seller": map[string]any{"id": 3, "name": "Sam"}},
}

func done(op string) tea.Cmd {
	return func() tea.Msg { return screen.Done{Mount: 1, Op: op} }
}

func TestSellerDashboard_Summary(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{"GET /products/my": st.JSON(sellerProducts)})
	d := NewSellerDashboard(st.Env(t, b, st.Seller))
	r := st.Drive(d, d.Init())

	view := r.Screen.View()
	assert.Contains(t, view, "Seller Dashboard")
	assert.Contains(t, view, "$169.00", "inventory value is price times stock")
	assert.Contains(t, view, "Only 2 left")
	assert.Contains(t, ansi.Strip(view), "[██░", "low stock lines carry a gauge")

	r = st.Key(r.Screen, "n")
	assert.Equal(t, "/seller/product/add", r.LastRoute())
}

func TestAdminDashboard_Stats(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /users": st.JSON([]map[string]any{
			{"id": 1, "role": "ADMIN"}, {"id": 2, "role": "USER"}, {"id": 3, "role": "SELLER"}, {"id": 4, "role": "USER"},
		}),
		"GET /products": st.JSON(sellerProducts),
		"GET /orders/all": st.JSON([]map[string]any{
			{"id": 1, "status": "PLACED", "totalAmount": 10},
			{"id": 2, "status": "CANCELLED", "totalAmount": 99},
		}),
	})
	d := NewAdminDashboard(st.Env(t, b, st.Admin))
	r := st.Drive(d, d.Init())

	view := r.Screen.View()
	assert.Contains(t, view, "Customers")
	assert.Contains(t, view, "$10.00")
	assert.Contains(t, view, "1 awaiting action")
	assert.Contains(t, view, "Recent order totals")
}

func TestAdminDashboard_AnyFailureFailsPage(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /users":      st.JSON([]any{}),
		"GET /products":   st.JSON([]any{}),
		"GET /orders/all": st.Status(http.StatusInternalServerError, "boom"),
	})
	d := NewAdminDashboard(st.Env(t, b, st.Admin))
	r := st.Drive(d, d.Init())
	assert.Contains(t, r.Screen.View(), "r to retry")
}

func TestSellerProducts_Navigation(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{"GET /products/my": st.JSON(sellerProducts)})
	p := NewSellerProducts(st.Env(t, b, st.Seller))
	r := st.Drive(p, p.Init())

	assert.Equal(t, "/seller/product/add", st.Key(r.Screen, "n").LastRoute())
	assert.Equal(t, "/seller/products/edit/3", st.Key(r.Screen, "e").LastRoute())
}

func TestSellerProducts_DeleteConflictKeepsProduct(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /products/my":      st.JSON(sellerProducts),
		"DELETE /products/{id}": st.Status(http.StatusConflict, "could not execute statement; foreign key constraint"),
	})
	p := NewSellerProducts(st.Env(t, b, st.Seller))
	r := st.Drive(p, p.Init())

	r = st.Key(r.Screen, "d")
	assert.True(t, r.Screen.Capturing())
	r = st.Key(r.Screen, "y")

	require.Len(t, r.Done, 1)
	assert.Error(t, r.Done[0].Err)
	assert.Equal(t, 1, b.Hits("DELETE /products/{id}"))
	assert.Equal(t, 2, b.Hits("GET /products/my"))
	view := r.Screen.View()
	assert.Contains(t, view, "Desk lamp")
	assert.NotContains(t, view, "foreign key")
}

func TestSellerProducts_DeclinedDeleteSendsNothing(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /products/my":      st.JSON(sellerProducts),
		"DELETE /products/{id}": st.OK,
	})
	p := NewSellerProducts(st.Env(t, b, st.Seller))
	r := st.Drive(p, p.Init())

	r = st.Key(r.Screen, "d")
	r = st.Key(r.Screen, "n")
	assert.False(t, r.Screen.Capturing())
	assert.Zero(t, b.Hits("DELETE /products/{id}"))
}

func TestAdminProducts_ShowsSellerAndEditRoute(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{"GET /products": st.JSON(sellerProducts)})
	p := NewAdminProducts(st.Env(t, b, st.Admin))
	r := st.Drive(p, p.Init())

	assert.Contains(t, r.Screen.View(), "Sam")
	r = st.Key(r.Screen, "down")
	assert.Equal(t, "/admin/products/edit/1", st.Key(r.Screen, "e").LastRoute())
}

func editorBackend(t *testing.T) *st.Backend {
	return st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /categories": st.JSON([]map[string]any{{"id": 2, "name": "Home"}}),
		"GET /users": st.JSON([]map[string]any{
			{"id": 3, "name": "Sam", "role": "SELLER"},
			{"id": 7, "name": "Casey", "role": "USER"},
		}),
		"GET /products/{id}": st.JSON(map[string]any{
			"id": 9, "name": "Lamp", "price": 12.5, "stockQuantity": 4,
			"category": map[string]any{"id": 2}, "seller": map[string]any{"id": 3},
		}),
		"PUT /products/{id}": st.JSON(map[string]any{"id": 9}),
	})
}

func TestEditor_PrefillsWhenEditing(t *testing.T) {
	b := editorBackend(t)
	env := st.Env(t, b, st.Admin)
	env.Params = screen.Params{"id": "9"}
	e := NewEditor(env).(*Editor)

	st.Drive(e, e.Init())
	assert.Equal(t, "12.5", e.fields.Price)
	assert.Equal(t, int64(3), e.fields.SellerID)
	assert.Len(t, e.ctrl.State().Sellers, 1)
	assert.True(t, e.Capturing())
	assert.Contains(t, e.View(), "Edit Product")
}

func TestEditor_SavedNavigatesToList(t *testing.T) {
	b := editorBackend(t)
	env := st.Env(t, b, st.Admin)
	env.Params = screen.Params{"id": "9"}
	e := NewEditor(env).(*Editor)
	st.Drive(e, e.Init())

	fields := e.fields
	fields.Price = "15"
	require.NoError(t, e.ctrl.Save(context.Background(), fields))

	r := st.Drive(e, done("save"))
	require.Len(t, r.Navigate, 1)
	assert.Equal(t, "/admin/products", r.Navigate[0].Route)
	assert.Equal(t, "Product updated successfully!", r.Navigate[0].Flash)
}

func TestEditor_InvalidSaveReopensForm(t *testing.T) {
	b := editorBackend(t)
	e := NewEditor(st.Env(t, b, st.Seller)).(*Editor)
	st.Drive(e, e.Init())

	e.form = nil
	err := e.ctrl.Save(context.Background(), pages.ProductForm{Name: "Lamp", Price: "abc", Stock: "1", CategoryID: 2})
	require.Error(t, err)

	r := st.Drive(e, done("save"))
	assert.Empty(t, r.Navigate)
	assert.NotNil(t, e.form)
	assert.Zero(t, b.Hits("PUT /products/{id}"))
}

var users = []map[string]any{
	{"id": 1, "name": "Alex", "email": "alex@example.com", "role": "ADMIN"},
	{"id": 7, "name": "Casey", "email": "casey@example.com", "role": "USER"},
	{"id": 3, "name": "Sam", "email": "sam@example.com", "role": "SELLER"},
}

func TestUsers_SelfDeleteRefusedWithoutAsking(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /users":         st.JSON(users),
		"DELETE /users/{id}": st.OK,
	})
	u := NewUsers(st.Env(t, b, st.Admin))
	r := st.Drive(u, u.Init())

	r = st.Key(r.Screen, "d")
	assert.False(t, r.Screen.Capturing())
	assert.Zero(t, b.Hits("DELETE /users/{id}"))
	assert.Contains(t, r.Screen.View(), "You cannot delete your own account")
}

func TestUsers_FilterAndDelete(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /users":         st.JSON(users),
		"DELETE /users/{id}": st.OK,
	})
	u := NewUsers(st.Env(t, b, st.Admin))
	r := st.Drive(u, u.Init())

	r = st.Key(r.Screen, "f")
	view := r.Screen.View()
	assert.Contains(t, view, "showing: Customers")
	assert.Contains(t, view, "Casey")
	assert.NotContains(t, view, "sam@example.com")

	r = st.Key(r.Screen, "d")
	r = st.Key(r.Screen, "y")
	assert.Equal(t, 1, b.Hits("DELETE /users/{id}"))
	assert.Contains(t, r.Screen.View(), "User deleted successfully!")
}

func TestAdminOrders_FilterAndStatusPicker(t *testing.T) {
	var status string
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /orders/all": st.JSON([]map[string]any{
			{"id": 5, "status": "PLACED", "totalAmount": 10, "customer": map[string]any{"id": 7, "name": "Casey"}},
			{"id": 4, "status": "SHIPPED", "totalAmount": 7},
		}),
		"PUT /orders/status/{id}": func(w http.ResponseWriter, r *http.Request) {
			status = r.URL.Query().Get("status")
			w.WriteHeader(http.StatusOK)
		},
	})
	o := NewOrders(st.Env(t, b, st.Admin)).(*Orders)
	r := st.Drive(o, o.Init())
	assert.Contains(t, r.Screen.View(), "Casey")

	r = st.Key(r.Screen, "f")
	assert.Contains(t, r.Screen.View(), "showing: Placed")
	assert.Len(t, o.ctrl.State().Visible(), 1)

	r = st.Key(r.Screen, "s")
	assert.True(t, r.Screen.Capturing())
	assert.Equal(t, "PLACED", string(o.status))
	r = st.Key(r.Screen, "esc")
	assert.False(t, r.Screen.Capturing())

	r = st.Drive(o, o.apply(5, "SHIPPED"))
	require.Len(t, r.Done, 1)
	require.NoError(t, r.Done[0].Err)
	assert.Equal(t, "SHIPPED", status)
	assert.Equal(t, 2, b.Hits("GET /orders/all"))
}

func TestCategories_DeleteInUse(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{
		"GET /categories":         st.JSON([]map[string]any{{"id": 2, "name": "Home", "description": "Lamps"}}),
		"DELETE /categories/{id}": st.Status(http.StatusConflict, ""),
	})
	c := NewCategories(st.Env(t, b, st.Admin))
	r := st.Drive(c, c.Init())

	r = st.Key(r.Screen, "d")
	r = st.Key(r.Screen, "y")
	assert.Equal(t, 1, b.Hits("DELETE /categories/{id}"))
	view := r.Screen.View()
	assert.Contains(t, view, "Cannot delete this category because products still use it.")
	assert.Contains(t, view, "Home")
}

func TestCategories_FormCapturesAndEscCloses(t *testing.T) {
	b := st.NewBackend(t, map[string]http.HandlerFunc{"GET /categories": st.JSON([]any{})})
	c := NewCategories(st.Env(t, b, st.Admin)).(*Categories)
	r := st.Drive(c, c.Init())
	assert.Contains(t, r.Screen.View(), "No categories yet")

	r = st.Key(r.Screen, "n")
	assert.True(t, r.Screen.Capturing())
	assert.Contains(t, r.Screen.View(), "Add Category")
	r = st.Key(r.Screen, "esc")
	assert.False(t, r.Screen.Capturing())
}
