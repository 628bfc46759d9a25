// ABOUTME: Administrator dashboard, user management, and category management
// ABOUTME: The dashboard fetches users, products, and orders in parallel

package pages

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/validate"
)

// AdminDashboardAPI is what the admin dashboard needs
type AdminDashboardAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	Products(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
}

// PlatformStats are the admin dashboard totals
type PlatformStats struct {
	TotalCustomers int
	TotalSellers   int
	TotalProducts  int
	TotalOrders    int
	// Revenue excludes cancelled orders
	Revenue decimal.Decimal
	// AwaitingAction counts orders still PLACED or PENDING
	AwaitingAction int
	// RecentTotals are the totals of the latest non-cancelled orders, oldest first
	RecentTotals []decimal.Decimal
}

// TrendLength caps RecentTotals
const TrendLength = 20

// ComputeStats derives dashboard totals from the raw lists
func ComputeStats(users []models.User, products []models.Product, orders []models.Order) PlatformStats {
	st := PlatformStats{TotalProducts: len(products), TotalOrders: len(orders), Revenue: decimal.Zero}
	for _, u := range users {
		switch u.Role {
		case models.RoleCustomer:
			st.TotalCustomers++
		case models.RoleSeller:
			st.TotalSellers++
		}
	}
	for _, o := range orders {
		if o.Status != models.OrderCancelled {
			st.Revenue = st.Revenue.Add(o.TotalAmount)
		}
		if o.Status == models.OrderPlaced || o.Status == models.OrderPending {
			st.AwaitingAction++
		}
	}
	st.RecentTotals = recentTotals(orders)
	return st
}

func recentTotals(orders []models.Order) []decimal.Decimal {
	kept := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != models.OrderCancelled {
			kept = append(kept, o)
		}
	}
	slices.SortStableFunc(kept, func(a, b models.Order) int { return a.CreatedAt.Compare(b.CreatedAt) })
	kept = kept[max(0, len(kept)-TrendLength):]

	out := make([]decimal.Decimal, len(kept))
	for i, o := range kept {
		out[i] = o.TotalAmount
	}
	return out
}

// AdminDashboardState is what the admin dashboard renders
type AdminDashboardState struct {
	Status
	Stats PlatformStats
}

// AdminDashboard drives /admin/dashboard
type AdminDashboard struct {
	page[AdminDashboardState]
	api    AdminDashboardAPI
	logger *slog.Logger
}

// NewAdminDashboard creates an admin dashboard controller in the loading state
func NewAdminDashboard(api AdminDashboardAPI, logger *slog.Logger) *AdminDashboard {
	d := &AdminDashboard{api: api, logger: loggerOr(logger)}
	d.state.Loading = true
	return d
}

// Load fetches all three lists concurrently; any failure fails the page
func (d *AdminDashboard) Load(ctx context.Context) error {
	var (
		users    []models.User
		products []models.Product
		orders   []models.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = d.api.Users(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = d.api.Products(gctx, models.ProductFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = d.api.AllOrders(gctx)
		return err
	})
	err := g.Wait()

	d.update(func(s *AdminDashboardState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(d.logger, "load admin dashboard", err, apperrors.Messages{Default: "Failed to load dashboard data"}).Text
			return
		}
		s.LoadErr = ""
		s.Stats = ComputeStats(users, products, orders)
	})
	return err
}

// AdminUsersAPI is what user management needs
type AdminUsersAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// AdminUsersState is what the users screen renders
type AdminUsersState struct {
	Status
	Users      []models.User
	RoleFilter models.Role
}

// Visible returns users passing the role filter
func (s AdminUsersState) Visible() []models.User {
	if s.RoleFilter == "" {
		return s.Users
	}
	out := make([]models.User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.Role == s.RoleFilter {
			out = append(out, u)
		}
	}
	return out
}

// AdminUsers drives /admin/users
type AdminUsers struct {
	page[AdminUsersState]
	api     AdminUsersAPI
	session SessionReader
	logger  *slog.Logger
}

// NewAdminUsers creates a user management controller in the loading state
func NewAdminUsers(api AdminUsersAPI, s SessionReader, logger *slog.Logger) *AdminUsers {
	a := &AdminUsers{api: api, session: s, logger: loggerOr(logger)}
	a.state.Loading = true
	return a
}

// Load fetches every user
func (a *AdminUsers) Load(ctx context.Context) error {
	users, err := a.api.Users(ctx)
	a.update(func(s *AdminUsersState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(a.logger, "load users", err, apperrors.Messages{Default: "Failed to load users"}).Text
			return
		}
		s.LoadErr = ""
		s.Users = users
	})
	return err
}

// SetFilter narrows the visible users; an empty role shows all
func (a *AdminUsers) SetFilter(role models.Role) {
	a.update(func(s *AdminUsersState) { s.RoleFilter = role })
}

// Delete removes a user account and re-fetches. Callers confirm first.
func (a *AdminUsers) Delete(ctx context.Context, id int64) error {
	if me := a.session.Snapshot().Identity; me != nil && me.ID == id {
		err := apperrors.Validation("You cannot delete your own account")
		a.update(func(s *AdminUsersState) { s.Banner = Banner{Kind: BannerError, Text: err.Message} })
		return err
	}

	a.update(func(s *AdminUsersState) { s.Busy = true })
	err := a.api.DeleteUser(ctx, id)
	users, ferr := a.api.Users(ctx)
	a.update(func(s *AdminUsersState) {
		s.Busy = false
		if ferr == nil {
			s.Users = users
		}
		if err != nil {
			s.Banner = failure(a.logger, "delete user", err, apperrors.Messages{
				Default:  "Failed to delete user",
				Conflict: "Cannot delete this user because they have orders or products.",
				NotFound: "User not found. They may have already been deleted.",
			})
			return
		}
		s.Banner = success("User deleted successfully!")
	})
	return err
}

// AdminCategoriesAPI is what category management needs
type AdminCategoriesAPI interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) error
	UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) error
	DeleteCategory(ctx context.Context, id int64) error
}

// AdminCategoriesState is what the categories screen renders
type AdminCategoriesState struct {
	Status
	Categories []models.Category
}

// AdminCategories drives /admin/categories
type AdminCategories struct {
	page[AdminCategoriesState]
	api    AdminCategoriesAPI
	logger *slog.Logger
}

// NewAdminCategories creates a category management controller in the loading state
func NewAdminCategories(api AdminCategoriesAPI, logger *slog.Logger) *AdminCategories {
	a := &AdminCategories{api: api, logger: loggerOr(logger)}
	a.state.Loading = true
	return a
}

// Load fetches every category
func (a *AdminCategories) Load(ctx context.Context) error {
	cats, err := a.api.Categories(ctx)
	a.update(func(s *AdminCategoriesState) {
		s.Loading = false
		if err != nil {
			s.LoadErr = failure(a.logger, "load categories", err, apperrors.Messages{Default: "Failed to load categories"}).Text
			return
		}
		s.LoadErr = ""
		s.Categories = cats
	})
	return err
}

func (a *AdminCategories) refetch(ctx context.Context) {
	cats, err := a.api.Categories(ctx)
	if err != nil {
		a.logger.Warn("re-fetching categories", "error", err)
		return
	}
	a.update(func(s *AdminCategoriesState) { s.Categories = cats })
}

// Save creates a category when id is 0, otherwise updates it
func (a *AdminCategories) Save(ctx context.Context, id int64, in models.CategoryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate.Struct(in); err != nil {
		a.update(func(s *AdminCategoriesState) {
			s.Banner = Banner{Kind: BannerError, Text: apperrors.UserMessage(err, apperrors.Messages{})}
		})
		return err
	}

	a.update(func(s *AdminCategoriesState) { s.Busy = true })
	var err error
	text := "Category created successfully!"
	if id == 0 {
		err = a.api.CreateCategory(ctx, in)
	} else {
		err = a.api.UpdateCategory(ctx, id, in)
		text = "Category updated successfully!"
	}
	a.refetch(ctx)
	a.update(func(s *AdminCategoriesState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(a.logger, "save category", err, apperrors.Messages{Default: "Failed to save category"})
			return
		}
		s.Banner = success(text)
	})
	return err
}

// Delete removes a category and re-fetches. Callers confirm first.
func (a *AdminCategories) Delete(ctx context.Context, id int64) error {
	a.update(func(s *AdminCategoriesState) { s.Busy = true })
	err := a.api.DeleteCategory(ctx, id)
	a.refetch(ctx)
	a.update(func(s *AdminCategoriesState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(a.logger, "delete category", err, apperrors.Messages{
				Default:  "Failed to delete category",
				Conflict: "Cannot delete this category because products still use it.",
			})
			return
		}
		s.Banner = success("Category deleted successfully!")
	})
	return err
}
