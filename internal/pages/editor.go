// ABOUTME: Create and edit products for sellers and administrators
// ABOUTME: Administrators may assign the product to any seller

package pages

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/validate"
)

// ProductEditorAPI is what the product form needs
type ProductEditorAPI interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Product(ctx context.Context, id int64) (*models.Product, error)
	Users(ctx context.Context) ([]models.User, error)
	CreateProduct(ctx context.Context, in models.ProductInput, categoryID, sellerID int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in models.ProductInput, categoryID, sellerID int64) (*models.Product, error)
}

// ProductForm holds the raw form fields as typed by the user
type ProductForm struct {
	Name        string
	Description string
	Price       string
	Stock       string
	ImageURL    string
	CategoryID  int64
	SellerID    int64
}

// Input converts the form into a request body, rejecting bad values
func (f ProductForm) Input() (models.ProductInput, error) {
	price, err := validate.ParsePrice(f.Price)
	if err != nil {
		return models.ProductInput{}, apperrors.Validation("Price " + err.Error())
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil {
		return models.ProductInput{}, apperrors.Validation("Stock must be a whole number")
	}
	in := models.ProductInput{
		Name:          strings.TrimSpace(f.Name),
		Description:   strings.TrimSpace(f.Description),
		Price:         price,
		StockQuantity: stock,
		ImageURL:      strings.TrimSpace(f.ImageURL),
	}
	if err := validate.Struct(in); err != nil {
		return models.ProductInput{}, err
	}
	if f.CategoryID == 0 {
		return models.ProductInput{}, apperrors.Validation("Category is required")
	}
	return in, nil
}

// ProductEditorState is what the product form renders
type ProductEditorState struct {
	Status
	Form       ProductForm
	Categories []models.Category
	// Sellers is only populated for administrators
	Sellers []models.User
	Saved   bool
}

// ProductEditor drives the add and edit product routes
type ProductEditor struct {
	page[ProductEditorState]
	api       ProductEditorAPI
	session   SessionReader
	logger    *slog.Logger
	productID int64
}

// NewProductEditor creates a form controller. productID 0 means create.
func NewProductEditor(api ProductEditorAPI, s SessionReader, logger *slog.Logger, productID int64) *ProductEditor {
	e := &ProductEditor{api: api, session: s, logger: loggerOr(logger), productID: productID}
	e.state.Loading = true
	return e
}

// Editing reports whether the form updates an existing product
func (e *ProductEditor) Editing() bool { return e.productID != 0 }

// IsAdmin reports whether seller assignment is available
func (e *ProductEditor) IsAdmin() bool {
	return e.session.Snapshot().Role() == models.RoleAdmin
}

// DoneRoute is where the screen goes after a successful save
func (e *ProductEditor) DoneRoute() string {
	if e.IsAdmin() {
		return "/admin/products"
	}
	return "/seller/products"
}

// Load fetches categories, sellers for admins, and the product when editing.
// Only a failed product fetch blocks the form.
func (e *ProductEditor) Load(ctx context.Context) error {
	cats, err := e.api.Categories(ctx)
	if err != nil {
		e.logger.Warn("loading categories", "error", err)
	}

	var sellers []models.User
	if e.IsAdmin() {
		users, uerr := e.api.Users(ctx)
		if uerr != nil {
			e.logger.Warn("loading sellers", "error", uerr)
		}
		for _, u := range users {
			if u.Role == models.RoleSeller {
				sellers = append(sellers, u)
			}
		}
	}

	var form ProductForm
	var perr error
	if e.Editing() {
		var p *models.Product
		p, perr = e.api.Product(ctx, e.productID)
		if perr == nil {
			form = formFromProduct(p)
		}
	}

	e.update(func(s *ProductEditorState) {
		s.Loading = false
		s.Categories = cats
		s.Sellers = sellers
		if perr != nil {
			s.LoadErr = failure(e.logger, "load product", perr, apperrors.Messages{Default: "Failed to load product details"}).Text
			return
		}
		s.Form = form
	})
	return perr
}

func formFromProduct(p *models.Product) ProductForm {
	f := ProductForm{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.StockQuantity),
		ImageURL:    p.ImageURL,
	}
	if p.Category != nil {
		f.CategoryID = p.Category.ID
	}
	if p.Seller != nil {
		f.SellerID = p.Seller.ID
	}
	return f
}

// Save validates and submits the form
func (e *ProductEditor) Save(ctx context.Context, form ProductForm) error {
	e.update(func(s *ProductEditorState) { s.Form = form })

	in, err := form.Input()
	if err != nil {
		e.update(func(s *ProductEditorState) {
			s.Banner = Banner{Kind: BannerError, Text: apperrors.UserMessage(err, apperrors.Messages{})}
		})
		return err
	}

	sellerID := int64(0)
	if e.IsAdmin() {
		sellerID = form.SellerID
	}

	e.update(func(s *ProductEditorState) { s.Busy = true })
	var text string
	if e.Editing() {
		_, err = e.api.UpdateProduct(ctx, e.productID, in, form.CategoryID, sellerID)
		text = "Product updated successfully!"
	} else {
		_, err = e.api.CreateProduct(ctx, in, form.CategoryID, sellerID)
		text = "Product created successfully!"
	}
	e.update(func(s *ProductEditorState) {
		s.Busy = false
		if err != nil {
			s.Banner = failure(e.logger, "save product", err, apperrors.Messages{Default: "Failed to save product"})
			return
		}
		s.Saved = true
		s.Banner = success(text)
	})
	return err
}
