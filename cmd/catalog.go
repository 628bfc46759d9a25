// ABOUTME: Catalog subcommands, public like the home screen

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

var (
	productKeyword  string
	productCategory int64
	productMin      string
	productMax      string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally filtered",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int {
			return runProductsList(ctx, d, os.Stdout, productKeyword, productCategory, productMin, productMax)
		})
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show PRODUCT_ID",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int {
			return runProductShow(ctx, d, os.Stdout, args[0])
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Product categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, d *deps) int {
			return runCategoriesList(ctx, d, os.Stdout)
		})
	},
}

func init() {
	productsListCmd.Flags().StringVar(&productKeyword, "keyword", "", "Search term")
	productsListCmd.Flags().Int64Var(&productCategory, "category", 0, "Category ID")
	productsListCmd.Flags().StringVar(&productMin, "min", "", "Minimum price")
	productsListCmd.Flags().StringVar(&productMax, "max", "", "Maximum price")

	productsCmd.AddCommand(productsListCmd, productsShowCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	rootCmd.AddCommand(productsCmd, categoriesCmd)
}

func parseFilter(keyword string, category int64, minPrice, maxPrice string) (models.ProductFilter, error) {
	f := models.ProductFilter{Keyword: strings.TrimSpace(keyword), CategoryID: category}
	for _, p := range []struct {
		raw  string
		dst  **decimal.Decimal
		name string
	}{{minPrice, &f.Min, "--min"}, {maxPrice, &f.Max, "--max"}} {
		if strings.TrimSpace(p.raw) == "" {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(p.raw))
		if err != nil {
			return f, apperrors.Validation(fmt.Sprintf("%s must be a number, got %q", p.name, p.raw))
		}
		*p.dst = &v
	}
	return f, nil
}

func runProductsList(ctx context.Context, d *deps, w io.Writer, keyword string, category int64, minPrice, maxPrice string) int {
	f, err := parseFilter(keyword, category, minPrice, maxPrice)
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	products, err := d.api.Products(ctx, f)
	if err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load products"})
	}
	render(w, products, func() string {
		if len(products) == 0 {
			return "No products found."
		}
		t := newTable("ID", "Product", "Category", "Price", "Stock")
		for _, p := range products {
			t.Row(strconv.FormatInt(p.ID, 10), p.Name, categoryName(p.Category), money(p.Price), strconv.Itoa(p.StockQuantity))
		}
		return t.String()
	})
	return exitOK
}

func categoryName(c *models.Category) string {
	if c == nil {
		return "-"
	}
	return c.Name
}

func runProductShow(ctx context.Context, d *deps, w io.Writer, rawID string) int {
	id, err := parseID(rawID, "product ID")
	if err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	p, err := d.api.Product(ctx, id)
	if err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load product", NotFound: "Product not found."})
	}
	render(w, p, func() string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", p.Name, money(p.Price))
		fmt.Fprintf(&sb, "Category:     %s\n", categoryName(p.Category))
		if p.StockQuantity > 0 {
			fmt.Fprintf(&sb, "Availability: %d in stock\n", p.StockQuantity)
		} else {
			sb.WriteString("Availability: out of stock\n")
		}
		if p.Seller != nil {
			fmt.Fprintf(&sb, "Sold by:      %s\n", p.Seller.Name)
		}
		if p.Description != "" {
			sb.WriteString("\n" + p.Description)
		}
		return strings.TrimRight(sb.String(), "\n")
	})
	return exitOK
}

func runCategoriesList(ctx context.Context, d *deps, w io.Writer) int {
	cats, err := d.api.Categories(ctx)
	if err != nil {
		return fail(w, err, apperrors.Messages{Default: "Failed to load categories"})
	}
	render(w, cats, func() string {
		if len(cats) == 0 {
			return "No categories yet."
		}
		t := newTable("ID", "Name", "Description")
		for _, c := range cats {
			t.Row(strconv.FormatInt(c.ID, 10), c.Name, c.Description)
		}
		return t.String()
	})
	return exitOK
}
