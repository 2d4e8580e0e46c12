package helpers

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/internal/cart"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

// StockShortage describes the first line that cannot be filled.
type StockShortage struct {
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// MissingSizes lists every product that still needs a size selection.
type MissingSizes struct {
	Titles []string `json:"titles"`
}

// InsufficientStockError builds the user-facing stock failure.
func InsufficientStockError(productID int64, title string, available, requested int) *pkgerrors.Error {
	msg := fmt.Sprintf("Insufficient stock for %s. Available: %d, requested: %d", title, available, requested)
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, msg).WithDetails(StockShortage{
		ProductID: productID,
		Title:     title,
		Available: available,
		Requested: requested,
	})
}

// ValidateLines checks stock for every line before sizes, then returns the raw subtotal.
// Stock fails on the first short line; missing sizes are reported together.
func ValidateLines(lines []cart.ResolvedLine) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeEmptyCart, "Your cart is empty.")
	}

	for _, line := range lines {
		if line.Quantity > line.Stock {
			return decimal.Zero, InsufficientStockError(line.ProductID, line.Title, line.Stock, line.Quantity)
		}
	}

	var missing []string
	for _, line := range lines {
		if !hasSize(line.Size) {
			missing = append(missing, line.Title)
		}
	}
	if len(missing) > 0 {
		msg := "Please select a size for: " + strings.Join(missing, ", ")
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeMissingSizeSelection, msg).
			WithDetails(MissingSizes{Titles: missing})
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}
	return subtotal, nil
}

func hasSize(size *string) bool {
	return size != nil && strings.TrimSpace(*size) != ""
}
