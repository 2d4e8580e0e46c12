package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResolvedLine is a cart line joined with the product's current title, price and stock.
type ResolvedLine struct {
	CartItemID int64
	ProductID  int64
	Quantity   int
	Size       *string
	Title      string
	Price      decimal.Decimal
	Stock      int
}

// Subtotal returns quantity × unit price for the line.
func (l ResolvedLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Repository exposes the cart queries used by checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ResolveLines(ctx context.Context, userID int64, lineIDs []int64) ([]ResolvedLine, error)
	DeleteLines(ctx context.Context, userID int64, lineIDs []int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ResolveLines loads the user's cart lines joined with their products. The user predicate is
// part of the query, so lines owned by someone else never match. An empty lineIDs selects the
// whole cart.
func (r *repository) ResolveLines(ctx context.Context, userID int64, lineIDs []int64) ([]ResolvedLine, error) {
	query := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select("ci.id AS cart_item_id, ci.product_id, ci.quantity, ci.size, p.title, p.price, p.stock").
		Joins("JOIN products p ON p.id = ci.product_id").
		Where("ci.user_id = ?", userID)
	if len(lineIDs) > 0 {
		query = query.Where("ci.id IN ?", lineIDs)
	}

	var lines []ResolvedLine
	if err := query.Order("ci.id ASC").Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteLines removes the given lines from the user's cart.
func (r *repository) DeleteLines(ctx context.Context, userID int64, lineIDs []int64) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Exec("DELETE FROM cart_items WHERE user_id = ? AND id IN ?", userID, lineIDs)
	return res.RowsAffected, res.Error
}

// LineIDs extracts the cart line identifiers in resolution order.
func LineIDs(lines []ResolvedLine) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.CartItemID)
	}
	return ids
}
