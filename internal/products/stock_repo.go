package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

// ErrProductNotFound is returned when a stock lookup targets a missing product.
var ErrProductNotFound = errors.New("product not found")

// StockRepository owns every write to products.stock.
type StockRepository interface {
	WithTx(tx *gorm.DB) StockRepository
	Decrement(ctx context.Context, productID int64, qty int) (bool, error)
	Restore(ctx context.Context, productID int64, qty int) error
	CurrentStock(ctx context.Context, productID int64) (int, error)
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository returns a stock repository bound to the provided database.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) WithTx(tx *gorm.DB) StockRepository {
	if tx == nil {
		return r
	}
	return &stockRepository{db: tx}
}

// Decrement takes qty units from the product only when enough remain. It reports false when
// the guard rejected the update, which callers treat as insufficient stock.
func (r *stockRepository) Decrement(ctx context.Context, productID int64, qty int) (bool, error) {
	if qty <= 0 {
		return false, errors.New("decrement quantity must be positive")
	}
	res := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock >= ?",
		qty, productID, qty,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Restore puts qty units back on the product.
func (r *stockRepository) Restore(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return errors.New("restore quantity must be positive")
	}
	res := r.db.WithContext(ctx).Exec(
		"UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		qty, productID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *stockRepository) CurrentStock(ctx context.Context, productID int64) (int, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Select("id", "stock").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return product.Stock, nil
}
