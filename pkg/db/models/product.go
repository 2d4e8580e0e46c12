package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog's authoritative price and stock record.
type Product struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string          `gorm:"column:title;type:text;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0;check:chk_products_stock_nonnegative,stock >= 0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
