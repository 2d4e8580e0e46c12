package models

import "github.com/shopspring/decimal"

// OrderItem snapshots a cart line at order time. Price never follows later catalog changes.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null;index"`
	ProductID int64           `gorm:"column:product_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Size      *string         `gorm:"column:size;type:text"`
}
