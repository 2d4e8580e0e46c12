package models

import "time"

// CartItem is one pending-purchase line owned by a user.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null;check:chk_cart_items_quantity_positive,quantity > 0"`
	Size      *string   `gorm:"column:size;type:text"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
}
