package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// Order is the durable header produced by a checkout attempt. Only Status changes after creation.
type Order struct {
	ID                int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID            int64               `gorm:"column:user_id;not null;index"`
	Status            enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	TotalPrice        decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	ShippingAddressID int64               `gorm:"column:shipping_address_id;not null"`
	VoucherCode       *string             `gorm:"column:voucher_code;type:text"`
	DiscountAmount    *decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2)"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}
