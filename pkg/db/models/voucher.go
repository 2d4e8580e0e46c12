package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is a flat percentage discount code valid through ExpiresOn (inclusive).
type Voucher struct {
	Code               string          `gorm:"column:code;primaryKey;type:text"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	ExpiresOn          time.Time       `gorm:"column:expires_on;type:date;not null"`
}
