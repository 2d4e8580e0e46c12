package models

import "time"

// Address is a user-owned shipping destination.
type Address struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Recipient  string    `gorm:"column:recipient;type:text;not null"`
	Line1      string    `gorm:"column:line1;type:text;not null"`
	City       string    `gorm:"column:city;type:text;not null"`
	PostalCode string    `gorm:"column:postal_code;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
