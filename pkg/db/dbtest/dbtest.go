// Package dbtest provides sqlite-backed databases and seed helpers for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/migrate"
)

var seq atomic.Int64

// New opens an isolated in-memory sqlite database with every storefront table migrated.
// The pool is pinned to one connection so transactions serialize the way row locks would.
func New(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, seq.Add(1))
	conn, err := db.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// Product inserts a product with the given price and stock.
func Product(t *testing.T, conn *gorm.DB, title, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{Title: title, Price: decimal.RequireFromString(price), Stock: stock}
	if err := conn.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// CartLine inserts a cart line. An empty size stores NULL.
func CartLine(t *testing.T, conn *gorm.DB, userID, productID int64, qty int, size string) models.CartItem {
	t.Helper()
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if size != "" {
		item.Size = &size
	}
	if err := conn.Create(&item).Error; err != nil {
		t.Fatalf("seed cart line: %v", err)
	}
	return item
}

// Address inserts a shipping address owned by userID.
func Address(t *testing.T, conn *gorm.DB, userID int64) models.Address {
	t.Helper()
	addr := models.Address{UserID: userID, Recipient: "Juan Dela Cruz", Line1: "12 Mabini St", City: "Quezon City", PostalCode: "1100"}
	if err := conn.Create(&addr).Error; err != nil {
		t.Fatalf("seed address: %v", err)
	}
	return addr
}

// Voucher inserts a voucher expiring on the given date.
func Voucher(t *testing.T, conn *gorm.DB, code, pct string, expiresOn time.Time) models.Voucher {
	t.Helper()
	v := models.Voucher{Code: code, DiscountPercentage: decimal.RequireFromString(pct), ExpiresOn: expiresOn}
	if err := conn.Create(&v).Error; err != nil {
		t.Fatalf("seed voucher: %v", err)
	}
	return v
}

// Stock reads a product's current stock.
func Stock(t *testing.T, conn *gorm.DB, productID int64) int {
	t.Helper()
	var p models.Product
	if err := conn.First(&p, productID).Error; err != nil {
		t.Fatalf("load product %d: %v", productID, err)
	}
	return p.Stock
}

// Count returns the number of rows for model.
func Count(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
