package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/config"
	"github.com/storefront-labs/storefront-backend/pkg/db"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

const voucherCodeIndex = "CREATE UNIQUE INDEX IF NOT EXISTS idx_vouchers_code_upper ON vouchers (UPPER(code))"

// Models lists every table the checkout backend owns, parents first.
func Models() []any {
	return []any{
		&models.Product{},
		&models.CartItem{},
		&models.Voucher{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	}
}

// AutoMigrate creates the schema from the GORM models. The SQL migrations target Postgres,
// so sqlite databases (dev and tests) are built this way instead.
func AutoMigrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	// struct tags cannot express an expression index
	if err := conn.Exec(voucherCodeIndex).Error; err != nil {
		return fmt.Errorf("auto migrate: voucher code index: %w", err)
	}
	return nil
}

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "running gorm auto-migrate (sqlite dev)")
		return AutoMigrate(client.DB())
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DialectPostgres, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
