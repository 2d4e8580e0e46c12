package address

import (
	"context"

	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

// Repository answers shipping-address ownership questions for checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	OwnedBy(ctx context.Context, userID, addressID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// OwnedBy reports whether addressID exists and belongs to userID.
func (r *repository) OwnedBy(ctx context.Context, userID, addressID int64) (bool, error) {
	if userID <= 0 || addressID <= 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
