package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/redis"
)

// PendingCheckout is the session state kept for an order awaiting external payment. The
// payment confirmation step reads it to know which cart lines to consume.
type PendingCheckout struct {
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	CartItemIDs []int64   `json:"cart_item_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

type pendingCache interface {
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest any) error
	PendingCheckoutKey(orderID int64) string
}

// PendingStore persists prepared checkouts in Redis.
type PendingStore struct {
	cache pendingCache
	ttl   time.Duration
}

// NewPendingStore builds a store whose entries expire after ttl.
func NewPendingStore(cache pendingCache, ttl time.Duration) (*PendingStore, error) {
	if cache == nil {
		return nil, fmt.Errorf("pending checkout cache required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("pending checkout ttl must be positive")
	}
	return &PendingStore{cache: cache, ttl: ttl}, nil
}

func (s *PendingStore) Save(ctx context.Context, pending PendingCheckout) error {
	if pending.OrderID <= 0 {
		return fmt.Errorf("pending checkout order id required")
	}
	return s.cache.SetJSON(ctx, s.cache.PendingCheckoutKey(pending.OrderID), pending, s.ttl)
}

// Load returns the prepared checkout for orderID when it belongs to userID.
func (s *PendingStore) Load(ctx context.Context, userID, orderID int64) (*PendingCheckout, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	var pending PendingCheckout
	err := s.cache.GetJSON(ctx, s.cache.PendingCheckoutKey(orderID), &pending)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pending checkout not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending checkout")
	}
	if pending.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pending checkout not found")
	}
	return &pending, nil
}
