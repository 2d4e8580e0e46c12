package orders

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/internal/notifications"
	"github.com/storefront-labs/storefront-backend/internal/products"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/metrics"
)

// MessageOnlyPendingCancellable is returned when a cancellation targets a non-Pending order.
const MessageOnlyPendingCancellable = "Only pending orders can be cancelled."

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes buyer-side order lifecycle operations.
type Service interface {
	Cancel(ctx context.Context, userID, orderID int64) (*CancelResult, error)
}

// CancelResult describes a completed cancellation.
type CancelResult struct {
	OrderID       int64
	Status        enums.OrderStatus
	RestoredUnits int
	RestoredItems int
}

type service struct {
	repo     Repository
	stock    products.StockRepository
	tx       txRunner
	notifier notifications.Notifier
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
}

// NewService builds an order service with the required dependencies. The notifier and metrics
// are optional.
func NewService(repo Repository, stock products.StockRepository, tx txRunner, notifier notifications.Notifier, m *metrics.CheckoutMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     repo,
		stock:    stock,
		tx:       tx,
		notifier: notifier,
		metrics:  m,
		logg:     logg,
	}, nil
}

// Cancel moves a Pending order to Cancelled and returns every item's quantity to stock in the
// same transaction. The status guard on the update makes a second cancel fail instead of
// restocking twice.
func (s *service) Cancel(ctx context.Context, userID, orderID int64) (*CancelResult, error) {
	result, err := s.cancel(ctx, userID, orderID)
	s.metrics.IncCancellation(outcomeLabel(err))
	if err != nil {
		if typed := pkgerrors.As(err); typed == nil || !pkgerrors.IsBusiness(typed.Code()) {
			s.logg.Error(s.logg.WithOrderID(s.logg.WithUserID(ctx, userID), orderID), "order.cancel_failed", err)
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, enums.NotificationCategoryOrder, fmt.Sprintf("Your order #%d has been cancelled.", orderID))
	}
	logCtx := s.logg.WithFields(s.logg.WithOrderID(s.logg.WithUserID(ctx, userID), orderID), map[string]any{
		"restored_units": result.RestoredUnits,
	})
	s.logg.Info(logCtx, "order.cancelled")
	return result, nil
}

func (s *service) cancel(ctx context.Context, userID, orderID int64) (*CancelResult, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	result := &CancelResult{OrderID: orderID, Status: enums.OrderStatusCancelled}
	ctx = context.WithoutCancel(ctx)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stock := s.stock.WithTx(tx)

		order, err := repo.FindForUser(ctx, userID, orderID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !order.Status.CanCancel() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, MessageOnlyPendingCancellable).
				WithDetails(map[string]any{"status": order.Status})
		}

		moved, err := repo.TransitionStatus(ctx, userID, orderID, enums.OrderStatusPending, enums.OrderStatusCancelled)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, MessageOnlyPendingCancellable)
		}

		items, err := repo.ListItems(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
		}
		var restoreErr error
		for _, item := range items {
			if err := stock.Restore(ctx, item.ProductID, item.Quantity); err != nil {
				restoreErr = multierr.Append(restoreErr, fmt.Errorf("product %d: %w", item.ProductID, err))
				continue
			}
			result.RestoredUnits += item.Quantity
			result.RestoredItems++
		}
		if restoreErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, restoreErr, "restore stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}
