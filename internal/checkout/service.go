package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefront-labs/storefront-backend/internal/address"
	"github.com/storefront-labs/storefront-backend/internal/cart"
	"github.com/storefront-labs/storefront-backend/internal/checkout/helpers"
	"github.com/storefront-labs/storefront-backend/internal/notifications"
	"github.com/storefront-labs/storefront-backend/internal/orders"
	"github.com/storefront-labs/storefront-backend/internal/products"
	"github.com/storefront-labs/storefront-backend/internal/vouchers"
	"github.com/storefront-labs/storefront-backend/pkg/db/models"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/metrics"
)

const (
	MessageOrderPlaced   = "Order placed successfully!"
	MessageOrderPrepared = "Order prepared. Awaiting payment."
	MessageLoginRequired = "Please log in to place an order."
	MessageEmptyCart     = "Your cart is empty."
	MessageBadAddress    = "Invalid shipping address."
	MessageCartChanged   = "Your cart changed during checkout. Please review it and try again."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pendingSaver interface {
	Save(ctx context.Context, pending PendingCheckout) error
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, req Request) (*Result, error)
}

// Request is one checkout attempt. DiscountAmount is the client's claimed discount and only
// ever lowers the server-computed one.
type Request struct {
	UserID            int64
	Action            enums.CheckoutAction
	ShippingAddressID int64
	PaymentMethod     enums.PaymentMethod
	CartItemIDs       []int64
	VoucherCode       string
	DiscountAmount    *decimal.Decimal
}

// Result describes the committed order.
type Result struct {
	OrderID       int64
	Status        enums.OrderStatus
	PaymentMethod enums.PaymentMethod
	Total         decimal.Decimal
	Message       string
}

// Dependencies groups the collaborators of the checkout service. Notifier, Metrics and Clock
// are optional.
type Dependencies struct {
	Tx        txRunner
	Cart      cart.Repository
	Stock     products.StockRepository
	Vouchers  vouchers.Repository
	Addresses address.Repository
	Orders    orders.Repository
	Pending   pendingSaver
	Notifier  notifications.Notifier
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
	Rates     helpers.Rates
	Clock     func() time.Time
}

type service struct {
	tx        txRunner
	cart      cart.Repository
	stock     products.StockRepository
	vouchers  vouchers.Repository
	addresses address.Repository
	orders    orders.Repository
	pending   pendingSaver
	notifier  notifications.Notifier
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	rates     helpers.Rates
	now       func() time.Time
}

// validatedOrder is the single input to both commit variants.
type validatedOrder struct {
	lines []cart.ResolvedLine
	quote helpers.Quote
}

// NewService builds the checkout service.
func NewService(deps Dependencies) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if deps.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if deps.Vouchers == nil {
		return nil, fmt.Errorf("voucher repository required")
	}
	if deps.Addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Pending == nil {
		return nil, fmt.Errorf("pending checkout store required")
	}
	if deps.Rates.ShippingFee.IsNegative() || deps.Rates.TaxRate.IsNegative() {
		return nil, fmt.Errorf("checkout rates must not be negative")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		tx:        deps.Tx,
		cart:      deps.Cart,
		stock:     deps.Stock,
		vouchers:  deps.Vouchers,
		addresses: deps.Addresses,
		orders:    deps.Orders,
		pending:   deps.Pending,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		logg:      logg,
		rates:     deps.Rates,
		now:       clock,
	}, nil
}

func (s *service) Execute(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	ctx = s.logg.WithFields(s.logg.WithUserID(ctx, req.UserID), map[string]any{
		"action":         string(req.Action),
		"payment_method": string(req.PaymentMethod),
	})

	result, err := s.execute(ctx, req)
	s.metrics.ObserveCheckout(string(req.Action), outcomeLabel(err), time.Since(started))
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && pkgerrors.IsBusiness(typed.Code()) {
			s.logg.Info(s.logg.WithField(ctx, "code", string(typed.Code())), "checkout.rejected")
		} else {
			s.logg.Error(ctx, "checkout.failed", err)
		}
		return nil, err
	}

	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, result.OrderID), map[string]any{
		"status": string(result.Status),
		"total":  result.Total.StringFixed(2),
	})
	s.logg.Info(logCtx, "checkout.completed")
	return result, nil
}

func (s *service) execute(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// The commit must resolve even if the caller goes away mid-request.
	ctx = context.WithoutCancel(ctx)

	owned, err := s.addresses.OwnedBy(ctx, req.UserID, req.ShippingAddressID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify shipping address")
	}
	if !owned {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidShippingAddress, MessageBadAddress)
	}

	var (
		order   *models.Order
		lineIDs []int64
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		validated, err := s.validate(ctx, tx, req)
		if err != nil {
			return err
		}
		lineIDs = cart.LineIDs(validated.lines)
		if req.Action.Finalizes() {
			order, err = s.finalize(ctx, tx, req, validated)
		} else {
			order, err = s.prepare(ctx, tx, req, validated)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if !req.Action.Finalizes() {
		pending := PendingCheckout{
			OrderID:     order.ID,
			UserID:      req.UserID,
			CartItemIDs: lineIDs,
			CreatedAt:   s.now().UTC(),
		}
		if err := s.pending.Save(ctx, pending); err != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "checkout.pending_state_failed", err)
		}
	}
	s.notify(ctx, req, order)

	message := MessageOrderPlaced
	if !req.Action.Finalizes() {
		message = MessageOrderPrepared
	}
	return &Result{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Total:         order.TotalPrice,
		Message:       message,
	}, nil
}

// validate resolves the cart, checks stock and sizes, then prices the order. Nothing is
// written here.
func (s *service) validate(ctx context.Context, tx *gorm.DB, req Request) (*validatedOrder, error) {
	lines, err := s.cart.WithTx(tx).ResolveLines(ctx, req.UserID, req.CartItemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cart lines")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, MessageEmptyCart)
	}

	subtotal, err := helpers.ValidateLines(lines)
	if err != nil {
		return nil, err
	}

	var voucher *models.Voucher
	if req.VoucherCode != "" {
		voucher, err = s.vouchers.WithTx(tx).FindByCode(ctx, req.VoucherCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
		}
	}

	quote := helpers.PriceOrder(subtotal, voucher, req.DiscountAmount, s.now(), s.rates)
	if req.VoucherCode != "" && quote.VoucherCode == nil {
		reason := "unknown"
		if quote.VoucherDropped {
			reason = "expired"
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"voucher_code": req.VoucherCode,
			"reason":       reason,
		}), "checkout.voucher_dropped")
	}
	return &validatedOrder{lines: lines, quote: quote}, nil
}

// finalize commits a cash-on-delivery order: stock is taken and the cart lines are consumed.
func (s *service) finalize(ctx context.Context, tx *gorm.DB, req Request, v *validatedOrder) (*models.Order, error) {
	order, err := s.insertOrder(ctx, tx, req, v, enums.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	stock := s.stock.WithTx(tx)
	for _, line := range v.lines {
		ok, err := stock.Decrement(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		if ok {
			continue
		}
		available, err := stock.CurrentStock(ctx, line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload stock")
		}
		return nil, helpers.InsufficientStockError(line.ProductID, line.Title, available, line.Quantity)
	}

	ids := cart.LineIDs(v.lines)
	deleted, err := s.cart.WithTx(tx).DeleteLines(ctx, req.UserID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart lines")
	}
	if deleted != int64(len(ids)) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, MessageCartChanged)
	}
	return order, nil
}

// prepare records the order for external payment. Stock and cart stay untouched until the
// payment is confirmed.
func (s *service) prepare(ctx context.Context, tx *gorm.DB, req Request, v *validatedOrder) (*models.Order, error) {
	return s.insertOrder(ctx, tx, req, v, enums.OrderStatusPendingPayment)
}

func (s *service) insertOrder(ctx context.Context, tx *gorm.DB, req Request, v *validatedOrder, status enums.OrderStatus) (*models.Order, error) {
	repo := s.orders.WithTx(tx)
	order := &models.Order{
		UserID:            req.UserID,
		Status:            status,
		TotalPrice:        v.quote.Total,
		PaymentMethod:     req.PaymentMethod,
		ShippingAddressID: req.ShippingAddressID,
	}
	if v.quote.VoucherCode != nil {
		discount := v.quote.Discount
		order.VoucherCode = v.quote.VoucherCode
		order.DiscountAmount = &discount
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
	}

	items := make([]models.OrderItem, 0, len(v.lines))
	for _, line := range v.lines {
		items = append(items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Size:      line.Size,
		})
	}
	if err := repo.CreateItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order items")
	}
	order.Items = items
	return order, nil
}

func (s *service) notify(ctx context.Context, req Request, order *models.Order) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("Your order #%d has been placed.", order.ID)
	if !req.Action.Finalizes() {
		message = fmt.Sprintf("Your order #%d is awaiting payment.", order.ID)
	}
	s.notifier.Notify(ctx, req.UserID, enums.NotificationCategoryOrder, message)
}

func validateRequest(req Request) error {
	if req.UserID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, MessageLoginRequired)
	}
	if !req.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid checkout action.")
	}
	if !req.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Unsupported payment method.")
	}
	if req.ShippingAddressID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Shipping address is required.")
	}
	for _, id := range req.CartItemIDs {
		if id <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid cart item selection.")
		}
	}
	return nil
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
