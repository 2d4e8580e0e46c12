package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/api/middleware"
	"github.com/storefront-labs/storefront-backend/api/responses"
	"github.com/storefront-labs/storefront-backend/api/validators"
	checkoutsvc "github.com/storefront-labs/storefront-backend/internal/checkout"
	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

const maxVoucherCodeLength = 64

// PendingLoader reads prepared checkout state.
type PendingLoader interface {
	Load(ctx context.Context, userID, orderID int64) (*checkoutsvc.PendingCheckout, error)
}

// Checkout places or prepares an order from the caller's cart. Every outcome is a 200 with
// the flat result body.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteResultError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			CheckoutDenied(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteResultError(r.Context(), logg, w, err)
			return
		}

		action, method, err := payload.parsedEnums()
		if err != nil {
			responses.WriteResultError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), checkoutsvc.Request{
			UserID:            userID,
			Action:            action,
			ShippingAddressID: payload.ShippingAddressID,
			PaymentMethod:     method,
			CartItemIDs:       payload.CartItemIDs,
			VoucherCode:       validators.NormalizeCode(payload.VoucherCode, maxVoucherCodeLength),
			DiscountAmount:    payload.DiscountAmount,
		})
		if err != nil {
			responses.WriteResultError(r.Context(), logg, w, err)
			return
		}

		orderID := result.OrderID
		responses.WriteResult(w, responses.Result{
			Message:       result.Message,
			OrderID:       &orderID,
			Status:        string(result.Status),
			PaymentMethod: string(result.PaymentMethod),
			Total:         result.Total.StringFixed(2),
		})
	}
}

// CheckoutDenied renders authentication failures on result-shaped routes with the login
// prompt instead of the token error.
func CheckoutDenied(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		err = pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, checkoutsvc.MessageLoginRequired)
	}
	responses.WriteResultError(ctx, logg, w, err)
}

// PendingCheckout returns the cart lines held for a prepared order.
func PendingCheckout(store PendingLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pending checkout store unavailable"))
			return
		}
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pending, err := store.Load(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pendingCheckoutResponse{
			OrderID:     pending.OrderID,
			CartItemIDs: pending.CartItemIDs,
			CreatedAt:   pending.CreatedAt.Format(time.RFC3339),
		})
	}
}

type checkoutRequest struct {
	Action            string           `json:"action" validate:"required,oneof=place_order prepare_order"`
	ShippingAddressID int64            `json:"shipping_address_id" validate:"required,gt=0"`
	PaymentMethod     string           `json:"payment_method" validate:"required,oneof=cod bank_transfer card gcash"`
	CartItemIDs       []int64          `json:"cart_item_ids,omitempty" validate:"omitempty,max=500,dive,gt=0"`
	VoucherCode       string           `json:"voucher_code,omitempty" validate:"omitempty,max=64"`
	DiscountAmount    *decimal.Decimal `json:"discount_amount,omitempty"`
}

type pendingCheckoutResponse struct {
	OrderID     int64   `json:"order_id"`
	CartItemIDs []int64 `json:"cart_item_ids"`
	CreatedAt   string  `json:"created_at"`
}

func (p checkoutRequest) parsedEnums() (enums.CheckoutAction, enums.PaymentMethod, error) {
	action, err := enums.ParseCheckoutAction(p.Action)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request: action is not supported.")
	}
	method, err := enums.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request: payment_method is not supported.")
	}
	return action, method, nil
}
