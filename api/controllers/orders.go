package controllers

import (
	"net/http"

	"github.com/storefront-labs/storefront-backend/api/middleware"
	"github.com/storefront-labs/storefront-backend/api/responses"
	"github.com/storefront-labs/storefront-backend/api/validators"
	internalorders "github.com/storefront-labs/storefront-backend/internal/orders"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
)

const messageOrderCancelled = "Order cancelled."

// CancelOrder cancels one of the caller's Pending orders and restocks its items.
func CancelOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteResultError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			CheckoutDenied(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			responses.WriteResultError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Cancel(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteResultError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(w, responses.Result{
			Message: messageOrderCancelled,
			OrderID: &result.OrderID,
			Status:  string(result.Status),
		})
	}
}
