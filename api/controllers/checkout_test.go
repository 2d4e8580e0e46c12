package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefront-labs/storefront-backend/pkg/errors"
)

func TestCheckoutRequestParsedEnums(t *testing.T) {
	action, method, err := checkoutRequest{Action: "prepare_order", PaymentMethod: "gcash"}.parsedEnums()
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutActionPrepareOrder, action)
	assert.Equal(t, enums.PaymentMethodGCash, method)
}

func TestCheckoutRequestParsedEnumsRejectsUnknown(t *testing.T) {
	cases := map[string]checkoutRequest{
		"action":         {Action: "refund", PaymentMethod: "cod"},
		"payment method": {Action: "place_order", PaymentMethod: "paypal"},
	}
	for label, req := range cases {
		t.Run(label, func(t *testing.T) {
			_, _, err := req.parsedEnums()
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}
