package enums

import "fmt"

// CheckoutAction selects how a validated order is committed.
type CheckoutAction string

const (
	// CheckoutActionPlaceOrder finalizes immediately: stock is decremented and cart lines consumed.
	CheckoutActionPlaceOrder CheckoutAction = "place_order"
	// CheckoutActionPrepareOrder persists an order awaiting external payment and leaves stock and cart alone.
	CheckoutActionPrepareOrder CheckoutAction = "prepare_order"
)

var validCheckoutActions = []CheckoutAction{
	CheckoutActionPlaceOrder,
	CheckoutActionPrepareOrder,
}

// String implements fmt.Stringer.
func (a CheckoutAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known CheckoutAction.
func (a CheckoutAction) IsValid() bool {
	for _, candidate := range validCheckoutActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// Finalizes reports whether the action commits stock and cart effects immediately.
func (a CheckoutAction) Finalizes() bool {
	return a == CheckoutActionPlaceOrder
}

// ParseCheckoutAction converts raw input into a CheckoutAction.
func ParseCheckoutAction(value string) (CheckoutAction, error) {
	for _, candidate := range validCheckoutActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout action %q", value)
}
