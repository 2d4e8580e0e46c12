package responses

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Result is the flat body returned by order-placing endpoints. Failures use the same shape
// with Success false, so clients always get something renderable.
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OrderID       *int64 `json:"order_id,omitempty"`
	Status        string `json:"status,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Total         string `json:"total,omitempty"`
}
