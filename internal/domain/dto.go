package domain

// Result is the outcome of every mutating service call. The service maps
// store failures and validations onto it; it never throws across its contract.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	// Warning carries a validation note (e.g. a delivery order with no
	// address) that did not abort the write.
	Warning string `json:"warning,omitempty"`
}

func OKResult(msg string) Result  { return Result{OK: true, Message: msg} }
func ErrResult(msg string) Result { return Result{OK: false, Message: msg} }

func (r Result) WithWarning(w string) Result { r.Warning = w; return r }

type CreateOrderRequest struct {
	OrderType  string `json:"order_type"`
	CustomerID *int64 `json:"customer_id,omitempty"`
	AddressID  *int64 `json:"address_id,omitempty"`
	PartnerID  *int64 `json:"partner_id,omitempty"`
}

type CreateOrderResponse struct {
	OrderID int64  `json:"order_id"`
	Result  Result `json:"result"`
}

type DeleteOrdersRequest struct {
	IDs []int64 `json:"ids"`
}
