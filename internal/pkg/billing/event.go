package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Order status values delivered by the payment provider.
const (
	OrderStatusPaid      = "paid"
	OrderStatusPending   = "pending"
	OrderStatusRefused   = "refused"
	OrderStatusRefunded  = "refunded"
	OrderStatusCancelled = "cancelled"
)

// OrderEvent is the inbound payment-provider order notification. It is
// transient; only the raw payload is persisted (PaymentWebhookEvent).
type OrderEvent struct {
	OrderID     string `json:"order_id"`
	OrderStatus string `json:"order_status"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Customer    struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer"`
	Payment struct {
		Status string `json:"status"`
		Method string `json:"method"`
		Amount int64  `json:"amount"`
	} `json:"payment"`
}

// ParseOrderEvent deserializes a provider payload and checks the fields the
// processor cannot work without.
func ParseOrderEvent(payload []byte) (*OrderEvent, error) {
	var ev OrderEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("invalid order event payload: %w", err)
	}
	if strings.TrimSpace(ev.OrderID) == "" {
		return nil, errors.New("order event payload missing order_id")
	}
	return &ev, nil
}

// IsPaid reports whether the event signals a completed payment. The provider
// carries the status both on the order and nested under payment; either one
// being "paid" counts.
func (ev *OrderEvent) IsPaid() bool {
	if strings.EqualFold(strings.TrimSpace(ev.OrderStatus), OrderStatusPaid) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(ev.Payment.Status), OrderStatusPaid)
}

// Status returns the normalized order status, preferring the order-level one.
func (ev *OrderEvent) Status() string {
	if s := strings.ToLower(strings.TrimSpace(ev.OrderStatus)); s != "" {
		return s
	}
	return strings.ToLower(strings.TrimSpace(ev.Payment.Status))
}

// EventKey identifies one delivery for deduplication: the provider retries
// the same order_id+status pair on non-2xx responses and timeouts.
func (ev *OrderEvent) EventKey() string {
	return strings.TrimSpace(ev.OrderID) + ":" + ev.Status()
}

// Email returns the normalized purchase email used for identity matching.
func (ev *OrderEvent) Email() string {
	return strings.ToLower(strings.TrimSpace(ev.Customer.Email))
}
