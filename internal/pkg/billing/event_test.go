package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderEvent(t *testing.T) {
	raw := []byte(`{
		"order_id": "ord_1",
		"order_status": "paid",
		"product_id": "prod_pro_1",
		"product_name": "Plano Pro",
		"customer": {"email": "A@B.com", "name": "A"},
		"payment": {"status": "paid", "method": "card", "amount": 100}
	}`)

	ev, err := ParseOrderEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "ord_1", ev.OrderID)
	assert.True(t, ev.IsPaid())
	assert.Equal(t, "paid", ev.Status())
	assert.Equal(t, "ord_1:paid", ev.EventKey())
	assert.Equal(t, "a@b.com", ev.Email())
}

func TestParseOrderEvent_Invalid(t *testing.T) {
	if _, err := ParseOrderEvent([]byte("not json")); err == nil {
		t.Fatalf("expected parse error for malformed body")
	}
	if _, err := ParseOrderEvent([]byte(`{"order_status":"paid"}`)); err == nil {
		t.Fatalf("expected parse error for missing order_id")
	}
}

func TestOrderEvent_IsPaid(t *testing.T) {
	tests := []struct {
		orderStatus   string
		paymentStatus string
		want          bool
	}{
		{orderStatus: "paid", want: true},
		{orderStatus: "PAID", want: true},
		{paymentStatus: "paid", want: true},
		{orderStatus: "pending", want: false},
		{orderStatus: "refused", want: false},
		{orderStatus: "refunded", want: false},
		{orderStatus: "cancelled", want: false},
		{want: false},
	}

	for _, tt := range tests {
		ev := &OrderEvent{OrderID: "1", OrderStatus: tt.orderStatus}
		ev.Payment.Status = tt.paymentStatus
		if got := ev.IsPaid(); got != tt.want {
			t.Fatalf("IsPaid(order=%q payment=%q) = %v, want %v", tt.orderStatus, tt.paymentStatus, got, tt.want)
		}
	}
}
