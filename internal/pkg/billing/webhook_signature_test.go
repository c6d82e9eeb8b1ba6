package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"order_id":"1"}`)
	secret := "top-secret"

	if !VerifyWebhookSignature(payload, signPayload(payload, secret), secret) {
		t.Fatalf("expected signature to validate")
	}
	if !VerifyWebhookSignature(payload, "  "+signPayload(payload, secret)+" ", secret) {
		t.Fatalf("expected padded signature header to validate")
	}
	if VerifyWebhookSignature(payload, "deadbeef", secret) {
		t.Fatalf("expected wrong signature to fail")
	}
	if VerifyWebhookSignature(payload, "not-hex", secret) {
		t.Fatalf("expected non-hex signature to fail")
	}
	if VerifyWebhookSignature(payload, "", secret) {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifyWebhookSignature(payload, signPayload(payload, secret), "") {
		t.Fatalf("expected empty secret to fail")
	}
	if VerifyWebhookSignature([]byte(`{"order_id":"2"}`), signPayload(payload, secret), secret) {
		t.Fatalf("expected signature over different body to fail")
	}
}
