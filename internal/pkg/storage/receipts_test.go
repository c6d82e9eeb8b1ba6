package storage

import "testing"

func TestReceiptObjectKey(t *testing.T) {
	cfg := &Config{}
	key := cfg.ReceiptObjectKey(42, "abc-123", ".pdf", 2026, 8)
	want := "receipts/42/2026/08/abc-123.pdf"
	if key != want {
		t.Fatalf("ReceiptObjectKey = %q, want %q", key, want)
	}
}

func TestAllowedReceiptExtension(t *testing.T) {
	allowed := []string{"nota.pdf", "foto.JPG", "recibo.jpeg", "scan.png"}
	for _, name := range allowed {
		if !AllowedReceiptExtension(name) {
			t.Errorf("expected %s to be allowed", name)
		}
	}
	denied := []string{"script.exe", "planilha.xlsx", "semextensao", "arquivo.svg"}
	for _, name := range denied {
		if AllowedReceiptExtension(name) {
			t.Errorf("expected %s to be denied", name)
		}
	}
}

func TestReceiptContentType(t *testing.T) {
	tests := map[string]string{
		".pdf":  "application/pdf",
		".jpg":  "image/jpeg",
		".JPEG": "image/jpeg",
		".png":  "image/png",
		".zip":  "application/octet-stream",
	}
	for ext, want := range tests {
		if got := receiptContentType(ext); got != want {
			t.Errorf("receiptContentType(%s) = %s, want %s", ext, got, want)
		}
	}
}
