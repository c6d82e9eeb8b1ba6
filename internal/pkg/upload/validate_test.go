package upload

import (
	"strings"
	"testing"
)

func TestValidateReceiptBySniff(t *testing.T) {
	pngHead := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHead := []byte("\xff\xd8\xff\xe0\x00\x10JFIF")
	pdfHead := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3")
	htmlHead := []byte("<!DOCTYPE html><html><body>")

	tests := []struct {
		name     string
		filename string
		head     []byte
		wantMime string
		wantErr  bool
	}{
		{"png", "recibo.png", pngHead, "image/png", false},
		{"jpeg", "nota.jpg", jpegHead, "image/jpeg", false},
		{"pdf", "fatura.pdf", pdfHead, "application/pdf", false},
		{"pdf sniffed as octet-stream", "fatura.pdf", []byte{0x00, 0x01, 0x02, 0x03}, "application/pdf", false},
		{"html renamed to png", "recibo.png", htmlHead, "", true},
		{"blocked extension", "script.exe", pngHead, "", true},
		{"svg blocked", "logo.svg", []byte("<?xml version=\"1.0\"?><svg>"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := ValidateReceiptBySniff(tt.filename, tt.head)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got mime %q", mime)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.EqualFold(mime, tt.wantMime) {
				t.Errorf("mime = %q, want %q", mime, tt.wantMime)
			}
		})
	}
}
