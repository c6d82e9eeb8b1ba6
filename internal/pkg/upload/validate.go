package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	// Note: SVG is intentionally excluded due to XSS risk without sanitization
}

var allowedMime = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// ValidateReceiptBySniff checks the provided filename (extension) and the
// first bytes (head) against the receipt whitelist. Returns the detected mime
// or an error. Extension and content must both pass; a renamed HTML file is
// rejected even with a valid extension.
func ValidateReceiptBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", errors.New("only JPG, PNG and PDF receipts are supported")
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", errors.New("invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", errors.New("SVG/XML files are not supported")
	}

	base := detected
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if allowedMime[base] {
		return base, nil
	}

	// PDFs sometimes sniff as octet-stream depending on the leading bytes;
	// fall back to the extension for that one case
	if base == "application/octet-stream" && ext == ".pdf" {
		return "application/pdf", nil
	}

	return "", errors.New("file content does not match an accepted receipt type")
}
