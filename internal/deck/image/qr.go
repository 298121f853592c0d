package image

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the pixel edge for generated share QR codes.
const DefaultQRSize = 256

// ShareQR renders a share URL as a PNG QR code. Size is the output edge in
// pixels; non-positive values use DefaultQRSize.
func ShareQR(shareURL string, size int) ([]byte, error) {
	if strings.TrimSpace(shareURL) == "" {
		return nil, fmt.Errorf("share URL is required")
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(shareURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
