package utils

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// TicketQRCode renders a ticket code as a PNG QR, returned as raw bytes.
func TicketQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
