package render

import (
	"image"
	"sync"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// GenerateQRCodeImage returns a QR code image for the given payload.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qrCode.DisableBorder = true

	return qrCode.Image(sizePx), nil
}

// QRCache keeps the last generated code so screens redrawn every frame
// only encode when the payload or size changes.
type QRCache struct {
	mu      sync.Mutex
	payload string
	size    int
	img     image.Image
	err     error
}

func (c *QRCache) Image(payload string, sizePx int) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if payload == c.payload && sizePx == c.size && (c.img != nil || c.err != nil) {
		return c.img, c.err
	}
	c.payload, c.size = payload, sizePx
	c.img, c.err = GenerateQRCodeImage(payload, sizePx)
	return c.img, c.err
}
