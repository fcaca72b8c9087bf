package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	apperrors "katok/internal/errors"
)

// Artifact - отрисованный QR билет
type Artifact struct {
	PNG     []byte
	DataURI string
}

// Generator кодирует текст билета в PNG через go-qrcode
type Generator struct {
	size int
}

func NewGenerator() *Generator {
	return &Generator{size: 256}
}

// Render кодирует текстовый блок билета в QR изображение.
// Ошибка кодирования - жесткий отказ всего запроса: без артефакта письмо не уходит.
func (g *Generator) Render(text string) (*Artifact, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, err)
	}

	return &Artifact{
		PNG:     png,
		DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}
