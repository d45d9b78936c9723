// Package imagecodec декодирует загруженные снимки и кодирует размеченный кадр в JPEG.
package imagecodec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// DefaultQuality качество JPEG для сохранения и отправки результата
const DefaultQuality = 90

// Decode читает JPEG, PNG, GIF, BMP или WebP.
// Пустые и нечитаемые данные дают ErrInvalidImage.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: no data", entity.ErrInvalidImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("%w: zero size", entity.ErrInvalidImage)
	}

	return img, format, nil
}

// EncodeJPEG кодирует изображение в JPEG; quality вне 1..100 заменяется на DefaultQuality
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", entity.ErrInvalidImage)
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Codec реализует port.ImageCodec поверх Decode и EncodeJPEG
type Codec struct {
	Quality int
}

// Decode декодирует снимок, формат отбрасывается
func (c Codec) Decode(data []byte) (image.Image, error) {
	img, _, err := Decode(data)
	return img, err
}

// Encode кодирует кадр в JPEG с качеством кодека
func (c Codec) Encode(img image.Image) ([]byte, error) {
	return EncodeJPEG(img, c.Quality)
}

var _ port.ImageCodec = Codec{}
