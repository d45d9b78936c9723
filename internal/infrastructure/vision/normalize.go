package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"pothole-tracker/internal/domain/entity"
)

// Normalize приводит снимок к рабочему размеру, чтобы пороги площади были стабильны.
// При уменьшении используется усреднение по площади (box), при увеличении билинейная интерполяция.
func Normalize(img image.Image, width, height int) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image is nil", entity.ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero dimension %dx%d", entity.ErrInvalidImage, b.Dx(), b.Dy())
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d", entity.ErrConfiguration, width, height)
	}

	// Размер уже рабочий: только копируем, чтобы не трогать буфер вызывающего.
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img), nil
	}

	filter := imaging.Linear
	if b.Dx()*b.Dy() >= width*height {
		filter = imaging.Box
	}
	return imaging.Resize(img, width, height, filter), nil
}
