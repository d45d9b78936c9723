package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"pothole-tracker/internal/domain/entity"
)

// Region область интереса (нижняя часть кадра с дорожным полотном).
// Пиксели скопированы и начинаются с (0,0); Origin задаёт смещение области в полном кадре.
type Region struct {
	Image  *image.NRGBA
	Origin image.Point
}

// SelectRegion вырезает строки [⌈topCrop·H⌉, H) по всей ширине кадра.
func SelectRegion(frame *image.NRGBA, topCrop float64) (Region, error) {
	if frame == nil {
		return Region{}, fmt.Errorf("%w: frame is nil", entity.ErrInvalidImage)
	}
	b := frame.Bounds()
	offset := entity.CropOffset(b.Dy(), topCrop)
	if offset < 0 || offset >= b.Dy() {
		return Region{}, &entity.ConfigurationError{
			Field:  "top_crop_fraction",
			Reason: fmt.Sprintf("offset %d outside frame height %d", offset, b.Dy()),
		}
	}

	rect := image.Rect(b.Min.X, b.Min.Y+offset, b.Max.X, b.Max.Y)
	return Region{
		Image:  imaging.Crop(frame, rect),
		Origin: image.Pt(0, offset),
	}, nil
}

// Width ширина области
func (r Region) Width() int { return r.Image.Bounds().Dx() }

// Height высота области
func (r Region) Height() int { return r.Image.Bounds().Dy() }

// Area площадь области в пикселях
func (r Region) Area() int { return r.Width() * r.Height() }

// ToFrame переводит локальную точку области в координаты полного кадра
func (r Region) ToFrame(p image.Point) image.Point {
	return p.Add(r.Origin)
}

// BoxToFrame переводит прямоугольник из координат области в координаты кадра
func (r Region) BoxToFrame(b entity.BoundingBox) entity.BoundingBox {
	return b.Translate(r.Origin.X, r.Origin.Y)
}
