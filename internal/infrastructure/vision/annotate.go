package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"pothole-tracker/internal/domain/entity"
)

// Style оформление разметки
type Style struct {
	Color     color.NRGBA
	Thickness int
	Label     string
}

// DefaultStyle красная рамка толщиной 2 с подписью "Pothole"
func DefaultStyle() Style {
	return Style{
		Color:     color.NRGBA{R: 255, A: 255},
		Thickness: 2,
		Label:     "Pothole",
	}
}

// ParseStyle собирает стиль из hex-цвета ("#FF0000") и подписи
func ParseStyle(hex, label string) (Style, error) {
	style := DefaultStyle()
	if hex != "" {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Style{}, fmt.Errorf("parse box color %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		style.Color = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	if label != "" {
		style.Label = label
	}
	return style, nil
}

// labelGap отступ подписи над рамкой
const labelGap = 5

// Annotate рисует рамки и подписи на копии полного кадра.
// boxes заданы в координатах области; y сдвигается на смещение области.
func Annotate(frame *image.NRGBA, boxes []entity.BoundingBox, region Region, style Style) *image.NRGBA {
	dst := imaging.Clone(frame)
	for _, b := range boxes {
		full := region.BoxToFrame(b)
		drawOutline(dst, full.Rect(), style)
		drawLabel(dst, full.Rect(), style)
	}
	return dst
}

func drawOutline(dst *image.NRGBA, r image.Rectangle, style Style) {
	t := style.Thickness
	if t <= 0 {
		t = 1
	}
	src := image.NewUniform(style.Color)
	bands := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), // верх
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), // низ
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), // лево
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), // право
	}
	for _, band := range bands {
		draw.Draw(dst, band.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

func drawLabel(dst *image.NRGBA, r image.Rectangle, style Style) {
	if style.Label == "" {
		return
	}
	face := basicfont.Face7x13
	baseline := r.Min.Y - labelGap
	// Над рамкой не помещается: пишем внутри, под верхней границей.
	if baseline-face.Metrics().Ascent.Ceil() < 0 {
		baseline = r.Min.Y + face.Metrics().Ascent.Ceil() + style.Thickness
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(style.Color),
		Face: face,
		Dot:  fixed.P(r.Min.X, baseline),
	}
	d.DrawString(style.Label)
}
