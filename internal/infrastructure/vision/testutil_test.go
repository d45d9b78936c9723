package vision

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	pavement = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	hole     = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
)

// newScene создаёт светлый кадр, похожий на ровный асфальт
func newScene(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(pavement), image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func fillCircle(img *image.NRGBA, cx, cy, radius int, c color.NRGBA) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// maskFromRects строит маску с заполненными прямоугольниками
func maskFromRects(w, h int, rects ...image.Rectangle) *Mask {
	m := NewMask(w, h)
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.Set(x, y, true)
			}
		}
	}
	return m
}
