package entity

import "image"

// BoundingBox описывает прямоугольник, охватывающий найденную выбоину
type BoundingBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина в пикселях
	Height int // высота в пикселях
	Area   int // площадь прямоугольника (Width * Height)
}

// NewBoundingBox строит прямоугольник по image.Rectangle и считает площадь
func NewBoundingBox(r image.Rectangle) BoundingBox {
	return BoundingBox{
		X:      r.Min.X,
		Y:      r.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
		Area:   r.Dx() * r.Dy(),
	}
}

// Aspect возвращает отношение ширины к высоте.
// Для нулевой высоты второй результат false.
func (b BoundingBox) Aspect() (float64, bool) {
	if b.Height <= 0 {
		return 0, false
	}
	return float64(b.Width) / float64(b.Height), true
}

// Translate сдвигает прямоугольник на (dx, dy)
func (b BoundingBox) Translate(dx, dy int) BoundingBox {
	b.X += dx
	b.Y += dy
	return b
}

// Rect возвращает прямоугольник в виде image.Rectangle
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Center возвращает координаты центра
func (b BoundingBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}
