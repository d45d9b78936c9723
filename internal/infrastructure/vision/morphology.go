package vision

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// Clean выполняет закрытие, затем открытие прямоугольным элементом kernel×kernel.
// Закрытие склеивает рваные края одной выбоины, открытие убирает одиночный шум.
// Порядок и число итераций влияют на результат: мелкие выбоины исчезают,
// а соседние сливаются, если их менять без перенастройки порогов.
func Clean(mask *Mask, kernel, closeIter, openIter int) *Mask {
	out := mask.Clone()
	out = Close(out, kernel, closeIter)
	out = Open(out, kernel, openIter)
	return out
}

// Close делает iter дилатаций, затем iter эрозий
func Close(mask *Mask, kernel, iter int) *Mask {
	out := mask
	for i := 0; i < iter; i++ {
		out = Dilate(out, kernel)
	}
	for i := 0; i < iter; i++ {
		out = Erode(out, kernel)
	}
	return out
}

// Open делает iter эрозий, затем iter дилатаций
func Open(mask *Mask, kernel, iter int) *Mask {
	out := mask
	for i := 0; i < iter; i++ {
		out = Erode(out, kernel)
	}
	for i := 0; i < iter; i++ {
		out = Dilate(out, kernel)
	}
	return out
}

// Dilate расширяет передний план. Пиксели за границей не учитываются:
// окно 2r+1 с продолжением края даёт тот же максимум.
func Dilate(mask *Mask, kernel int) *Mask {
	r := kernel / 2
	if r <= 0 {
		return mask.Clone()
	}
	return maskFromRGBA(effect.Dilate(mask.Gray(), float64(r)))
}

// Erode сужает передний план. Пиксели за границей не учитываются,
// поэтому объекты у края кадра не «съедаются» границей.
func Erode(mask *Mask, kernel int) *Mask {
	r := kernel / 2
	if r <= 0 {
		return mask.Clone()
	}
	return maskFromRGBA(effect.Erode(mask.Gray(), float64(r)))
}

func maskFromRGBA(img *image.RGBA) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+m.Width*4]
		for x := 0; x < m.Width; x++ {
			m.Pix[y*m.Width+x] = row[x*4] >= 128
		}
	}
	return m
}
