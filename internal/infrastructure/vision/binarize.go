package vision

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
)

// Binarize переводит область в маску: серый, сглаживание, порог Otsu с инверсией.
// Пиксели темнее порога (включительно) становятся передним планом: выбоины темнее асфальта.
// Возвращает маску и найденный порог.
func Binarize(region Region, blurSize int) (*Mask, uint8) {
	gray := Grayscale(region.Image)
	blurred := Smooth(gray, blurSize)
	t := OtsuThreshold(blurred)

	b := blurred.Bounds()
	mask := NewMask(b.Dx(), b.Dy())
	for y := 0; y < mask.Height; y++ {
		row := blurred.Pix[y*blurred.Stride : y*blurred.Stride+mask.Width]
		for x, v := range row {
			if v <= t {
				mask.Set(x, y, true)
			}
		}
	}
	return mask, t
}

// Grayscale считает яркость по BT.601 в целочисленном виде (как cvtColor в OpenCV).
func Grayscale(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			r := uint32(src[x*4])
			g := uint32(src[x*4+1])
			bl := uint32(src[x*4+2])
			dst[x] = uint8((r*4899 + g*9617 + bl*1868 + 8192) >> 14)
		}
	}
	return gray
}

// Smooth применяет симметричное биномиальное ядро size×size (дискретный гаусс).
// Края продолжаются крайними пикселями.
func Smooth(gray *image.Gray, size int) *image.Gray {
	if size <= 1 {
		out := image.NewGray(gray.Bounds())
		copy(out.Pix, gray.Pix)
		return out
	}

	weights := binomialRow(size)
	k := convolution.NewKernel(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			k.Matrix[y*size+x] = weights[x] * weights[y]
		}
	}

	rgba := convolution.Convolve(gray, k.Normalized(), &convolution.Options{Wrap: false})

	b := rgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = rgba.Pix[y*rgba.Stride+x*4]
		}
	}
	return out
}

// binomialRow возвращает строку треугольника Паскаля длины n (5 → 1 4 6 4 1).
func binomialRow(n int) []float64 {
	row := make([]float64, n)
	row[0] = 1
	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			row[j] += row[j-1]
		}
	}
	return row
}

// OtsuThreshold выбирает порог, максимизирующий межклассовую дисперсию гистограммы.
// При равных значениях берётся наименьший порог; для однородного изображения порог 0.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for _, v := range gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()] {
			hist[v]++
		}
	}

	total := b.Dx() * b.Dy()
	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i * n)
	}

	var (
		best     uint8
		maxSigma float64
		w0       int
		sum0     float64
	)
	for t := 0; t < 256; t++ {
		w0 += hist[t]
		sum0 += float64(t * hist[t])
		w1 := total - w0
		if w0 == 0 || w1 == 0 {
			continue
		}

		m0 := sum0 / float64(w0)
		m1 := (sumAll - sum0) / float64(w1)
		p0 := float64(w0) / float64(total)
		p1 := float64(w1) / float64(total)
		sigma := p0 * p1 * (m0 - m1) * (m0 - m1)
		if sigma > maxSigma {
			maxSigma = sigma
			best = uint8(t)
		}
	}
	return best
}
