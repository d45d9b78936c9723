package vision

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"pothole-tracker/internal/domain/entity"
)

func TestNormalize_InvalidImage(t *testing.T) {
	_, err := Normalize(nil, 640, 480)
	require.True(t, errors.Is(err, entity.ErrInvalidImage))

	_, err = Normalize(image.NewNRGBA(image.Rect(0, 0, 0, 10)), 640, 480)
	require.True(t, errors.Is(err, entity.ErrInvalidImage))
}

func TestNormalize_Sizes(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"shrink", 1280, 960},
		{"enlarge", 320, 240},
		{"mixed", 1000, 200},
		{"same", 640, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(newScene(tt.w, tt.h), 640, 480)
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 640, 480), out.Bounds())
		})
	}
}

func TestNormalize_CopiesInput(t *testing.T) {
	src := newScene(640, 480)
	out, err := Normalize(src, 640, 480)
	require.NoError(t, err)
	require.Equal(t, src.Pix, out.Pix)

	out.Pix[0] = 0
	require.Equal(t, uint8(220), src.Pix[0])
}

func TestSelectRegion(t *testing.T) {
	frame := newScene(640, 480)
	region, err := SelectRegion(frame, 0.3)
	require.NoError(t, err)
	require.Equal(t, image.Pt(0, 144), region.Origin)
	require.Equal(t, 640, region.Width())
	require.Equal(t, 336, region.Height())
	require.Equal(t, 640*336, region.Area())
	require.Equal(t, image.Pt(5, 150), region.ToFrame(image.Pt(5, 6)))
}

func TestSelectRegion_CopiesPixels(t *testing.T) {
	frame := newScene(64, 48)
	fillRect(frame, image.Rect(0, 47, 1, 48), hole)

	region, err := SelectRegion(frame, 0.5)
	require.NoError(t, err)
	require.Equal(t, hole, region.Image.NRGBAAt(0, 23))

	region.Image.SetNRGBA(0, 0, hole)
	require.Equal(t, pavement, frame.NRGBAAt(0, 24))
}

func TestSelectRegion_EmptyRegion(t *testing.T) {
	_, err := SelectRegion(newScene(10, 10), 0.99)
	require.True(t, errors.Is(err, entity.ErrConfiguration))
}

func TestGrayscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	gray := Grayscale(img)
	require.Equal(t, []uint8{76, 150, 255}, gray.Pix)
}

func TestSmooth_UniformStaysUniform(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range gray.Pix {
		gray.Pix[i] = 128
	}
	out := Smooth(gray, 5)
	for _, v := range out.Pix {
		require.InDelta(t, 128, int(v), 1)
	}
}

func TestBinomialRow(t *testing.T) {
	require.Equal(t, []float64{1, 4, 6, 4, 1}, binomialRow(5))
	require.Equal(t, []float64{1, 2, 1}, binomialRow(3))
}

func TestOtsuThreshold(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range gray.Pix {
		if i < 30 {
			gray.Pix[i] = 20
		} else {
			gray.Pix[i] = 220
		}
	}
	th := OtsuThreshold(gray)
	require.GreaterOrEqual(t, int(th), 20)
	require.Less(t, int(th), 220)
}

func TestOtsuThreshold_Uniform(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range gray.Pix {
		gray.Pix[i] = 90
	}
	require.Equal(t, uint8(0), OtsuThreshold(gray))
}

func TestBinarize_DarkIsForeground(t *testing.T) {
	frame := newScene(64, 64)
	fillRect(frame, image.Rect(20, 20, 40, 40), hole)

	mask, th := Binarize(Region{Image: frame}, 5)
	require.True(t, th > 20 && th < 220)
	require.True(t, mask.At(30, 30))
	require.False(t, mask.At(5, 5))
	require.True(t, mask.At(20, 30))
	require.False(t, mask.At(19, 30))
}

func TestBinarize_UniformIsBackground(t *testing.T) {
	mask, _ := Binarize(Region{Image: newScene(32, 32)}, 5)
	require.Equal(t, 0, mask.Count())
}

func TestClean_RemovesSpeckAndFillsGap(t *testing.T) {
	mask := maskFromRects(40, 40,
		image.Rect(10, 10, 30, 30),
		image.Rect(2, 2, 3, 3), // одиночный шум
	)
	mask.Set(20, 20, false) // дырка внутри пятна

	out := Clean(mask, 3, 1, 1)
	require.False(t, out.At(2, 2))
	require.True(t, out.At(20, 20))
	require.True(t, out.At(10, 15))
	require.False(t, out.At(9, 15))

	// Исходная маска не меняется.
	require.True(t, mask.At(2, 2))
}

func TestMorphology_BorderIsIgnored(t *testing.T) {
	mask := maskFromRects(10, 10, image.Rect(0, 0, 10, 10))
	require.Equal(t, 100, Erode(mask, 3).Count())

	single := maskFromRects(10, 10, image.Rect(0, 0, 1, 1))
	require.Equal(t, 4, Dilate(single, 3).Count())
}

// windowRef считает морфологию напрямую по окну kernel×kernel без выхода за границу
func windowRef(m *Mask, kernel int, dilate bool) *Mask {
	r := kernel / 2
	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := !dilate
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
						continue
					}
					if dilate {
						v = v || m.At(nx, ny)
					} else {
						v = v && m.At(nx, ny)
					}
				}
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func TestMorphology_MatchesWindow(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		mask := NewMask(37, 29)
		for j := range mask.Pix {
			mask.Pix[j] = rnd.Intn(3) == 0
		}
		for _, kernel := range []int{3, 5} {
			require.Equal(t, windowRef(mask, kernel, true).Pix, Dilate(mask, kernel).Pix)
			require.Equal(t, windowRef(mask, kernel, false).Pix, Erode(mask, kernel).Pix)
		}
	}
}

func TestMorphology_KernelOneIsCopy(t *testing.T) {
	mask := maskFromRects(10, 10, image.Rect(2, 2, 4, 4))
	out := Dilate(mask, 1)
	require.Equal(t, mask.Pix, out.Pix)
	out.Set(0, 0, true)
	require.False(t, mask.At(0, 0))
}

func TestMask_Gray(t *testing.T) {
	mask := maskFromRects(4, 2, image.Rect(1, 0, 2, 1))
	g := mask.Gray()
	require.Equal(t, []uint8{0, 255, 0, 0, 0, 0, 0, 0}, g.Pix)
}

func TestFindContours(t *testing.T) {
	mask := maskFromRects(50, 50,
		image.Rect(5, 5, 15, 10),
		image.Rect(30, 20, 40, 45),
	)

	contours := FindContours(mask)
	require.Len(t, contours, 2)
	require.Equal(t, image.Rect(5, 5, 15, 10), contours[0].Bounds())
	require.Equal(t, image.Rect(30, 20, 40, 45), contours[1].Bounds())
	require.Equal(t, image.Pt(5, 5), contours[0][0])
}

func TestFindContours_DiagonalIsConnected(t *testing.T) {
	mask := NewMask(10, 10)
	for i := 2; i < 7; i++ {
		mask.Set(i, i, true)
	}
	contours := FindContours(mask)
	require.Len(t, contours, 1)
	require.Equal(t, image.Rect(2, 2, 7, 7), contours[0].Bounds())
}

func TestFindContours_SkipsNested(t *testing.T) {
	// Кольцо с точкой внутри: нужна только внешняя граница кольца.
	mask := maskFromRects(30, 30, image.Rect(5, 5, 25, 25))
	for y := 8; y < 22; y++ {
		for x := 8; x < 22; x++ {
			mask.Set(x, y, false)
		}
	}
	mask.Set(15, 15, true)

	contours := FindContours(mask)
	require.Len(t, contours, 1)
	require.Equal(t, image.Rect(5, 5, 25, 25), contours[0].Bounds())
}

func TestFindContours_TouchesBorder(t *testing.T) {
	mask := maskFromRects(20, 20, image.Rect(0, 0, 20, 20))
	contours := FindContours(mask)
	require.Len(t, contours, 1)
	require.Equal(t, image.Rect(0, 0, 20, 20), contours[0].Bounds())
}

func TestFindContours_Empty(t *testing.T) {
	require.Empty(t, FindContours(NewMask(10, 10)))
	require.Empty(t, FindContours(NewMask(0, 0)))
}

func TestFindContours_SinglePixel(t *testing.T) {
	mask := NewMask(5, 5)
	mask.Set(2, 3, true)
	contours := FindContours(mask)
	require.Len(t, contours, 1)
	require.Equal(t, Contour{image.Pt(2, 3)}, contours[0])
}

func TestClassify(t *testing.T) {
	cfg := entity.DefaultDetectionConfig()
	cfg.MinArea = 10
	regionArea := 640 * 336

	mask := maskFromRects(640, 336,
		image.Rect(10, 10, 11, 60),    // полоска 1x50, aspect 0.02
		image.Rect(100, 10, 120, 30),  // квадрат 20x20
		image.Rect(200, 10, 500, 100), // 300x90, aspect 3.3
	)
	boxes := Classify(FindContours(mask), regionArea, cfg)

	require.Len(t, boxes, 2)
	require.Equal(t, entity.BoundingBox{X: 100, Y: 10, Width: 20, Height: 20, Area: 400}, boxes[0])
	require.Equal(t, 200, boxes[1].X)
}

func TestClassify_AreaBounds(t *testing.T) {
	cfg := entity.DefaultDetectionConfig()
	regionArea := 640 * 336

	square := func(side int) Contour {
		return Contour{image.Pt(0, 0), image.Pt(side-1, side-1)}
	}

	require.Empty(t, Classify([]Contour{square(14)}, regionArea, cfg)) // 196 < 200
	require.Len(t, Classify([]Contour{square(15)}, regionArea, cfg), 1)

	// 400x350 больше 0.65 площади области
	big := Contour{image.Pt(0, 0), image.Pt(399, 349)}
	require.Empty(t, Classify([]Contour{big}, regionArea, cfg))
}

func TestParseStyle(t *testing.T) {
	style, err := ParseStyle("#00FF00", "Яма")
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{G: 255, A: 255}, style.Color)
	require.Equal(t, "Яма", style.Label)

	style, err = ParseStyle("", "")
	require.NoError(t, err)
	require.Equal(t, DefaultStyle(), style)

	_, err = ParseStyle("red", "")
	require.Error(t, err)
}

func TestAnnotate_RemapsAndCopies(t *testing.T) {
	frame := newScene(100, 100)
	region := Region{Origin: image.Pt(0, 30)}
	box := entity.BoundingBox{X: 10, Y: 20, Width: 30, Height: 30, Area: 900}

	out := Annotate(frame, []entity.BoundingBox{box}, region, DefaultStyle())

	red := color.NRGBA{R: 255, A: 255}
	require.Equal(t, red, out.NRGBAAt(10, 50))
	require.Equal(t, red, out.NRGBAAt(39, 79))
	require.Equal(t, pavement, out.NRGBAAt(25, 65))
	require.Equal(t, pavement, frame.NRGBAAt(10, 50))
}
