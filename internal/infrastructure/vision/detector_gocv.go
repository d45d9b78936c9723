//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// GoCVDetector тот же конвейер на OpenCV (сборка с тегом gocv).
type GoCVDetector struct {
	cfg   entity.DetectionConfig
	style Style
}

// NewGoCVDetector проверяет конфигурацию и создаёт детектор на OpenCV
func NewGoCVDetector(cfg entity.DetectionConfig, style Style) (*GoCVDetector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GoCVDetector{cfg: cfg, style: style}, nil
}

// Detect запускает анализ изображения и возвращает размеченный кадр.
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image) (*entity.DetectionResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty image", entity.ErrInvalidImage)
	}

	// Приводим изображение к рабочему размеру для стабильных порогов.
	interp := gocv.InterpolationLinear
	if mat.Cols()*mat.Rows() >= d.cfg.Width*d.cfg.Height {
		interp = gocv.InterpolationArea
	}
	frame := gocv.NewMat()
	defer frame.Close()
	gocv.Resize(mat, &frame, image.Pt(d.cfg.Width, d.cfg.Height), 0, 0, interp)

	// Область интереса: нижняя часть кадра.
	offset := d.cfg.RegionOffset()
	roi := frame.Region(image.Rect(0, offset, d.cfg.Width, d.cfg.Height))
	defer roi.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(roi, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(d.cfg.BlurKernel, d.cfg.BlurKernel), 0, 0, gocv.BorderReplicate)

	// Тёмные участки становятся передним планом.
	thresh := gocv.NewMat()
	defer thresh.Close()
	t := gocv.Threshold(blur, &thresh, 0, 255, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(d.cfg.MorphKernel, d.cfg.MorphKernel))
	defer kernel.Close()

	// Закрытие, затем открытие.
	dilate := func(m *gocv.Mat) { gocv.Dilate(*m, m, kernel) }
	erode := func(m *gocv.Mat) { gocv.Erode(*m, m, kernel) }
	repeat(&thresh, d.cfg.CloseIterations, dilate)
	repeat(&thresh, d.cfg.CloseIterations, erode)
	repeat(&thresh, d.cfg.OpenIterations, erode)
	repeat(&thresh, d.cfg.OpenIterations, dilate)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer points.Close()

	contours := make([]Contour, 0, points.Size())
	for i := 0; i < points.Size(); i++ {
		contours = append(contours, Contour(points.At(i).ToPoints()))
	}

	region := Region{Origin: image.Pt(0, offset)}
	boxes := Classify(contours, roi.Cols()*roi.Rows(), d.cfg)

	annotated := frame.Clone()
	defer annotated.Close()
	c := d.style.Color
	boxColor := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	for _, b := range boxes {
		full := region.BoxToFrame(b)
		gocv.Rectangle(&annotated, full.Rect(), boxColor, d.style.Thickness)
		if d.style.Label != "" {
			gocv.PutText(&annotated, d.style.Label, image.Pt(full.X, full.Y-labelGap), gocv.FontHersheySimplex, 0.5, boxColor, 1)
		}
	}

	out, err := annotated.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert annotated image: %w", err)
	}

	return aggregate(out, boxes, region, uint8(t)), nil
}

// repeat применяет морфологическую операцию n раз на месте
func repeat(m *gocv.Mat, n int, op func(m *gocv.Mat)) {
	for i := 0; i < n; i++ {
		op(m)
	}
}

var _ port.PotholeDetector = (*GoCVDetector)(nil)
