// Package vision содержит конвейер поиска выбоин на снимке дороги:
// масштабирование, область интереса, бинаризация, морфология, контуры,
// фильтр по форме и разметка результата.
package vision

import (
	"context"
	"fmt"
	"image"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// Имена реализаций детектора
const (
	BackendNative = "native"
	BackendGoCV   = "gocv"
)

// Detector реализация конвейера на чистом Go.
// Состояния между вызовами нет, Detect можно вызывать конкурентно.
type Detector struct {
	cfg   entity.DetectionConfig
	style Style
}

// NewDetector проверяет конфигурацию и создаёт детектор
func NewDetector(cfg entity.DetectionConfig, style Style) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg, style: style}, nil
}

// Config возвращает конфигурацию детектора
func (d *Detector) Config() entity.DetectionConfig {
	return d.cfg
}

// Detect прогоняет снимок через конвейер и возвращает размеченный кадр.
// Отсутствие кандидатов считается нормальным результатом с Count == 0.
func (d *Detector) Detect(ctx context.Context, img image.Image) (*entity.DetectionResult, error) {
	frame, err := Normalize(img, d.cfg.Width, d.cfg.Height)
	if err != nil {
		return nil, err
	}

	region, err := SelectRegion(frame, d.cfg.TopCropFraction)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mask, threshold := Binarize(region, d.cfg.BlurKernel)
	mask = Clean(mask, d.cfg.MorphKernel, d.cfg.CloseIterations, d.cfg.OpenIterations)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contours := FindContours(mask)
	boxes := Classify(contours, region.Area(), d.cfg)
	annotated := Annotate(frame, boxes, region, d.style)

	return aggregate(annotated, boxes, region, threshold), nil
}

// aggregate собирает итог: кадр, число выбоин и рамки в координатах кадра
func aggregate(annotated image.Image, boxes []entity.BoundingBox, region Region, threshold uint8) *entity.DetectionResult {
	full := make([]entity.BoundingBox, len(boxes))
	for i, b := range boxes {
		full[i] = region.BoxToFrame(b)
	}
	bounds := annotated.Bounds()
	return &entity.DetectionResult{
		Image:     annotated,
		Count:     len(boxes),
		Boxes:     full,
		Threshold: threshold,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}
}

// New создаёт детектор по имени реализации
func New(backend string, cfg entity.DetectionConfig, style Style) (port.PotholeDetector, error) {
	switch backend {
	case "", BackendNative:
		d, err := NewDetector(cfg, style)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendGoCV:
		d, err := NewGoCVDetector(cfg, style)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown detector backend %q", backend)
	}
}

var _ port.PotholeDetector = (*Detector)(nil)
