//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"pothole-tracker/internal/domain/entity"
)

// GoCVDetector заглушка: сборка без тега gocv.
type GoCVDetector struct{}

// NewGoCVDetector возвращает ошибку, если сборка без тега gocv.
func NewGoCVDetector(cfg entity.DetectionConfig, style Style) (*GoCVDetector, error) {
	_ = cfg
	_ = style
	return nil, errors.New("gocv build tag is not enabled")
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image) (*entity.DetectionResult, error) {
	_ = ctx
	_ = img
	return nil, errors.New("gocv build tag is not enabled")
}
