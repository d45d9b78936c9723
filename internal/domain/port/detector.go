package port

import (
	"context"
	"image"

	"pothole-tracker/internal/domain/entity"
)

// PotholeDetector интерфейс детектора выбоин
type PotholeDetector interface {
	// Detect анализирует декодированный снимок и возвращает размеченный кадр и число выбоин
	Detect(ctx context.Context, img image.Image) (*entity.DetectionResult, error)
}
