package entity

import (
	"fmt"
	"math"
)

// DetectionConfig настройки конвейера поиска выбоин.
// Все пороги задаются здесь, в самом алгоритме «магических чисел» нет.
type DetectionConfig struct {
	Width  int // рабочая ширина кадра после масштабирования
	Height int // рабочая высота кадра после масштабирования

	// TopCropFraction доля кадра сверху, которая отбрасывается (небо, горизонт, капот).
	TopCropFraction float64

	MinArea         int     // минимальная площадь прямоугольника, px²
	MaxAreaFraction float64 // максимальная площадь как доля площади области интереса
	MinAspect       float64 // минимальное отношение ширины к высоте
	MaxAspect       float64 // максимальное отношение ширины к высоте

	MorphKernel     int // сторона прямоугольного структурного элемента
	CloseIterations int // итерации закрытия
	OpenIterations  int // итерации открытия
	BlurKernel      int // сторона ядра сглаживания
}

// DefaultDetectionConfig возвращает параметры по умолчанию
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Width:           640,
		Height:          480,
		TopCropFraction: 0.3,
		MinArea:         200,
		MaxAreaFraction: 0.65,
		MinAspect:       0.2,
		MaxAspect:       6.0,
		MorphKernel:     3,
		CloseIterations: 1,
		OpenIterations:  1,
		BlurKernel:      5,
	}
}

// CropOffset возвращает первую строку области интереса: ⌈fraction·height⌉.
func CropOffset(height int, fraction float64) int {
	// Эпсилон гасит погрешность умножения с плавающей точкой.
	return int(math.Ceil(fraction*float64(height) - 1e-9))
}

// RegionOffset возвращает смещение области интереса для рабочего кадра
func (c DetectionConfig) RegionOffset() int {
	return CropOffset(c.Height, c.TopCropFraction)
}

// RegionArea возвращает площадь области интереса в пикселях
func (c DetectionConfig) RegionArea() int {
	return c.Width * (c.Height - c.RegionOffset())
}

// Validate проверяет согласованность параметров.
// Вызывается один раз при создании детектора.
func (c DetectionConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return &ConfigurationError{Field: "size", Reason: fmt.Sprintf("working resolution must be positive, got %dx%d", c.Width, c.Height)}
	case c.TopCropFraction < 0 || c.TopCropFraction >= 1 || math.IsNaN(c.TopCropFraction):
		return &ConfigurationError{Field: "top_crop_fraction", Reason: fmt.Sprintf("must be in [0, 1), got %v", c.TopCropFraction)}
	case c.RegionOffset() >= c.Height:
		return &ConfigurationError{Field: "top_crop_fraction", Reason: "region of interest is empty"}
	case c.MinArea < 0:
		return &ConfigurationError{Field: "min_area", Reason: fmt.Sprintf("must not be negative, got %d", c.MinArea)}
	case c.MaxAreaFraction <= 0 || c.MaxAreaFraction > 1 || math.IsNaN(c.MaxAreaFraction):
		return &ConfigurationError{Field: "max_area_fraction", Reason: fmt.Sprintf("must be in (0, 1], got %v", c.MaxAreaFraction)}
	case c.MinAspect <= 0 || math.IsNaN(c.MinAspect) || math.IsNaN(c.MaxAspect):
		return &ConfigurationError{Field: "min_aspect", Reason: fmt.Sprintf("must be positive, got %v", c.MinAspect)}
	case c.MinAspect > c.MaxAspect:
		return &ConfigurationError{Field: "aspect", Reason: fmt.Sprintf("min %v is greater than max %v", c.MinAspect, c.MaxAspect)}
	case !isOddPositive(c.MorphKernel):
		return &ConfigurationError{Field: "morph_kernel", Reason: fmt.Sprintf("must be odd and positive, got %d", c.MorphKernel)}
	case !isOddPositive(c.BlurKernel):
		return &ConfigurationError{Field: "blur_kernel", Reason: fmt.Sprintf("must be odd and positive, got %d", c.BlurKernel)}
	case c.CloseIterations < 0 || c.OpenIterations < 0:
		return &ConfigurationError{Field: "iterations", Reason: "must not be negative"}
	}

	maxArea := c.MaxAreaFraction * float64(c.RegionArea())
	if float64(c.MinArea) > maxArea {
		return &ConfigurationError{
			Field:  "min_area",
			Reason: fmt.Sprintf("%d exceeds max area %.0f for %dx%d", c.MinArea, maxArea, c.Width, c.Height),
		}
	}

	return nil
}

func isOddPositive(n int) bool {
	return n > 0 && n%2 == 1
}
