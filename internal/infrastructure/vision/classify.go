package vision

import "pothole-tracker/internal/domain/entity"

// Classify оставляет контуры, похожие на выбоины, по площади и пропорциям
// охватывающего прямоугольника. Порядок контуров сохраняется.
func Classify(contours []Contour, regionArea int, cfg entity.DetectionConfig) []entity.BoundingBox {
	maxArea := cfg.MaxAreaFraction * float64(regionArea)
	boxes := make([]entity.BoundingBox, 0, len(contours))
	for _, c := range contours {
		box := entity.NewBoundingBox(c.Bounds())
		if accept(box, maxArea, cfg) {
			boxes = append(boxes, box)
		}
	}
	return boxes
}

func accept(box entity.BoundingBox, maxArea float64, cfg entity.DetectionConfig) bool {
	if box.Area < cfg.MinArea || float64(box.Area) > maxArea {
		return false
	}
	aspect, ok := box.Aspect()
	if !ok {
		return false
	}
	return aspect >= cfg.MinAspect && aspect <= cfg.MaxAspect
}
