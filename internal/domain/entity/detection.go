package entity

import "image"

// DetectionResult хранит итог анализа снимка дороги.
type DetectionResult struct {
	Image     image.Image   // кадр рабочего размера с разметкой
	Count     int           // число принятых кандидатов
	Boxes     []BoundingBox // прямоугольники в координатах полного кадра
	Threshold uint8         // порог бинаризации (Otsu)
	Width     int           // ширина рабочего кадра
	Height    int           // высота рабочего кадра
}

// HasPotholes сообщает, найдено ли хоть что-то
func (r *DetectionResult) HasPotholes() bool {
	return r != nil && r.Count > 0
}
