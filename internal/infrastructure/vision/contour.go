package vision

import "image"

// Contour замкнутая внешняя граница одной связной области в координатах маски.
type Contour []image.Point

// Bounds возвращает охватывающий прямоугольник (Max не включается)
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// Направления обхода против часовой стрелки (ось Y вниз): E, NE, N, NW, W, SW, S, SE.
var neighbors = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

const dirWest = 4

// FindContours возвращает внешние границы 8-связных областей переднего плана.
// Области, лежащие внутри дыр других областей, пропускаются (только внешние контуры).
// Контуры упорядочены по первому пикселю области в порядке развёртки.
func FindContours(mask *Mask) []Contour {
	w, h := mask.Width, mask.Height
	if w == 0 || h == 0 {
		return nil
	}

	outside := outerBackground(mask)
	labels := make([]int32, w*h)
	var contours []Contour
	var label int32

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !mask.Pix[i] || labels[i] != 0 {
				continue
			}
			label++
			if !labelComponent(mask, labels, outside, x, y, label) {
				continue
			}
			contours = append(contours, traceBorder(mask, image.Pt(x, y)))
		}
	}
	return contours
}

// outerBackground помечает фон, 4-связно достижимый от края изображения.
// Фон в дырах объектов остаётся непомеченным.
func outerBackground(mask *Mask) []bool {
	w, h := mask.Width, mask.Height
	seen := make([]bool, w*h)
	stack := make([]image.Point, 0, 2*(w+h))

	push := func(x, y int) {
		i := y*w + x
		if mask.Pix[i] || seen[i] {
			return
		}
		seen[i] = true
		stack = append(stack, image.Pt(x, y))
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for d := 0; d < 8; d += 2 {
			n := p.Add(neighbors[d])
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			push(n.X, n.Y)
		}
	}
	return seen
}

// labelComponent заливает 8-связную область меткой и сообщает, внешняя ли она:
// касается края изображения или 4-соседствует с внешним фоном.
func labelComponent(mask *Mask, labels []int32, outside []bool, sx, sy int, label int32) bool {
	w, h := mask.Width, mask.Height
	external := false
	stack := []image.Point{{X: sx, Y: sy}}
	labels[sy*w+sx] = label

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for d := 0; d < 8; d++ {
			n := p.Add(neighbors[d])
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				external = true
				continue
			}
			i := n.Y*w + n.X
			if !mask.Pix[i] {
				if d%2 == 0 && outside[i] {
					external = true
				}
				continue
			}
			if labels[i] == 0 {
				labels[i] = label
				stack = append(stack, n)
			}
		}
	}
	return external
}

// traceBorder обходит внешнюю границу от верхнего левого пикселя области
// (алгоритм прослеживания границы Suzuki–Abe).
func traceBorder(mask *Mask, start image.Point) Contour {
	// Ищем первого соседа по часовой стрелке, начиная с запада.
	first := -1
	for k := 0; k < 8; k++ {
		d := (dirWest - k + 8) % 8
		n := start.Add(neighbors[d])
		if mask.At(n.X, n.Y) {
			first = d
			break
		}
	}
	if first < 0 {
		return Contour{start}
	}

	last := start.Add(neighbors[first])
	contour := Contour{}
	cur := start
	back := first
	limit := 4*len(mask.Pix) + 8

	for step := 0; step < limit; step++ {
		next, dir := cur, back
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			n := cur.Add(neighbors[d])
			if mask.At(n.X, n.Y) {
				next, dir = n, d
				break
			}
		}

		contour = append(contour, cur)
		if next == start && cur == last {
			break
		}
		back = (dir + 4) % 8
		cur = next
	}
	return contour
}
