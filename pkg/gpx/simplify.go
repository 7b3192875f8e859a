package gpx

import "math"

// Simplify Douglas-Peucker 折线简化。epsilonM 为最大允许偏差（米）。
// 首尾点始终保留，输出点数不超过输入；对同一 epsilon 重复应用结果不变。
func Simplify(points []Point, epsilonM float64) []Point {
	if len(points) <= 2 || epsilonM <= 0 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	douglasPeucker(points, 0, len(points)-1, epsilonM, keep)

	out := make([]Point, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

func douglasPeucker(points []Point, first, last int, epsilonM float64, keep []bool) {
	if last-first < 2 {
		return
	}

	var maxDist float64
	maxIdx := -1
	for i := first + 1; i < last; i++ {
		d := perpendicularDistanceM(points[i], points[first], points[last])
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxIdx < 0 || maxDist <= epsilonM {
		return
	}

	keep[maxIdx] = true
	douglasPeucker(points, first, maxIdx, epsilonM, keep)
	douglasPeucker(points, maxIdx, last, epsilonM, keep)
}

// perpendicularDistanceM 点到弦的垂距。轨迹范围有限（单个 GPX 文件），
// 用等距圆柱投影换算到局部平面米制后按平面几何计算。
func perpendicularDistanceM(p, a, b Point) float64 {
	refLat := a.Lat * math.Pi / 180
	scale := math.Cos(refLat)

	ax := a.Lon * scale
	ay := a.Lat
	bx := b.Lon * scale
	by := b.Lat
	px := p.Lon * scale
	py := p.Lat

	dx := bx - ax
	dy := by - ay

	degToM := earthRadiusM * math.Pi / 180

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay) * degToM
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	cx := ax + t*dx
	cy := ay + t*dy
	return math.Hypot(px-cx, py-cy) * degToM
}
