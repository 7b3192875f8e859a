package gpx

import (
	"testing"
)

func zigzag() []Point {
	// 主干向北，每隔 3 点横向偏移约 50m
	var points []Point
	for i := 0; i < 30; i++ {
		offset := 0.0
		if i%3 == 1 {
			offset = 50 * degPerMeter
		}
		points = append(points, pt(float64(i)*100*degPerMeter, offset))
	}
	return points
}

func samePoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Lat != b[i].Lat || a[i].Lon != b[i].Lon {
			return false
		}
	}
	return true
}

func TestSimplifyEndpointsAndCount(t *testing.T) {
	points := zigzag()
	out := Simplify(points, 10)

	if len(out) > len(points) {
		t.Fatalf("simplified count %d exceeds original %d", len(out), len(points))
	}
	if out[0] != points[0] || out[len(out)-1] != points[len(points)-1] {
		t.Error("endpoints must be preserved exactly")
	}
}

func TestSimplifyStraightLine(t *testing.T) {
	var points []Point
	for i := 0; i < 20; i++ {
		points = append(points, pt(float64(i)*100*degPerMeter, 0))
	}
	out := Simplify(points, 5)
	if len(out) != 2 {
		t.Errorf("collinear points should reduce to endpoints, got %d", len(out))
	}
}

func TestSimplifyKeepsLargeDeviation(t *testing.T) {
	points := []Point{
		pt(0, 0),
		pt(500*degPerMeter, 200*degPerMeter), // 偏离弦约 200m
		pt(1000*degPerMeter, 0),
	}
	out := Simplify(points, 50)
	if len(out) != 3 {
		t.Errorf("deviation above epsilon must be kept, got %d points", len(out))
	}

	out = Simplify(points, 500)
	if len(out) != 2 {
		t.Errorf("deviation below epsilon must be dropped, got %d points", len(out))
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	for _, eps := range []float64{5, 10, 25, 100} {
		once := Simplify(zigzag(), eps)
		twice := Simplify(once, eps)
		if !samePoints(once, twice) {
			t.Errorf("epsilon %.0f: simplify(simplify(P)) != simplify(P): %d vs %d points",
				eps, len(once), len(twice))
		}
	}
}

func TestSimplifyDegenerateInputs(t *testing.T) {
	if got := Simplify(nil, 10); len(got) != 0 {
		t.Errorf("nil input: got %d points", len(got))
	}
	two := []Point{pt(0, 0), pt(1, 1)}
	if got := Simplify(two, 10); len(got) != 2 {
		t.Errorf("two points must survive: got %d", len(got))
	}
	// 闭环：首尾重合时弦退化为点，距离按到该点计算
	loop := []Point{pt(0, 0), pt(1000*degPerMeter, 0), pt(0, 0)}
	if got := Simplify(loop, 10); len(got) != 3 {
		t.Errorf("loop apex must be kept: got %d", len(got))
	}
}
