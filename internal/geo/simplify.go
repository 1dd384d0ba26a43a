package geo

import "math"

// SimplifyVW reduces points to exactly target points using Visvalingam-Whyatt:
// the point forming the smallest-area triangle with its neighbors is removed
// repeatedly. Input with target or fewer points is returned unchanged.
func SimplifyVW(points []Point, target int) []Point {
	if target < 2 {
		target = 2
	}
	if len(points) <= target {
		return points
	}

	pts := make([]Point, len(points))
	copy(pts, points)

	for len(pts) > target {
		smallest := math.MaxFloat64
		idx := -1
		for i := 1; i < len(pts)-1; i++ {
			a := triangleArea(pts[i-1], pts[i], pts[i+1])
			if a < smallest {
				smallest = a
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		pts = append(pts[:idx], pts[idx+1:]...)
	}
	return pts
}

func triangleArea(a, b, c Point) float64 {
	return math.Abs(a.Lat*(b.Lon-c.Lon)+b.Lat*(c.Lon-a.Lon)+c.Lat*(a.Lon-b.Lon)) / 2
}

// verticalChordEpsilon nudges a zero-width chord so the slope in
// perpendicularDistSq stays finite. Approximation, not exact geometry.
const verticalChordEpsilon = 1e-10

// SimplifyRDP reduces a polyline with Ramer-Douglas-Peucker: points whose
// squared perpendicular distance from the chord between the segment endpoints
// stays below tolerance² are dropped. Endpoints are always kept.
func SimplifyRDP(points []Point, tolerance float64) []Point {
	if len(points) <= 2 {
		return points
	}
	tolSq := tolerance * tolerance
	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	rdpSplit(points, 0, len(points)-1, tolSq, keep)

	out := make([]Point, 0, len(points))
	for i, k := range keep {
		if k {
			out = append(out, points[i])
		}
	}
	return out
}

// SimplifyRDPMulti simplifies each sub-line independently.
func SimplifyRDPMulti(lines [][]Point, tolerance float64) [][]Point {
	out := make([][]Point, len(lines))
	for i, line := range lines {
		out[i] = SimplifyRDP(line, tolerance)
	}
	return out
}

func rdpSplit(points []Point, first, last int, tolSq float64, keep []bool) {
	if last-first < 2 {
		return
	}
	maxDistSq := 0.0
	index := -1
	for i := first + 1; i < last; i++ {
		d := perpendicularDistSq(points[i], points[first], points[last])
		if d > maxDistSq {
			maxDistSq = d
			index = i
		}
	}
	if index >= 0 && maxDistSq > tolSq {
		keep[index] = true
		rdpSplit(points, first, index, tolSq, keep)
		rdpSplit(points, index, last, tolSq, keep)
	}
}

func perpendicularDistSq(p, a, b Point) float64 {
	x1, y1 := a.Lat, a.Lon
	x2, y2 := b.Lat, b.Lon
	if x2 == x1 {
		x2 += verticalChordEpsilon
	}
	slope := (y2 - y1) / (x2 - x1)
	intercept := y1 - slope*x1
	d := p.Lon - slope*p.Lat - intercept
	return d * d / (slope*slope + 1)
}
