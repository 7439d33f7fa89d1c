package visualization

import "math"

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	if len(positions) == 0 {
		return positions
	}

	// Find bounds
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	// A degenerate axis collapses onto the canvas midline.
	normalized := make(map[string]Position, len(positions))
	for id, pos := range positions {
		x, y := width/2, height/2
		if rangeX >= 0.01 {
			x = padding + ((pos.X-minX)/rangeX)*targetWidth
		}
		if rangeY >= 0.01 {
			y = padding + ((pos.Y-minY)/rangeY)*targetHeight
		}
		normalized[id] = Position{X: x, Y: y}
	}

	return normalized
}

// minMax returns the smallest and largest of values, or 0, 0 when empty.
func minMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// scale maps v from [lo, hi] onto [0, 1]; a flat range maps to 0.5.
func scale(v, lo, hi float64) float64 {
	if hi-lo < 1e-12 {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
