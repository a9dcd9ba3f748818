package systems

import (
	"math"

	"github.com/pthm-cable/antcolony/components"
)

// Distance functions

// DistanceSq returns the squared distance between two points.
func DistanceSq(a, b components.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b components.Position) float64 {
	return math.Sqrt(DistanceSq(a, b))
}

// Clamp functions for common value ranges

// ClampFloat clamps v between minVal and maxVal.
func ClampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampToArena clamps a position into [0, w] x [0, h].
func ClampToArena(p components.Position, w, h float64) components.Position {
	return components.Position{
		X: ClampFloat(p.X, 0, w),
		Y: ClampFloat(p.Y, 0, h),
	}
}

// Direction functions

// ChebyshevNorm returns max(|dx|, |dy|, 1). Dividing by it gives a step whose
// larger component is at most 1.
func ChebyshevNorm(dx, dy float64) float64 {
	return math.Max(math.Max(math.Abs(dx), math.Abs(dy)), 1)
}
