package articles

import "math"

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
