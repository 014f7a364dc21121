package analysis

import "math"

// Converged reports whether the last window samples of series vary by at
// most tol relative to their final value (absolute when the value is
// below one).
func Converged(series []float64, window int, tol float64) bool {
	if window < 2 || len(series) < window {
		return false
	}
	tail := series[len(series)-window:]
	last := tail[len(tail)-1]
	scale := math.Max(1, math.Abs(last))

	lo, hi := tail[0], tail[0]
	for _, v := range tail {
		if math.IsNaN(v) {
			return false
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return (hi-lo)/scale <= tol
}

// SettlingTime is the time after which series stays within tol of its final
// value. It returns -1 for mismatched or empty input.
func SettlingTime(times, series []float64, tol float64) float64 {
	if len(times) != len(series) || len(series) == 0 {
		return -1
	}
	final := series[len(series)-1]
	for i := len(series) - 1; i >= 0; i-- {
		if math.Abs(series[i]-final) > tol {
			if i+1 < len(times) {
				return times[i+1]
			}
			return times[i]
		}
	}
	return times[0]
}

// Overshoot is the furthest the series travelled past target, in the
// direction it approached from. Zero if it never crossed.
func Overshoot(series []float64, target float64) float64 {
	if len(series) == 0 {
		return 0
	}
	rising := series[0] < target
	worst := 0.0
	for _, v := range series {
		past := v - target
		if !rising {
			past = -past
		}
		worst = math.Max(worst, past)
	}
	return worst
}

// Mean of series; zero when empty.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}
