package engine

import "math"

// Pearson returns the correlation coefficient of x and y rounded to two
// decimals, or nil with fewer than two samples or when either side is constant.
func Pearson(x, y []float64) *float64 {
	if len(x) != len(y) || len(x) < 2 {
		return nil
	}
	meanX := mean(x)
	meanY := mean(y)
	var num, denX, denY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX == 0 || denY == 0 {
		return nil
	}
	r := round2(num / (math.Sqrt(denX) * math.Sqrt(denY)))
	return &r
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, item := range v {
		sum += item
	}
	return sum / float64(len(v))
}
