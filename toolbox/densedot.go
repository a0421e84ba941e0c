package toolbox

// denseDot2 returns the inner product of x and y.
func denseDot2(x []float32, y []float32) float32 {
	if len(x) != len(y) {
		panic("mismatched length")
	}

	// Four independent accumulators; the tail is handled below.
	var s0, s1, s2, s3 float32
	for len(x) >= 4 && len(y) >= 4 {
		s0 += x[0] * y[0]
		s1 += x[1] * y[1]
		s2 += x[2] * y[2]
		s3 += x[3] * y[3]
		x = x[4:]
		y = y[4:]
	}
	sum := (s0 + s1) + (s2 + s3)

	for i := range x {
		sum += x[i] * y[i]
	}

	return sum
}
