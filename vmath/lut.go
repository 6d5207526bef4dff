package vmath

// Tables are generated with integer-only series so every platform builds
// bit-identical tables regardless of float fusion or libm differences

func init() {
	// Quarter wave, LUTSize/4 + 1 samples over [0, pi/2]
	var quarter [LUTSize/4 + 1]int64
	for i := range quarter {
		quarter[i] = sinSeries(Pi * int64(i) / (LUTSize / 2))
	}
	quarter[0] = 0
	quarter[LUTSize/4] = Scale

	const q = LUTSize / 4
	for i := 0; i < LUTSize; i++ {
		r := i % q
		switch i / q {
		case 0:
			SinLUT[i] = quarter[r]
		case 1:
			SinLUT[i] = quarter[q-r]
		case 2:
			SinLUT[i] = -quarter[r]
		default:
			SinLUT[i] = -quarter[q-r]
		}
	}
	for i := 0; i < LUTSize; i++ {
		CosLUT[i] = SinLUT[(i+q)&LUTMask]
	}

	// Atan2 LUT: ratio [0,1] -> angle [0, Scale/8] in turns
	for i := 0; i < LUTSize; i++ {
		rad := atanSeries(FromRatio(int64(i), LUTMask))
		atan2LUT[i] = MulDiv(rad, Scale, TwoPi)
	}
}

// SinLUT and CosLUT scaled by Q32.32
var (
	SinLUT [LUTSize]int64
	CosLUT [LUTSize]int64

	// atan2LUT maps ratio [0,1] to angle [0, Scale/8] (one octant)
	atan2LUT [LUTSize]int64
)

// sinSeries evaluates sin(x) for x in [0, pi/2] radians, Q32.32
func sinSeries(x int64) int64 {
	x2 := Mul(x, x)
	term, sum := x, x
	for n := int64(1); n <= 9; n++ {
		term = -Mul(term, x2) / ((2 * n) * (2*n + 1))
		sum += term
	}
	return sum
}

// atanSeries evaluates atan(r) for r in [0, 1], result in radians Q32.32
// Two half-angle reductions bring r under tan(pi/16) before the series
func atanSeries(r int64) int64 {
	mult := int64(1)
	for k := 0; k < 2; k++ {
		r = Div(r, Scale+Sqrt(Scale+Mul(r, r)))
		mult *= 2
	}
	r2 := Mul(r, r)
	term, sum := r, r
	for n := int64(1); n <= 8; n++ {
		term = -Mul(term, r2)
		sum += term / (2*n + 1)
	}
	return sum * mult
}

// Atan2 returns angle in [0, Scale) for (dy, dx) using LUT
// Result is Q32.32 where Scale = full rotation (2pi)
// Zero vector returns 0
func Atan2(dy, dx int64) int64 {
	if dx == 0 && dy == 0 {
		return 0
	}

	adx, ady := Abs(dx), Abs(dy)

	var baseAngle int64
	if adx >= ady {
		idx := MulDiv(ady, LUTMask, adx)
		if idx > LUTMask {
			idx = LUTMask
		}
		baseAngle = atan2LUT[idx]
	} else {
		// pi/2 - atan(dx/dy)
		idx := MulDiv(adx, LUTMask, ady)
		if idx > LUTMask {
			idx = LUTMask
		}
		baseAngle = Scale/4 - atan2LUT[idx]
	}

	if dx > 0 {
		if dy >= 0 {
			return baseAngle
		}
		return (Scale - baseAngle) & Mask
	} else if dx < 0 {
		if dy >= 0 {
			return Scale/2 - baseAngle
		}
		return Scale/2 + baseAngle
	}
	if dy > 0 {
		return Scale / 4
	}
	return 3 * Scale / 4
}
