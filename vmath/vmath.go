// Package vmath is the deterministic numeric base of the rig: Q32.32 fixed
// point, integer-built trig tables, angles, vectors, rotations and transforms.
// Nothing on the logic path touches floating point.
package vmath

import (
	"math"
	"math/bits"
)

// Q32.32 layout and table size
const (
	Shift   = 32
	Scale   = 1 << Shift
	Mask    = Scale - 1
	Half    = 1 << (Shift - 1)
	LUTSize = 1024
	LUTMask = LUTSize - 1
)

// Pi in Q32.32 (round(pi * 2^32))
const (
	Pi     int64 = 13493037705
	TwoPi  int64 = 2 * Pi
	HalfPi int64 = Pi / 2
)

func FromInt(i int) int64 { return int64(i) << Shift }

// FromFloat converts configuration or tooling input; never on the logic path
func FromFloat(f float64) int64 { return int64(f * Scale) }

// ToFloat converts for render and display
func ToFloat(f int64) float64 { return float64(f) / Scale }

// FromRatio returns num/den in Q32.32 without float conversion
func FromRatio(num, den int64) int64 {
	return MulDiv(num, Scale, den)
}

// magnitudes splits signed operands into unsigned magnitudes and the result sign
func magnitudes(a, b int64) (ua, ub uint64, neg bool) {
	neg = (a < 0) != (b < 0)
	ua, ub = uint64(a), uint64(b)
	if a < 0 {
		ua = -ua
	}
	if b < 0 {
		ub = -ub
	}
	return
}

func saturate(neg bool) int64 {
	if neg {
		return math.MinInt64
	}
	return math.MaxInt64
}

func signed(q uint64, neg bool) int64 {
	if q > math.MaxInt64 {
		return saturate(neg)
	}
	if neg {
		return -int64(q)
	}
	return int64(q)
}

// Mul multiplies through a 128-bit product
func Mul(a, b int64) int64 {
	ua, ub, neg := magnitudes(a, b)
	hi, lo := bits.Mul64(ua, ub)
	return signed(hi<<(64-Shift)|lo>>Shift, neg)
}

// Div divides a<<32 by b as a 128-bit dividend; zero divisor yields 0 and
// quotients beyond int64 saturate
func Div(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	ua, ub, neg := magnitudes(a, b)
	hi, lo := ua>>(64-Shift), ua<<Shift
	if hi >= ub {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, ub)
	return signed(q, neg)
}

// MulDiv computes a*b/c with a 128-bit intermediate
func MulDiv(a, b, c int64) int64 {
	if c == 0 {
		return 0
	}
	ua, ub, neg := magnitudes(a, b)
	uc := uint64(c)
	if c < 0 {
		uc = -uc
		neg = !neg
	}
	hi, lo := bits.Mul64(ua, ub)
	if hi >= uc {
		return saturate(neg)
	}
	q, _ := bits.Div64(hi, lo, uc)
	return signed(q, neg)
}

func Abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// Lerp interpolates a toward b by t in [0, Scale]
func Lerp(a, b, t int64) int64 {
	return a + Mul(b-a, t)
}

// Sqrt returns floor(sqrt(x)) in Q32.32, exact to the last bit
// Integer Newton descent on x<<32 from an upper bound; non-positive x yields 0
func Sqrt(x int64) int64 {
	if x <= 0 {
		return 0
	}
	hi, lo := uint64(x)>>(64-Shift), uint64(x)<<Shift

	// 2^ceil((len+32)/2) bounds the root from above and stays above hi
	r := uint64(1) << ((bits.Len64(uint64(x)) + Shift + 1) / 2)
	for {
		q, _ := bits.Div64(hi, lo, r)
		next := (r + q) >> 1
		if next >= r {
			return int64(r)
		}
		r = next
	}
}

// Hypot returns sqrt(a^2 + b^2) without squaring large operands
// Safe for the full Q32.32 coordinate range
func Hypot(a, b int64) int64 {
	a, b = Abs(a), Abs(b)
	if a < b {
		a, b = b, a
	}
	if a == 0 {
		return 0
	}
	r := Div(b, a)
	return Mul(a, Sqrt(Scale+Mul(r, r)))
}
