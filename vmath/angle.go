package vmath

// Angle is a facing in LUTSize units per full turn, normalised to [0, LUTSize)
// One unit indexes one sin/cos LUT entry exactly
type Angle int32

const (
	AngleFull    Angle = LUTSize
	AngleHalf    Angle = LUTSize / 2
	AngleQuarter Angle = LUTSize / 4
)

// NewAngle wraps any integer unit count into [0, LUTSize)
func NewAngle(units int) Angle {
	units %= LUTSize
	if units < 0 {
		units += LUTSize
	}
	return Angle(units)
}

// AngleFromDegrees converts whole degrees, rounding to nearest unit
func AngleFromDegrees(deg int) Angle {
	num := deg * LUTSize
	if num >= 0 {
		return NewAngle((num + 180) / 360)
	}
	return NewAngle((num - 180) / 360)
}

// AngleFromTurn converts a Q32.32 fraction of a turn (Atan2 output) to units
func AngleFromTurn(t int64) Angle {
	return Angle(((t + (1 << (Shift - 11))) >> (Shift - 10)) & LUTMask)
}

// AngleOf returns the direction of (dx, dy)
func AngleOf(dy, dx int64) Angle {
	return AngleFromTurn(Atan2(dy, dx))
}

// Degrees returns the angle rounded to whole degrees in [0, 360)
func (a Angle) Degrees() int {
	return (int(a)*360 + LUTSize/2) / LUTSize % 360
}

// Radians is for render-side consumers only
func (a Angle) Radians() float64 {
	return float64(a) * 6.283185307179586 / LUTSize
}

func (a Angle) Add(b Angle) Angle { return NewAngle(int(a) + int(b)) }
func (a Angle) Sub(b Angle) Angle { return NewAngle(int(a) - int(b)) }

// Signed maps the angle into (-LUTSize/2, LUTSize/2]
func (a Angle) Signed() int32 {
	if a > AngleHalf {
		return int32(a) - LUTSize
	}
	return int32(a)
}

// AngleDelta returns the signed shortest rotation from one angle to another
func AngleDelta(from, to Angle) int32 {
	return NewAngle(int(to) - int(from)).Signed()
}

// AngleDist returns the unsigned shortest rotation between two angles
func AngleDist(a, b Angle) int32 {
	d := AngleDelta(a, b)
	if d < 0 {
		return -d
	}
	return d
}

func SinA(a Angle) int64 { return SinLUT[a&LUTMask] }
func CosA(a Angle) int64 { return CosLUT[a&LUTMask] }

// StepAngle rotates current toward target along the shortest path by at most step
// A half-turn difference rotates in the positive direction
func StepAngle(current, target, step Angle) Angle {
	d := AngleDelta(current, target)
	if d <= int32(step) && d >= -int32(step) {
		return target
	}
	if d > 0 {
		return current.Add(step)
	}
	return current.Sub(step)
}

// Window is the counter-clockwise arc from Min to Max
// Min == Max is the full circle
type Window struct {
	Min, Max Angle
}

// FullWindow returns an unrestricted window
func FullWindow() Window { return Window{} }

// WindowFromDegrees builds a window from signed degree bounds
func WindowFromDegrees(min, max int) Window {
	return Window{Min: AngleFromDegrees(min), Max: AngleFromDegrees(max)}
}

// Full reports whether the window covers the whole circle
func (w Window) Full() bool { return w.Min == w.Max }

func (w Window) span() int32          { return int32(w.Max.Sub(w.Min)) }
func (w Window) offset(a Angle) int32 { return int32(a.Sub(w.Min)) }

// Contains reports whether a lies on the arc, bounds included
func (w Window) Contains(a Angle) bool {
	return w.Full() || w.offset(a) <= w.span()
}

// Clamp returns a unchanged when inside the window, otherwise the angularly
// closer bound; equal distances resolve to Max
func (w Window) Clamp(a Angle) Angle {
	if w.Contains(a) {
		return a
	}
	if AngleDist(w.Min, a) < AngleDist(w.Max, a) {
		return w.Min
	}
	return w.Max
}

// Step rotates current toward target by at most step without leaving the arc
// Falls back to shortest path for a full window or out-of-window endpoints
func (w Window) Step(current, target, step Angle) Angle {
	if w.Full() {
		return StepAngle(current, target, step)
	}
	oc, ot, span := w.offset(current), w.offset(target), w.span()
	if oc > span || ot > span {
		return StepAngle(current, target, step)
	}
	d := ot - oc
	if d <= int32(step) && d >= -int32(step) {
		return target
	}
	if d > 0 {
		return current.Add(step)
	}
	return current.Sub(step)
}
