package vmath

import "testing"

func TestAngleFromDegrees(t *testing.T) {
	tests := []struct {
		deg  int
		want Angle
	}{
		{0, 0},
		{90, 256},
		{-90, 768},
		{180, 512},
		{-180, 512},
		{360, 0},
		{150, 427},
	}
	for _, tt := range tests {
		if got := AngleFromDegrees(tt.deg); got != tt.want {
			t.Errorf("AngleFromDegrees(%d) = %d, want %d", tt.deg, got, tt.want)
		}
	}
	if AngleFromDegrees(150).Degrees() != 150 {
		t.Errorf("Degrees round trip = %d", AngleFromDegrees(150).Degrees())
	}
}

func TestAngleDelta(t *testing.T) {
	tests := []struct {
		from, to Angle
		want     int32
	}{
		{0, 10, 10},
		{10, 0, -10},
		{1020, 4, 8},
		{4, 1020, -8},
		{0, 512, 512},
	}
	for _, tt := range tests {
		if got := AngleDelta(tt.from, tt.to); got != tt.want {
			t.Errorf("AngleDelta(%d, %d) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStepAngle(t *testing.T) {
	// Exactly step per tick, never overshooting
	cur := Angle(0)
	target := Angle(23)
	for i := 0; i < 4; i++ {
		cur = StepAngle(cur, target, 5)
		if cur != Angle(5*(i+1)) {
			t.Fatalf("tick %d: cur = %d", i, cur)
		}
	}
	cur = StepAngle(cur, target, 5)
	if cur != target {
		t.Fatalf("final step should land on target, got %d", cur)
	}

	// Wraps across zero
	if got := StepAngle(2, 1020, 5); got != 1021 {
		t.Errorf("wrap step = %d", got)
	}
	if got := StepAngle(10, 1000, 5); got != 5 {
		t.Errorf("negative step = %d", got)
	}
}

func TestWindowClamp(t *testing.T) {
	w := WindowFromDegrees(-90, 90)

	if got := w.Clamp(AngleFromDegrees(150)); got != AngleFromDegrees(90) {
		t.Errorf("150deg clamped to %d, want %d", got, AngleFromDegrees(90))
	}
	if got := w.Clamp(AngleFromDegrees(-150)); got != AngleFromDegrees(-90) {
		t.Errorf("-150deg clamped to %d, want %d", got, AngleFromDegrees(-90))
	}
	if got := w.Clamp(AngleFromDegrees(45)); got != AngleFromDegrees(45) {
		t.Errorf("inside angle changed: %d", got)
	}
	if !w.Contains(AngleFromDegrees(90)) || !w.Contains(AngleFromDegrees(-90)) {
		t.Error("bounds should be inside the window")
	}
}

func TestWindowClampTie(t *testing.T) {
	// 180deg is equidistant from both bounds; ties resolve to Max
	w := WindowFromDegrees(-90, 90)
	if got := w.Clamp(AngleFromDegrees(180)); got != w.Max {
		t.Errorf("tie resolved to %d, want Max %d", got, w.Max)
	}

	// Every angle clamps to a bound no farther than the other one
	for i := 0; i < LUTSize; i++ {
		a := Angle(i)
		got := w.Clamp(a)
		if !w.Contains(got) {
			t.Fatalf("Clamp(%d) = %d outside window", a, got)
		}
		if !w.Contains(a) {
			other := w.Min
			if got == w.Min {
				other = w.Max
			}
			if AngleDist(a, got) > AngleDist(a, other) {
				t.Fatalf("Clamp(%d) = %d is not the nearer bound", a, got)
			}
		}
	}
}

func TestWindowFullCircle(t *testing.T) {
	w := WindowFromDegrees(-180, 180)
	if !w.Full() {
		t.Fatal("-180..180 should be the full circle")
	}
	for i := 0; i < LUTSize; i += 31 {
		if got := w.Clamp(Angle(i)); got != Angle(i) {
			t.Fatalf("full window clamped %d to %d", i, got)
		}
	}
}

func TestWindowStepStaysInside(t *testing.T) {
	// The shortest path from 120deg to -120deg crosses 180deg, which is excluded
	w := WindowFromDegrees(-135, 135)
	cur := AngleFromDegrees(120)
	target := AngleFromDegrees(-120)

	if StepAngle(cur, target, 5) != cur.Add(5) {
		t.Fatal("precondition: shortest path goes through 180deg")
	}
	for i := 0; i < 200 && cur != target; i++ {
		cur = w.Step(cur, target, 5)
		if !w.Contains(cur) {
			t.Fatalf("step %d left the window at %d", i, cur)
		}
	}
	if cur != target {
		t.Fatalf("did not converge, at %d", cur)
	}
}
