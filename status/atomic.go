package status

import (
	"math"
	"sync/atomic"
	"unicode/utf8"
)

// AtomicFloat is a float64 gauge with the Load/Store shape of atomic.Int64
// Zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Load() float64 { return math.Float64frombits(f.bits.Load()) }

func (f *AtomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// Add accumulates delta and returns the sum
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		sum := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(sum)) {
			return sum
		}
	}
}

// MaxStringLen bounds stored labels in bytes
const MaxStringLen = 24

// AtomicString holds a short label such as an aim state
// Zero value reads ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store keeps at most MaxStringLen bytes, cut on a rune boundary
func (s *AtomicString) Store(v string) {
	if len(v) > MaxStringLen {
		n := MaxStringLen
		for n > 0 && !utf8.RuneStart(v[n]) {
			n--
		}
		v = v[:n]
	}
	s.ptr.Store(&v)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
