package syncreport

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-rig/vmath"
)

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRead(t *testing.T) {
	s := openMem(t)
	if err := s.Record(1, 0xdeadbeefcafebabe, 3); err != nil {
		t.Fatalf("Record: %v", err)
	}
	sum, ok, err := s.Checksum(1)
	if err != nil || !ok {
		t.Fatalf("Checksum: %v %v", ok, err)
	}
	if sum != 0xdeadbeefcafebabe {
		t.Errorf("sum %x, want high bit preserved", sum)
	}
	if _, ok, err := s.Checksum(2); ok || err != nil {
		t.Errorf("missing tick: ok=%v err=%v", ok, err)
	}

	// Same tick overwrites
	if err := s.Record(1, 7, 3); err != nil {
		t.Fatalf("Record again: %v", err)
	}
	if sum, _, _ := s.Checksum(1); sum != 7 {
		t.Errorf("sum %d after overwrite, want 7", sum)
	}
	if n, _ := s.Count(); n != 1 {
		t.Errorf("count %d, want 1", n)
	}
}

func TestFirstDivergence(t *testing.T) {
	a, b := openMem(t), openMem(t)
	for tick := uint64(1); tick <= 10; tick++ {
		sum := tick * 31
		if err := a.Record(tick, sum, 2); err != nil {
			t.Fatal(err)
		}
		if tick >= 6 {
			sum++
		}
		if tick != 3 {
			if err := b.Record(tick, sum, 2); err != nil {
				t.Fatal(err)
			}
		}
	}

	tick, found, err := a.FirstDivergence(b)
	if err != nil {
		t.Fatalf("FirstDivergence: %v", err)
	}
	if !found || tick != 6 {
		t.Errorf("divergence at %d (found %v), want 6", tick, found)
	}

	if _, found, _ := a.FirstDivergence(a); found {
		t.Error("store diverged from itself")
	}
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.db")
	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Record(42, 99, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if sum, ok, _ := s.Checksum(42); !ok || sum != 99 {
		t.Errorf("reopened sum %d ok %v, want 99", sum, ok)
	}
}

func TestHasherOrderAndBits(t *testing.T) {
	h := NewHasher()
	h.Transform(vmath.Translation(vmath.V3FromInt(1, 2, 3)))
	a := h.Sum()

	h.Reset()
	h.Transform(vmath.Translation(vmath.V3FromInt(1, 2, 3)))
	if h.Sum() != a {
		t.Error("same input hashed differently")
	}

	h.Reset()
	h.Transform(vmath.Translation(vmath.V3FromInt(2, 1, 3)))
	if h.Sum() == a {
		t.Error("swapped components hashed equal")
	}

	h.Reset()
	p := vmath.V3FromInt(1, 2, 3)
	p.X++
	h.Transform(vmath.Translation(p))
	if h.Sum() == a {
		t.Error("one-ulp change not detected")
	}
}
