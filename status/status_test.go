package status

import (
	"sync"
	"testing"
)

func TestMetricMapCachesPointers(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(WorldTicks)
	b := r.Ints.Get(WorldTicks)
	if a != b {
		t.Fatal("Get returned different pointers for one key")
	}
	a.Add(3)
	if got := r.Snapshot()[WorldTicks]; got != 3 {
		t.Errorf("snapshot %d, want 3", got)
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Get(SimAlpha).Add(0.5)
		}()
	}
	wg.Wait()
	if got := m.Get(SimAlpha).Load(); got != 4 {
		t.Errorf("sum %v, want 4", got)
	}
	if m.Count() != 1 {
		t.Errorf("count %d, want 1", m.Count())
	}
}

func TestKeysSorted(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(WorldTicks)
	r.Ints.Get(ArmamentShots)
	r.Ints.Get(SkeletonResolves)
	keys := r.Ints.Keys()
	want := []string{ArmamentShots, SkeletonResolves, WorldTicks}
	if len(keys) != len(want) {
		t.Fatalf("keys %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value should be empty")
	}
	s.Store("realign-and-then-some-more-text")
	if got := s.Load(); len(got) != MaxStringLen {
		t.Errorf("len %d, want %d", len(got), MaxStringLen)
	}

	// 23 ASCII bytes then a two-byte rune straddling the limit
	s.Store("aaaaaaaaaaaaaaaaaaaaaaaé")
	if got := s.Load(); got != "aaaaaaaaaaaaaaaaaaaaaaa" {
		t.Errorf("rune cut: got %q", got)
	}
}

func TestExportOTelWithoutProvider(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(WorldTicks).Store(7)
	r.Floats.Get(SimAlpha).Store(0.25)
	reg, err := ExportOTel(r)
	if err != nil {
		t.Fatalf("ExportOTel: %v", err)
	}
	if err := reg.Unregister(); err != nil {
		t.Errorf("Unregister: %v", err)
	}
	if r.TotalCount() != 2 {
		t.Errorf("TotalCount %d, want 2", r.TotalCount())
	}
}

func TestExporterService(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(ArmamentShots).Store(3)
	e := NewExporter(r)
	if e.Name() != "metrics" || len(e.Dependencies()) != 0 {
		t.Errorf("service identity %s %v", e.Name(), e.Dependencies())
	}
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}
