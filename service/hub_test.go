package service

import (
	"errors"
	"slices"
	"testing"

	"github.com/rs/zerolog"
)

type fakeService struct {
	name    string
	deps    []string
	failOn  bool
	log     *[]string
	stopped int
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Start() error {
	if f.failOn {
		return errors.New("boom")
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	f.stopped++
	*f.log = append(*f.log, "stop "+f.name)
	return nil
}

func TestHubOrder(t *testing.T) {
	var log []string
	h := NewHub(zerolog.Nop())
	for _, s := range []*fakeService{
		{name: "sim", deps: []string{"audio", "metrics"}, log: &log},
		{name: "metrics", log: &log},
		{name: "audio", log: &log},
	} {
		if err := h.Register(s); err != nil {
			t.Fatalf("Register %s: %v", s.name, err)
		}
	}

	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	h.StopAll()
	h.StopAll()

	want := []string{"start audio", "start metrics", "start sim", "stop sim", "stop metrics", "stop audio"}
	if !slices.Equal(log, want) {
		t.Errorf("lifecycle %v, want %v", log, want)
	}
}

func TestHubRollback(t *testing.T) {
	var log []string
	h := NewHub(zerolog.Nop())
	audio := &fakeService{name: "audio", log: &log}
	_ = h.Register(audio)
	_ = h.Register(&fakeService{name: "sim", deps: []string{"audio"}, failOn: true, log: &log})

	if err := h.StartAll(); err == nil {
		t.Fatal("failing start not reported")
	}
	if audio.stopped != 1 {
		t.Errorf("audio stopped %d times, want 1", audio.stopped)
	}
}

func TestHubErrors(t *testing.T) {
	var log []string
	h := NewHub(zerolog.Nop())
	_ = h.Register(&fakeService{name: "a", log: &log})
	if err := h.Register(&fakeService{name: "a", log: &log}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate: got %v", err)
	}

	_ = h.Register(&fakeService{name: "b", deps: []string{"ghost"}, log: &log})
	if _, err := h.Order(); !errors.Is(err, ErrUnknownDep) {
		t.Errorf("unknown dependency: got %v", err)
	}

	c := NewHub(zerolog.Nop())
	_ = c.Register(&fakeService{name: "x", deps: []string{"y"}, log: &log})
	_ = c.Register(&fakeService{name: "y", deps: []string{"x"}, log: &log})
	if err := c.StartAll(); !errors.Is(err, ErrCycle) {
		t.Errorf("cycle: got %v", err)
	}
}

func TestMustGet(t *testing.T) {
	var log []string
	h := NewHub(zerolog.Nop())
	_ = h.Register(&fakeService{name: "audio", log: &log})
	if got := MustGet[*fakeService](h, "audio"); got.name != "audio" {
		t.Errorf("MustGet returned %s", got.name)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustGet on a missing service should panic")
		}
	}()
	MustGet[*fakeService](h, "speaker")
}
