package engine

import (
	"context"
	"sync"
	"time"
)

// Loop runs a Scheduler over a World on its own goroutine as a service
type Loop struct {
	sched    *Scheduler
	world    *World
	interval time.Duration
	deps     []string

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoop drives w at frameInterval once started; deps name services the
// loop needs running first
func NewLoop(sched *Scheduler, w *World, frameInterval time.Duration, deps ...string) *Loop {
	return &Loop{sched: sched, world: w, interval: frameInterval, deps: deps}
}

func (l *Loop) Name() string { return "sim" }

func (l *Loop) Dependencies() []string { return l.deps }

func (l *Loop) Scheduler() *Scheduler { return l.sched }

func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		l.sched.Run(ctx, l.world, l.interval)
	}(l.done)
	return nil
}

// Stop cancels the loop and waits for the frame in progress to finish
func (l *Loop) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel == nil {
		return nil
	}
	l.cancel()
	<-l.done
	l.cancel = nil
	return nil
}
