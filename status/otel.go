package status

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/lixenwraith/vi-rig/status"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// ExportOTel publishes every integer and float metric registered so far as an
// observable gauge on the global meter provider; a no-op without a provider
// Metrics registered after the call are not exported
func ExportOTel(r *Registry) (metric.Registration, error) {
	m := meter()

	ints := make(map[string]metric.Int64ObservableGauge)
	floats := make(map[string]metric.Float64ObservableGauge)
	var observables []metric.Observable

	for _, key := range r.Ints.Keys() {
		g, err := m.Int64ObservableGauge(key)
		if err != nil {
			return nil, fmt.Errorf("creating gauge %s: %w", key, err)
		}
		ints[key] = g
		observables = append(observables, g)
	}
	for _, key := range r.Floats.Keys() {
		g, err := m.Float64ObservableGauge(key)
		if err != nil {
			return nil, fmt.Errorf("creating gauge %s: %w", key, err)
		}
		floats[key] = g
		observables = append(observables, g)
	}

	reg, err := m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			r.Ints.Range(func(key string, v *atomic.Int64) {
				if g, ok := ints[key]; ok {
					o.ObserveInt64(g, v.Load())
				}
			})
			r.Floats.Range(func(key string, v *AtomicFloat) {
				if g, ok := floats[key]; ok {
					o.ObserveFloat64(g, v.Load())
				}
			})
			return nil
		},
		observables...,
	)
	if err != nil {
		return nil, fmt.Errorf("registering status callback: %w", err)
	}
	return reg, nil
}

// Exporter runs ExportOTel as a service so the gauges are registered after
// the world has created its metrics and released on shutdown
type Exporter struct {
	reg    *Registry
	handle metric.Registration
}

func NewExporter(r *Registry) *Exporter { return &Exporter{reg: r} }

func (e *Exporter) Name() string { return "metrics" }

func (e *Exporter) Dependencies() []string { return nil }

func (e *Exporter) Start() error {
	if e.handle != nil {
		return nil
	}
	h, err := ExportOTel(e.reg)
	if err != nil {
		return err
	}
	e.handle = h
	return nil
}

func (e *Exporter) Stop() error {
	if e.handle == nil {
		return nil
	}
	err := e.handle.Unregister()
	e.handle = nil
	return err
}
