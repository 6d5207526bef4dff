package service

// Service is a long-lived subsystem started and stopped by a Hub:
// the speaker, the metric exporter, the simulation loop
//
// Lifecycle:
//  1. Construction
//  2. Start() - acquire resources, launch goroutines
//  3. [runtime operation]
//  4. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must start before this one
	Dependencies() []string

	// Start begins service operation
	Start() error

	// Stop halts service operation; must be idempotent
	Stop() error
}
