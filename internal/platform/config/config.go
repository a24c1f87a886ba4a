// Package config provides tuned runtime parameters for the simulation.
package config

import (
	"runtime"
	"time"
)

// Config holds the knobs shared by the engine, the telemetry hub, and the
// persistence layer.
type Config struct {
	// Simulation timing
	Backoff             time.Duration // sleep after a reported failure before retrying
	MonitorPollInterval time.Duration // how often the monitor drains the event queue
	TelemetryInterval   time.Duration // resource snapshot broadcast cadence
	SnapshotInterval    time.Duration // resource snapshot persistence cadence

	// Channel buffer sizes
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Database connections
	DBMaxOpenConns int
	DBMaxIdleConns int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		Backoff:             100 * time.Millisecond,
		MonitorPollInterval: 50 * time.Millisecond,
		TelemetryInterval:   200 * time.Millisecond,
		SnapshotInterval:    5 * time.Second,

		BroadcastChannelBuffer: 256,
		ClientSendBuffer:       64,

		DBMaxOpenConns: numCPU * 4,
		DBMaxIdleConns: numCPU * 2,
	}
}

// StressConfig returns aggressive settings for load testing.
func StressConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		Backoff:             10 * time.Millisecond,
		MonitorPollInterval: 10 * time.Millisecond,
		TelemetryInterval:   50 * time.Millisecond,
		SnapshotInterval:    time.Second,

		BroadcastChannelBuffer: 512,
		ClientSendBuffer:       128,

		DBMaxOpenConns: numCPU * 8,
		DBMaxIdleConns: numCPU * 4,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		Backoff:             100 * time.Millisecond,
		MonitorPollInterval: 100 * time.Millisecond,
		TelemetryInterval:   500 * time.Millisecond,
		SnapshotInterval:    10 * time.Second,

		BroadcastChannelBuffer: 16,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 5,
		DBMaxIdleConns: 2,
	}
}
