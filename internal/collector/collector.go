// Package collector is the boundary to the telemetry layer. The monitoring
// core consumes snapshots through the Collector interface and never talks
// to the messaging infrastructure directly; implementations are expected to
// hand back normalized values (strings decoded, counts as integers).
package collector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mqops/mqmon/internal/domain"
)

// Target identifies one queue manager to collect from, with the connection
// parameters resolved from configuration.
type Target struct {
	Server   string
	Host     string
	Port     int
	Manager  string
	Channel  string
	User     string
	Password string
}

// Collector acquires one cycle's telemetry for a queue manager. Patterns
// follow MQ object-name matching: "*" for everything, a trailing "*" for a
// prefix, anything else exact.
type Collector interface {
	ManagerStatus(ctx context.Context, t Target) (domain.ManagerStatus, error)
	Channels(ctx context.Context, t Target, patterns []string) ([]domain.ChannelSnapshot, error)
	Queues(ctx context.Context, t Target, patterns []string) ([]domain.QueueSnapshot, error)
}

// AcquisitionError marks a per-group telemetry failure. The runner catches
// it, degrades the group's report and moves on; it never aborts the run.
type AcquisitionError struct {
	Server  string
	Manager string
	Cause   error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("telemetry acquisition failed for %s/%s: %v", e.Server, e.Manager, e.Cause)
}

func (e *AcquisitionError) Unwrap() error { return e.Cause }

// New builds the configured collector wrapped in the reliability layer.
func New(kind string, log *zap.Logger) (Collector, error) {
	switch kind {
	case "", "mock":
		return NewReliable(NewMock(), log), nil
	default:
		return nil, fmt.Errorf("unknown collector %q, allowed values are: mock", kind)
	}
}

// matchPattern implements the MQ-style name matching used by both real and
// mock collectors.
func matchPattern(pattern, name string) bool {
	if pattern == "*" {
		return true
	}
	if n := len(pattern); n > 0 && pattern[n-1] == '*' {
		return len(name) >= n-1 && name[:n-1] == pattern[:n-1]
	}
	return pattern == name
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if matchPattern(p, name) {
			return true
		}
	}
	return false
}
