package rules

import (
	"errors"

	"github.com/mqops/mqmon/internal/domain"
)

// ErrNoRules fires only when Resolve is called on a ruleset that has
// neither a specific entry nor a global block. Config validation makes the
// global block mandatory, so hitting this means API misuse.
var ErrNoRules = errors.New("no monitoring rules: neither specific entry nor global block configured")

// CheckKey identifies one check of the pipeline. Keys are stable: they are
// the lookup keys operators use in the messages override table.
type CheckKey string

const (
	CheckWrongStatus      CheckKey = "wrong_status"
	CheckMaxConnections   CheckKey = "max_connections"
	CheckHighConnections  CheckKey = "high_connections"
	CheckInactive         CheckKey = "inactive"
	CheckMaxDepth         CheckKey = "max_depth"
	CheckHighDepth        CheckKey = "high_depth"
	CheckMaxDepthPercent  CheckKey = "max_depth_percent"
	CheckHighDepthPercent CheckKey = "high_depth_percent"
	CheckStuckMessages    CheckKey = "stuck_messages"
	CheckNoConsumers      CheckKey = "no_consumers"
)

// MessageOverride lets operators replace the compiled-in severity and text
// of one check. Severity is kept as the raw config string; validation
// guarantees it parses before any evaluation runs.
type MessageOverride struct {
	Severity string `mapstructure:"severity"`
	Text     string `mapstructure:"text"`
}

// ChannelRules are the thresholds applied to one channel. Zero values
// disable the corresponding check.
type ChannelRules struct {
	RequiredState      string                       `mapstructure:"required_status"`
	MaxConnections     int                          `mapstructure:"max_connections"`
	WarningConnections int                          `mapstructure:"warning_connections"`
	InactiveWarning    bool                         `mapstructure:"inactive_warning"`
	Messages           map[CheckKey]MessageOverride `mapstructure:"messages"`
}

// QueueRules are the thresholds applied to one queue.
type QueueRules struct {
	MaxDepth            int64                        `mapstructure:"max_depth"`
	WarningDepth        int64                        `mapstructure:"warning_depth"`
	MaxDepthPercent     float64                      `mapstructure:"max_depth_percent"`
	WarningDepthPercent float64                      `mapstructure:"warning_depth_percent"`
	StuckQueueWarning   bool                         `mapstructure:"stuck_queue_warning"`
	RequiredConsumers   int                          `mapstructure:"required_consumers"`
	Messages            map[CheckKey]MessageOverride `mapstructure:"messages"`
}

// The percentage checks run unconditionally, so unset ceilings fall back to
// compiled-in defaults instead of disabling the check.
func (r *QueueRules) maxDepthPercent() float64 {
	if r.MaxDepthPercent <= 0 {
		return 100
	}
	return r.MaxDepthPercent
}

func (r *QueueRules) warningDepthPercent() float64 {
	if r.WarningDepthPercent <= 0 {
		return 80
	}
	return r.WarningDepthPercent
}

// Ruleset is the two-level rule table for one entity class: a mandatory
// global block plus optional per-name overrides.
type Ruleset[T any] struct {
	Global   *T            `mapstructure:"global"`
	Specific map[string]*T `mapstructure:"specific"`
}

// Resolve returns the effective rules for a named entity. A specific entry
// wins wholesale: it fully replaces the global block, there is no
// field-level merge. Operators authoring a partial specific block therefore
// lose the global thresholds for that entity; this replacement semantic is
// long-standing behavior and kept on purpose. The returned rules are shared
// and must be treated as read-only for the rest of the cycle.
func (rs Ruleset[T]) Resolve(name string) (*T, error) {
	if r, ok := rs.Specific[name]; ok && r != nil {
		return r, nil
	}
	if rs.Global != nil {
		return rs.Global, nil
	}
	return nil, ErrNoRules
}

// resolveMessage picks the operator override for a triggered check if one
// exists, otherwise the built-in default carried by the finding.
func resolveMessage(overrides map[CheckKey]MessageOverride, f finding) (domain.Severity, string) {
	if o, ok := overrides[f.key]; ok {
		return domain.Severity(o.Severity), o.Text
	}
	return f.severity, f.text
}
