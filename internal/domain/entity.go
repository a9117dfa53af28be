package domain

import "strings"

// EntityClass distinguishes the two monitored object kinds.
type EntityClass string

const (
	ClassChannel EntityClass = "channel"
	ClassQueue   EntityClass = "queue"
)

const (
	systemPrefix      = "SYSTEM."
	systemAdminPrefix = "SYSTEM.ADMIN"
)

// NameClass is the result of classifying an entity name against the
// reserved infrastructure prefixes.
type NameClass int

const (
	NameRegular NameClass = iota
	NameSystem
	NameSystemAdmin
)

// Classify tags an entity name as regular, system-owned, or system-admin.
// Two independent policies consume the result and they intentionally
// disagree on the admin sub-prefix:
//
//   - threshold exemption (rules package): SystemOwned — admin objects are
//     still system objects and keep their relaxed checking;
//   - render visibility (render package): Visible — admin objects are shown
//     even though plain system objects are hidden.
//
// Keep the two predicates separate; unifying them changes behavior.
func Classify(name string) NameClass {
	if strings.HasPrefix(name, systemAdminPrefix) {
		return NameSystemAdmin
	}
	if strings.HasPrefix(name, systemPrefix) {
		return NameSystem
	}
	return NameRegular
}

// SystemOwned reports whether the entity is exempt from depth and consumer
// thresholds. The admin sub-prefix does not matter here.
func (c NameClass) SystemOwned() bool {
	return c == NameSystem || c == NameSystemAdmin
}

// Visible reports whether the entity appears in rendered output. Plain
// system objects are hidden, admin ones are shown.
func (c NameClass) Visible() bool {
	return c != NameSystem
}

// ChannelSnapshot is a point-in-time read of one channel, produced by the
// collector with strings already decoded and counts normalized. The rule
// evaluator never mutates it.
type ChannelSnapshot struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	State       string `json:"status"`
	Messages    int64  `json:"messages"`
	Connections int    `json:"connections"`
	LastMsgTime string `json:"last_msg_time"`
}

// QueueSnapshot is a point-in-time read of one queue.
type QueueSnapshot struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Depth       int64  `json:"depth"`
	MaxDepth    int64  `json:"max_depth"`
	OpenInput   int    `json:"open_input"`
	OpenOutput  int    `json:"open_output"`
	Description string `json:"description,omitempty"`
	Cluster     string `json:"cluster,omitempty"`
	Usage       string `json:"usage"`
	Persistence string `json:"persistence"`
}

// DepthPercent derives queue utilization. Queues without a configured max
// depth report zero rather than dividing by it.
func (q QueueSnapshot) DepthPercent() float64 {
	if q.MaxDepth <= 0 {
		return 0
	}
	return float64(q.Depth) / float64(q.MaxDepth) * 100
}

// ManagerStatus is the queue manager's own health probe result, consumed
// as-is: entity findings are never folded into it.
type ManagerStatus struct {
	Name         string   `json:"name"`
	Status       Severity `json:"status"`
	StartTime    string   `json:"start_time"`
	CommandLevel string   `json:"command_level"`
	Err          string   `json:"error,omitempty"`
}
