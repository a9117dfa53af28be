package domain

import "time"

// CheckResult accumulates the outcome of one entity's check pipeline. Every
// triggered check overwrites Severity and appends one message, so the last
// triggering check decides the final severity regardless of what earlier
// checks reported. Message order equals check order.
type CheckResult struct {
	Severity Severity `json:"status"`
	Messages []string `json:"messages"`
}

// NewCheckResult returns the no-findings result: OK with no messages.
func NewCheckResult() CheckResult {
	return CheckResult{Severity: SeverityOK}
}

// Record applies one triggered check: overwrite severity, append message.
func (r *CheckResult) Record(sev Severity, msg string) {
	r.Severity = sev
	r.Messages = append(r.Messages, msg)
}

// ChannelReport couples a channel snapshot with its evaluation result.
type ChannelReport struct {
	ChannelSnapshot
	Check CheckResult `json:"check_status"`
}

// QueueReport couples a queue snapshot with its evaluation result.
type QueueReport struct {
	QueueSnapshot
	Check CheckResult `json:"check_status"`
}

// CycleReport is the unit handed to a renderer: one queue manager's status
// plus its evaluated channels and queues, in collection order. It lives for
// a single monitoring pass and is never persisted.
type CycleReport struct {
	ID        string          `json:"id"`
	Server    string          `json:"server"`
	Timestamp time.Time       `json:"timestamp"`
	Manager   ManagerStatus   `json:"queue_manager"`
	Channels  []ChannelReport `json:"channels"`
	Queues    []QueueReport   `json:"queues"`
}
