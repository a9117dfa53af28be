package collector

import (
	"context"

	"github.com/mqops/mqmon/internal/domain"
)

// Mock serves canned snapshots for local development and demos: no MQ
// client libraries required. The fixture set deliberately covers the
// interesting evaluation cases (a near-full queue, a stuck queue, an
// inactive channel, system and system-admin objects).
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) ManagerStatus(ctx context.Context, t Target) (domain.ManagerStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.ManagerStatus{}, err
	}
	return domain.ManagerStatus{
		Name:         t.Manager,
		Status:       domain.SeverityOK,
		StartTime:    "Running",
		CommandLevel: "941",
	}, nil
}

func (m *Mock) Channels(ctx context.Context, t Target, patterns []string) ([]domain.ChannelSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := []domain.ChannelSnapshot{
		{Name: "APP.SVRCONN", Type: "SVRCONN", State: "RUNNING", Messages: 1520, Connections: 3, LastMsgTime: "2026-08-23 09:12:44"},
		{Name: "TO.PARTNER", Type: "SDR", State: "INACTIVE", Messages: 0, Connections: 0, LastMsgTime: "Never"},
		{Name: "SYSTEM.DEF.SVRCONN", Type: "SVRCONN", State: "RUNNING", Messages: 42, Connections: 1, LastMsgTime: "2026-08-23 09:10:02"},
	}
	return filterChannels(all, patterns), nil
}

func (m *Mock) Queues(ctx context.Context, t Target, patterns []string) ([]domain.QueueSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := []domain.QueueSnapshot{
		{Name: "ORDERS.IN", Type: "LOCAL", Depth: 950, MaxDepth: 1000, OpenInput: 2, OpenOutput: 1, Usage: "NORMAL", Persistence: "PERSISTENT"},
		{Name: "PAYMENTS.OUT", Type: "LOCAL", Depth: 12, MaxDepth: 5000, OpenInput: 1, OpenOutput: 2, Usage: "NORMAL", Persistence: "PERSISTENT"},
		{Name: "APP.DLQ", Type: "LOCAL", Depth: 7, MaxDepth: 5000, OpenInput: 0, OpenOutput: 0, Usage: "NORMAL", Persistence: "PERSISTENT"},
		{Name: "SYSTEM.DEAD.LETTER.QUEUE", Type: "LOCAL", Depth: 3000, MaxDepth: 3000, OpenInput: 0, OpenOutput: 0, Usage: "NORMAL", Persistence: "PERSISTENT"},
		{Name: "SYSTEM.ADMIN.COMMAND.QUEUE", Type: "LOCAL", Depth: 0, MaxDepth: 3000, OpenInput: 1, OpenOutput: 0, Usage: "NORMAL", Persistence: "NOT_PERSISTENT"},
	}
	return filterQueues(all, patterns), nil
}

func filterChannels(all []domain.ChannelSnapshot, patterns []string) []domain.ChannelSnapshot {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}
	var out []domain.ChannelSnapshot
	for _, c := range all {
		if matchAny(patterns, c.Name) {
			out = append(out, c)
		}
	}
	return out
}

func filterQueues(all []domain.QueueSnapshot, patterns []string) []domain.QueueSnapshot {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}
	var out []domain.QueueSnapshot
	for _, q := range all {
		if matchAny(patterns, q.Name) {
			out = append(out, q)
		}
	}
	return out
}
