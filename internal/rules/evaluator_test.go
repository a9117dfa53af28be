package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqops/mqmon/internal/domain"
)

func TestEvaluateChannelNoFindings(t *testing.T) {
	snap := domain.ChannelSnapshot{Name: "APP.SVRCONN", State: "RUNNING", Connections: 3}
	r := &ChannelRules{RequiredState: "RUNNING", MaxConnections: 50, WarningConnections: 40, InactiveWarning: true}

	res := EvaluateChannel(snap, r)
	assert.Equal(t, domain.SeverityOK, res.Severity)
	assert.Empty(t, res.Messages)
}

func TestEvaluateChannelWrongStatus(t *testing.T) {
	snap := domain.ChannelSnapshot{Name: "TO.PARTNER", State: "STOPPED"}
	r := &ChannelRules{RequiredState: "RUNNING"}

	res := EvaluateChannel(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "Channel is not in required status (is STOPPED, required RUNNING)", res.Messages[0])
}

func TestEvaluateChannelInactive(t *testing.T) {
	// Inactive channel with no connection rule configured.
	snap := domain.ChannelSnapshot{Name: "APP.SVRCONN", State: "INACTIVE"}
	r := &ChannelRules{InactiveWarning: true}

	res := EvaluateChannel(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"Channel is inactive"}, res.Messages)
}

func TestEvaluateChannelConnectionBranchesExclusive(t *testing.T) {
	r := &ChannelRules{MaxConnections: 10, WarningConnections: 5}

	// Critical branch fires, warning branch must not be considered.
	res := EvaluateChannel(domain.ChannelSnapshot{Name: "A", Connections: 10}, r)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
	assert.Equal(t, []string{"Max connection count exceeded (10/10)"}, res.Messages)

	res = EvaluateChannel(domain.ChannelSnapshot{Name: "A", Connections: 7}, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"High connection count (7/5)"}, res.Messages)

	res = EvaluateChannel(domain.ChannelSnapshot{Name: "A", Connections: 2}, r)
	assert.Equal(t, domain.SeverityOK, res.Severity)
}

// The pipeline overwrites severity in evaluation order: a CRITICAL
// connection breach followed by the inactivity check ends up WARNING. This
// mirrors long-standing behavior and the order lives in one slice so the
// masking is visible and deliberate.
func TestSeverityLastWriteWins(t *testing.T) {
	snap := domain.ChannelSnapshot{Name: "APP.SVRCONN", State: "INACTIVE", Connections: 99}
	r := &ChannelRules{
		RequiredState:   "RUNNING",
		MaxConnections:  10,
		InactiveWarning: true,
	}

	res := EvaluateChannel(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{
		"Channel is not in required status (is INACTIVE, required RUNNING)",
		"Max connection count exceeded (99/10)",
		"Channel is inactive",
	}, res.Messages)
}

func TestEvaluateQueueDepthPercentScenario(t *testing.T) {
	snap := domain.QueueSnapshot{Name: "ORDERS.IN", Depth: 950, MaxDepth: 1000, OpenInput: 2}
	r := &QueueRules{WarningDepthPercent: 80, MaxDepthPercent: 100}

	res := EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"High queue utilization (95.0%)"}, res.Messages)

	// Lowering the ceiling below the observed 95% flips the same snapshot
	// to CRITICAL.
	r = &QueueRules{WarningDepthPercent: 80, MaxDepthPercent: 90}
	res = EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
	assert.Equal(t, []string{"Max queue utilization exceeded (95.0%)"}, res.Messages)
}

func TestEvaluateQueueIdempotent(t *testing.T) {
	snap := domain.QueueSnapshot{Name: "ORDERS.IN", Depth: 950, MaxDepth: 1000}
	r := &QueueRules{MaxDepth: 1000, WarningDepth: 800, MaxDepthPercent: 100, WarningDepthPercent: 80}

	first := EvaluateQueue(snap, r)
	second := EvaluateQueue(snap, r)
	assert.Equal(t, first, second)
}

func TestEvaluateQueueAbsoluteDepth(t *testing.T) {
	r := &QueueRules{MaxDepth: 1000, WarningDepth: 800, MaxDepthPercent: 100, WarningDepthPercent: 101}

	res := EvaluateQueue(domain.QueueSnapshot{Name: "Q", Depth: 1000, MaxDepth: 2000}, r)
	assert.Equal(t, domain.SeverityCritical, res.Severity)
	assert.Equal(t, []string{"Max queue depth exceeded (1000/1000)"}, res.Messages)

	res = EvaluateQueue(domain.QueueSnapshot{Name: "Q", Depth: 850, MaxDepth: 2000}, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"High queue depth (850/800)"}, res.Messages)
}

func TestEvaluateQueueStuck(t *testing.T) {
	snap := domain.QueueSnapshot{Name: "APP.DLQ", Depth: 7, MaxDepth: 5000, OpenInput: 0}
	r := &QueueRules{StuckQueueWarning: true}

	res := EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"Queue contains messages (7) but has no active consumers"}, res.Messages)

	// A consumer clears it.
	snap.OpenInput = 1
	res = EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityOK, res.Severity)
}

func TestEvaluateQueueConsumerCount(t *testing.T) {
	snap := domain.QueueSnapshot{Name: "ORDERS.IN", Depth: 1, MaxDepth: 1000, OpenInput: 1}
	r := &QueueRules{RequiredConsumers: 2}

	res := EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"Insufficient consumer count (1/2)"}, res.Messages)
}

// System queues skip depth and consumer thresholds even far beyond them;
// only the stuck-queue check still applies. Render-time visibility is a
// separate concern: an entity hidden from output is still evaluated.
func TestEvaluateQueueSystemExemption(t *testing.T) {
	r := &QueueRules{
		MaxDepth:            100,
		WarningDepth:        50,
		MaxDepthPercent:     100,
		WarningDepthPercent: 80,
		StuckQueueWarning:   true,
		RequiredConsumers:   1,
	}

	snap := domain.QueueSnapshot{Name: "SYSTEM.DEAD.LETTER.QUEUE", Depth: 3000, MaxDepth: 3000, OpenInput: 0}
	res := EvaluateQueue(snap, r)

	// Depth is at 100% of a breached max, yet only the stuck finding fires.
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"Queue contains messages (3000) but has no active consumers"}, res.Messages)

	// The admin sub-prefix keeps the exemption: visibility differs, checks do not.
	snap.Name = "SYSTEM.ADMIN.COMMAND.QUEUE"
	res = EvaluateQueue(snap, r)
	assert.Equal(t, []string{"Queue contains messages (3000) but has no active consumers"}, res.Messages)

	// An empty system queue has no findings at all.
	snap = domain.QueueSnapshot{Name: "SYSTEM.DEF.MODEL.QUEUE", Depth: 0, MaxDepth: 100}
	res = EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityOK, res.Severity)
	assert.Empty(t, res.Messages)
}

func TestMessageOverrides(t *testing.T) {
	snap := domain.QueueSnapshot{Name: "ORDERS.IN", Depth: 1000, MaxDepth: 1000}
	r := &QueueRules{
		MaxDepth:            1000,
		MaxDepthPercent:     101, // keep the percent checks quiet
		WarningDepthPercent: 101,
		Messages: map[CheckKey]MessageOverride{
			CheckMaxDepth: {Severity: "WARNING", Text: "Orders backlog over the line, page the on-call"},
		},
	}

	res := EvaluateQueue(snap, r)
	assert.Equal(t, domain.SeverityWarning, res.Severity)
	assert.Equal(t, []string{"Orders backlog over the line, page the on-call"}, res.Messages)
}

func TestRulesetResolve(t *testing.T) {
	global := &QueueRules{MaxDepth: 5000}
	specific := &QueueRules{MaxDepth: 1000}
	rs := Ruleset[QueueRules]{
		Global:   global,
		Specific: map[string]*QueueRules{"ORDERS.IN": specific},
	}

	got, err := rs.Resolve("ORDERS.IN")
	require.NoError(t, err)
	assert.Same(t, specific, got)

	got, err = rs.Resolve("PAYMENTS.OUT")
	require.NoError(t, err)
	assert.Same(t, global, got)
}

// A specific entry replaces global wholesale: nothing is inherited.
func TestRulesetResolveNoFieldMerge(t *testing.T) {
	rs := Ruleset[QueueRules]{
		Global:   &QueueRules{MaxDepth: 5000, RequiredConsumers: 3},
		Specific: map[string]*QueueRules{"ORDERS.IN": {MaxDepth: 1000}},
	}

	got, err := rs.Resolve("ORDERS.IN")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.MaxDepth)
	assert.Zero(t, got.RequiredConsumers)
}

func TestRulesetResolveNoRules(t *testing.T) {
	var rs Ruleset[ChannelRules]
	_, err := rs.Resolve("ANY")
	assert.ErrorIs(t, err, ErrNoRules)
}
