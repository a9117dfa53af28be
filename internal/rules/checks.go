package rules

import (
	"fmt"

	"github.com/mqops/mqmon/internal/domain"
)

// finding is one triggered check carrying its compiled-in default severity
// and message. The operator override table may replace both at resolution
// time, keyed by finding.key.
type finding struct {
	key      CheckKey
	severity domain.Severity
	text     string
}

// channelPipeline is the fixed evaluation order for channels. The order is
// part of the contract: severities are overwritten, not maxed, so a check
// later in this slice decides the final severity over an earlier one.
var channelPipeline = []func(domain.ChannelSnapshot, *ChannelRules) *finding{
	checkRequiredState,
	checkConnectionCount,
	checkInactivity,
}

// queueCheck pairs a check with its system-entity policy. System-owned
// queues (admin sub-prefix included) skip every threshold check except the
// stuck-queue one; render-time visibility is a separate policy and does not
// feed back into this flag.
type queueCheck struct {
	runsForSystem bool
	run           func(domain.QueueSnapshot, *QueueRules) *finding
}

// queuePipeline is the fixed evaluation order for queues.
var queuePipeline = []queueCheck{
	{runsForSystem: false, run: checkAbsoluteDepth},
	{runsForSystem: false, run: checkDepthPercent},
	{runsForSystem: true, run: checkStuckQueue},
	{runsForSystem: false, run: checkConsumerCount},
}

func checkRequiredState(s domain.ChannelSnapshot, r *ChannelRules) *finding {
	if r.RequiredState == "" || s.State == r.RequiredState {
		return nil
	}
	return &finding{
		key:      CheckWrongStatus,
		severity: domain.SeverityWarning,
		text:     fmt.Sprintf("Channel is not in required status (is %s, required %s)", s.State, r.RequiredState),
	}
}

// checkConnectionCount holds the exclusive critical/warning pair: when the
// critical branch fires the warning branch is not considered at all.
func checkConnectionCount(s domain.ChannelSnapshot, r *ChannelRules) *finding {
	if r.MaxConnections <= 0 {
		return nil
	}
	if s.Connections >= r.MaxConnections {
		return &finding{
			key:      CheckMaxConnections,
			severity: domain.SeverityCritical,
			text:     fmt.Sprintf("Max connection count exceeded (%d/%d)", s.Connections, r.MaxConnections),
		}
	}
	if r.WarningConnections > 0 && s.Connections >= r.WarningConnections {
		return &finding{
			key:      CheckHighConnections,
			severity: domain.SeverityWarning,
			text:     fmt.Sprintf("High connection count (%d/%d)", s.Connections, r.WarningConnections),
		}
	}
	return nil
}

func checkInactivity(s domain.ChannelSnapshot, r *ChannelRules) *finding {
	if !r.InactiveWarning || s.State != "INACTIVE" {
		return nil
	}
	return &finding{
		key:      CheckInactive,
		severity: domain.SeverityWarning,
		text:     "Channel is inactive",
	}
}

func checkAbsoluteDepth(s domain.QueueSnapshot, r *QueueRules) *finding {
	if r.MaxDepth <= 0 {
		return nil
	}
	if s.Depth >= r.MaxDepth {
		return &finding{
			key:      CheckMaxDepth,
			severity: domain.SeverityCritical,
			text:     fmt.Sprintf("Max queue depth exceeded (%d/%d)", s.Depth, r.MaxDepth),
		}
	}
	if r.WarningDepth > 0 && s.Depth >= r.WarningDepth {
		return &finding{
			key:      CheckHighDepth,
			severity: domain.SeverityWarning,
			text:     fmt.Sprintf("High queue depth (%d/%d)", s.Depth, r.WarningDepth),
		}
	}
	return nil
}

func checkDepthPercent(s domain.QueueSnapshot, r *QueueRules) *finding {
	pct := s.DepthPercent()
	if pct >= r.maxDepthPercent() {
		return &finding{
			key:      CheckMaxDepthPercent,
			severity: domain.SeverityCritical,
			text:     fmt.Sprintf("Max queue utilization exceeded (%.1f%%)", pct),
		}
	}
	if pct >= r.warningDepthPercent() {
		return &finding{
			key:      CheckHighDepthPercent,
			severity: domain.SeverityWarning,
			text:     fmt.Sprintf("High queue utilization (%.1f%%)", pct),
		}
	}
	return nil
}

func checkStuckQueue(s domain.QueueSnapshot, r *QueueRules) *finding {
	if !r.StuckQueueWarning || s.Depth == 0 || s.OpenInput != 0 {
		return nil
	}
	return &finding{
		key:      CheckStuckMessages,
		severity: domain.SeverityWarning,
		text:     fmt.Sprintf("Queue contains messages (%d) but has no active consumers", s.Depth),
	}
}

func checkConsumerCount(s domain.QueueSnapshot, r *QueueRules) *finding {
	if r.RequiredConsumers <= 0 || s.OpenInput >= r.RequiredConsumers {
		return nil
	}
	return &finding{
		key:      CheckNoConsumers,
		severity: domain.SeverityWarning,
		text:     fmt.Sprintf("Insufficient consumer count (%d/%d)", s.OpenInput, r.RequiredConsumers),
	}
}
