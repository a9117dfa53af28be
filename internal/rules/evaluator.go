package rules

import "github.com/mqops/mqmon/internal/domain"

// EvaluateChannel runs the channel pipeline against one snapshot. Checks
// run in pipeline order; every triggered check overwrites the running
// severity and appends one message. Evaluation never fails: absent
// thresholds simply disable their check.
func EvaluateChannel(snap domain.ChannelSnapshot, r *ChannelRules) domain.CheckResult {
	res := domain.NewCheckResult()
	for _, check := range channelPipeline {
		if f := check(snap, r); f != nil {
			res.Record(resolveMessage(r.Messages, *f))
		}
	}
	return res
}

// EvaluateQueue runs the queue pipeline against one snapshot. System-owned
// queues skip every check not marked runsForSystem; whether the queue is
// later visible in rendered output is decided elsewhere and does not affect
// evaluation.
func EvaluateQueue(snap domain.QueueSnapshot, r *QueueRules) domain.CheckResult {
	res := domain.NewCheckResult()
	system := domain.Classify(snap.Name).SystemOwned()
	for _, check := range queuePipeline {
		if system && !check.runsForSystem {
			continue
		}
		if f := check.run(snap, r); f != nil {
			res.Record(resolveMessage(r.Messages, *f))
		}
	}
	return res
}
