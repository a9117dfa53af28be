package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mqops/mqmon/internal/domain"
)

// LineRenderer emits one line per entity in the classic check-output style:
//
//	21-08-2026 14:03:12 - WARNING - QueueState - Queue ORDERS.IN on QM1 - depth: 950/1000 (95.0%), consumers: 2 (High queue utilization (95.0%))
//
// The whole line is colored by its severity when coloring is on.
type LineRenderer struct {
	opts Options
	now  func() time.Time
}

func (l *LineRenderer) Render(rep *domain.CycleReport) (string, error) {
	ts := l.now().Format("02-01-2006 15:04:05")
	var lines []string

	mgr := rep.Manager
	mgrLine := fmt.Sprintf("%s - %s - QueueManagerState - IBM MQ Queue Manager %s is %s on %s",
		ts, mgr.Status, mgr.Name, strings.ToLower(string(mgr.Status)), rep.Server)
	lines = append(lines, colorize(mgrLine, mgr.Status, l.opts.Colored))

	for _, ch := range rep.Channels {
		if !l.opts.visible(ch.Name) {
			continue
		}
		line := fmt.Sprintf("%s - %s - ChannelState - Channel %s is %s on %s",
			ts, ch.Check.Severity, ch.Name, strings.ToLower(ch.State), mgr.Name)
		if len(ch.Check.Messages) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(ch.Check.Messages, ", "))
		}
		lines = append(lines, colorize(line, ch.Check.Severity, l.opts.Colored))
	}

	for _, q := range rep.Queues {
		if !l.opts.visible(q.Name) {
			continue
		}
		line := fmt.Sprintf("%s - %s - QueueState - Queue %s on %s - depth: %d/%d (%.1f%%), consumers: %d",
			ts, q.Check.Severity, q.Name, mgr.Name, q.Depth, q.MaxDepth, q.DepthPercent(), q.OpenInput)
		if len(q.Check.Messages) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(q.Check.Messages, ", "))
		}
		lines = append(lines, colorize(line, q.Check.Severity, l.opts.Colored))
	}

	return strings.Join(lines, "\n"), nil
}
