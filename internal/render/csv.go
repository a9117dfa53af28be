package render

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/mqops/mqmon/internal/domain"
)

// CSVRenderer emits a heterogeneous record stream: a queue manager block,
// then a channel block, then a queue block, separated by blank lines and
// each carrying its own header row. Deliberately not one normalized table:
// the single text artifact stays self-describing, and downstream tooling
// depends on this exact shape.
type CSVRenderer struct {
	opts Options
}

func (c *CSVRenderer) Render(rep *domain.CycleReport) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	mgr := rep.Manager
	records := [][]string{
		{"Type", "Server", "QM Name", "Status", "Start Time", "Command Level"},
		{"QueueManager", rep.Server, mgr.Name, string(mgr.Status), mgr.StartTime, mgr.CommandLevel},
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}

	if len(rep.Channels) > 0 {
		buf.WriteString("\n")
		records = [][]string{{"Type", "Name", "Status", "Messages", "Last Message Time", "Check Status", "Check Messages"}}
		for _, ch := range rep.Channels {
			if !c.opts.visible(ch.Name) {
				continue
			}
			records = append(records, []string{
				"Channel",
				ch.Name,
				ch.State,
				strconv.FormatInt(ch.Messages, 10),
				ch.LastMsgTime,
				string(ch.Check.Severity),
				strings.Join(ch.Check.Messages, "; "),
			})
		}
		if err := w.WriteAll(records); err != nil {
			return "", err
		}
	}

	if len(rep.Queues) > 0 {
		buf.WriteString("\n")
		records = [][]string{{"Type", "Name", "Queue Type", "Depth", "Max Depth", "Depth %", "Consumers", "Check Status", "Check Messages"}}
		for _, q := range rep.Queues {
			if !c.opts.visible(q.Name) {
				continue
			}
			records = append(records, []string{
				"Queue",
				q.Name,
				q.Type,
				strconv.FormatInt(q.Depth, 10),
				strconv.FormatInt(q.MaxDepth, 10),
				fmt.Sprintf("%.1f", q.DepthPercent()),
				strconv.Itoa(q.OpenInput),
				string(q.Check.Severity),
				strings.Join(q.Check.Messages, "; "),
			})
		}
		if err := w.WriteAll(records); err != nil {
			return "", err
		}
	}

	return buf.String(), nil
}
