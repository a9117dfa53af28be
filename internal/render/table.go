package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/mqops/mqmon/internal/domain"
)

// TableRenderer emits one bordered sub-table per entity class with fixed
// column headers. The check-status cell is colored by severity when
// coloring is on; everything else stays plain so the grid lines up.
type TableRenderer struct {
	opts Options
}

func (t *TableRenderer) Render(rep *domain.CycleReport) (string, error) {
	var buf strings.Builder
	mgr := rep.Manager

	fmt.Fprintf(&buf, "=== Server: %s - %s ===\n\n", rep.Server, mgr.Name)

	buf.WriteString("Queue Manager:\n")
	qmTable := newTable(&buf, []string{"NAME", "STATUS", "START TIME", "COMMAND LEVEL"})
	qmTable.Append([]string{
		mgr.Name,
		colorize(string(mgr.Status), mgr.Status, t.opts.Colored),
		mgr.StartTime,
		mgr.CommandLevel,
	})
	qmTable.Render()
	buf.WriteString("\n")

	if len(rep.Channels) > 0 {
		buf.WriteString("Channels:\n")
		chTable := newTable(&buf, []string{"NAME", "TYPE", "STATUS", "MESSAGES", "LAST MSG TIME", "CHECK STATUS"})
		for _, ch := range rep.Channels {
			if !t.opts.visible(ch.Name) {
				continue
			}
			chTable.Append([]string{
				ch.Name,
				ch.Type,
				ch.State,
				strconv.FormatInt(ch.Messages, 10),
				ch.LastMsgTime,
				colorize(string(ch.Check.Severity), ch.Check.Severity, t.opts.Colored),
			})
		}
		chTable.Render()
		buf.WriteString("\n")
	}

	if len(rep.Queues) > 0 {
		buf.WriteString("Queues:\n")
		qTable := newTable(&buf, []string{"NAME", "TYPE", "DEPTH", "%FULL", "CONSUMERS", "CHECK STATUS", "MESSAGES"})
		for _, q := range rep.Queues {
			if !t.opts.visible(q.Name) {
				continue
			}
			qTable.Append([]string{
				q.Name,
				q.Type,
				fmt.Sprintf("%d/%d", q.Depth, q.MaxDepth),
				fmt.Sprintf("%.1f%%", q.DepthPercent()),
				strconv.Itoa(q.OpenInput),
				colorize(string(q.Check.Severity), q.Check.Severity, t.opts.Colored),
				strings.Join(q.Check.Messages, ", "),
			})
		}
		qTable.Render()
	}

	return buf.String(), nil
}

func newTable(buf *strings.Builder, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}
