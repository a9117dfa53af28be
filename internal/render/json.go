package render

import (
	"encoding/json"
	"time"

	"github.com/mqops/mqmon/internal/domain"
)

// JSONRenderer emits the report as an indented JSON document. Severity and
// messages survive a round-trip losslessly; this is the format to consume
// programmatically. No colorization, ever.
type JSONRenderer struct {
	opts Options
}

// Document is the wire shape of a rendered cycle report. Exported so
// consumers of the status API can decode responses with the same types.
type Document struct {
	Server       string               `json:"server"`
	Timestamp    time.Time            `json:"timestamp"`
	QueueManager domain.ManagerStatus `json:"queue_manager"`
	Channels     []ChannelRecord      `json:"channels"`
	Queues       []QueueRecord        `json:"queues"`
}

type ChannelRecord struct {
	domain.ChannelSnapshot
	Check domain.CheckResult `json:"check_status"`
}

type QueueRecord struct {
	domain.QueueSnapshot
	DepthPercent float64            `json:"depth_percent"`
	Check        domain.CheckResult `json:"check_status"`
}

// BuildDocument applies the shared visibility filter and produces the wire
// document. Split out of Render so the status API can serve the same shape.
func BuildDocument(rep *domain.CycleReport, opts Options) Document {
	doc := Document{
		Server:       rep.Server,
		Timestamp:    rep.Timestamp,
		QueueManager: rep.Manager,
		Channels:     []ChannelRecord{},
		Queues:       []QueueRecord{},
	}
	for _, ch := range rep.Channels {
		if !opts.visible(ch.Name) {
			continue
		}
		doc.Channels = append(doc.Channels, ChannelRecord{ChannelSnapshot: ch.ChannelSnapshot, Check: ch.Check})
	}
	for _, q := range rep.Queues {
		if !opts.visible(q.Name) {
			continue
		}
		doc.Queues = append(doc.Queues, QueueRecord{
			QueueSnapshot: q.QueueSnapshot,
			DepthPercent:  q.DepthPercent(),
			Check:         q.Check,
		})
	}
	return doc
}

func (j *JSONRenderer) Render(rep *domain.CycleReport) (string, error) {
	out, err := json.MarshalIndent(BuildDocument(rep, j.opts), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
