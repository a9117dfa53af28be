package monitor

import (
	"time"

	"github.com/google/uuid"

	"github.com/mqops/mqmon/internal/domain"
)

// BuildCycleReport assembles one group's evaluated entities into a cycle
// report. Pure assembly: entity order stays as collected, nothing is sorted
// or deduplicated, and entity severities are never folded into the manager
// status (that comes from the manager's own probe).
func BuildCycleReport(server string, mgr domain.ManagerStatus, channels []domain.ChannelReport, queues []domain.QueueReport) domain.CycleReport {
	return domain.CycleReport{
		ID:        uuid.New().String(),
		Server:    server,
		Timestamp: time.Now(),
		Manager:   mgr,
		Channels:  channels,
		Queues:    queues,
	}
}
