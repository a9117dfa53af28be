package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mqops/mqmon/internal/collector"
	"github.com/mqops/mqmon/internal/domain"
	"github.com/mqops/mqmon/internal/infra"
	"github.com/mqops/mqmon/internal/render"
	"github.com/mqops/mqmon/internal/rules"
)

// Runner executes monitoring passes: sequentially over servers, and within
// a server over its queue managers. One group is fully collected, evaluated
// and rendered before the next begins; groups share only the read-only
// configuration, so a failing group degrades its own report and never
// aborts the rest.
type Runner struct {
	cfg     *infra.Config
	col     collector.Collector
	rend    render.Renderer
	log     *zap.Logger
	metrics *Metrics
	out     io.Writer
}

func NewRunner(cfg *infra.Config, col collector.Collector, rend render.Renderer, log *zap.Logger, metrics *Metrics, out io.Writer) *Runner {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Runner{
		cfg:     cfg,
		col:     col,
		rend:    rend,
		log:     log.Named("monitor"),
		metrics: metrics,
		out:     out,
	}
}

// Run performs one pass over the given servers and returns every group's
// cycle report in execution order.
func (r *Runner) Run(ctx context.Context, servers []infra.ServerConfig) ([]domain.CycleReport, error) {
	var reports []domain.CycleReport
	for _, srv := range servers {
		r.log.Info("monitoring server", zap.String("server", srv.Name), zap.Int("queue_managers", len(srv.QueueManagers)))
		for _, qm := range srv.QueueManagers {
			if err := ctx.Err(); err != nil {
				return reports, err
			}
			rep := r.runGroup(ctx, srv, qm)
			if err := r.emit(&rep); err != nil {
				return reports, err
			}
			reports = append(reports, rep)
		}
	}
	return reports, nil
}

// runGroup produces one queue manager's cycle report. A manager probe
// failure degrades the whole group to a CRITICAL unknown-state report;
// per-pattern channel/queue failures drop only those entities. Both are
// logged and the pass continues.
func (r *Runner) runGroup(ctx context.Context, srv infra.ServerConfig, qm infra.ManagerConfig) domain.CycleReport {
	start := time.Now()
	log := r.log.With(zap.String("server", srv.Name), zap.String("manager", qm.Name))

	defer func() {
		r.metrics.CycleDuration.WithLabelValues(srv.Name, qm.Name).Observe(time.Since(start).Seconds())
		r.metrics.CyclesTotal.WithLabelValues(srv.Name, qm.Name).Inc()
	}()

	t := target(srv, qm)

	mgr, err := r.col.ManagerStatus(ctx, t)
	if err != nil {
		aerr := &collector.AcquisitionError{Server: srv.Name, Manager: qm.Name, Cause: err}
		log.Error("queue manager unreachable, degrading group", zap.Error(aerr))
		r.metrics.GroupFailures.WithLabelValues(srv.Name, qm.Name).Inc()
		return BuildCycleReport(srv.Name, domain.ManagerStatus{
			Name:         qm.Name,
			Status:       domain.SeverityCritical,
			StartTime:    "Unknown",
			CommandLevel: "Unknown",
			Err:          aerr.Error(),
		}, nil, nil)
	}

	channels := r.evaluateChannels(ctx, t, qm, log)
	queues := r.evaluateQueues(ctx, t, qm, log)

	return BuildCycleReport(srv.Name, mgr, channels, queues)
}

func (r *Runner) evaluateChannels(ctx context.Context, t collector.Target, qm infra.ManagerConfig, log *zap.Logger) []domain.ChannelReport {
	snaps, err := r.col.Channels(ctx, t, qm.ChannelsToMonitor)
	if err != nil {
		log.Error("channel inquiry failed", zap.Error(&collector.AcquisitionError{Server: t.Server, Manager: t.Manager, Cause: err}))
		return nil
	}

	reports := make([]domain.ChannelReport, 0, len(snaps))
	for _, snap := range snaps {
		ruleset, err := r.cfg.Channels.Resolve(snap.Name)
		if err != nil {
			log.Error("no channel rules resolved", zap.String("channel", snap.Name), zap.Error(err))
			continue
		}
		check := rules.EvaluateChannel(snap, ruleset)
		r.metrics.Findings.WithLabelValues(string(domain.ClassChannel), string(check.Severity)).Inc()
		r.logEntity(log, "channel", snap.Name, check)
		reports = append(reports, domain.ChannelReport{ChannelSnapshot: snap, Check: check})
	}
	return reports
}

func (r *Runner) evaluateQueues(ctx context.Context, t collector.Target, qm infra.ManagerConfig, log *zap.Logger) []domain.QueueReport {
	snaps, err := r.col.Queues(ctx, t, qm.QueuesToMonitor)
	if err != nil {
		log.Error("queue inquiry failed", zap.Error(&collector.AcquisitionError{Server: t.Server, Manager: t.Manager, Cause: err}))
		return nil
	}

	reports := make([]domain.QueueReport, 0, len(snaps))
	for _, snap := range snaps {
		ruleset, err := r.cfg.Queues.Resolve(snap.Name)
		if err != nil {
			log.Error("no queue rules resolved", zap.String("queue", snap.Name), zap.Error(err))
			continue
		}
		check := rules.EvaluateQueue(snap, ruleset)
		r.metrics.Findings.WithLabelValues(string(domain.ClassQueue), string(check.Severity)).Inc()
		r.logEntity(log, "queue", snap.Name, check)
		reports = append(reports, domain.QueueReport{QueueSnapshot: snap, Check: check})
	}
	return reports
}

// System entities stay at debug level so routine runs do not drown the log
// in infrastructure noise.
func (r *Runner) logEntity(log *zap.Logger, class, name string, check domain.CheckResult) {
	fields := []zap.Field{
		zap.String(class, name),
		zap.String("status", string(check.Severity)),
	}
	if len(check.Messages) > 0 {
		fields = append(fields, zap.Strings("findings", check.Messages))
	}
	if domain.Classify(name) == domain.NameSystem {
		log.Debug("entity evaluated", fields...)
		return
	}
	log.Info("entity evaluated", fields...)
}

// emit renders the report and writes it to the console sink and, when
// configured, appends it to the output log file.
func (r *Runner) emit(rep *domain.CycleReport) error {
	out, err := r.rend.Render(rep)
	if err != nil {
		return fmt.Errorf("rendering report for %s: %w", rep.Manager.Name, err)
	}

	if _, err := fmt.Fprintln(r.out, out); err != nil {
		return err
	}

	if path := r.cfg.Output.LogFile; path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening output log file: %w", err)
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "%s\n\n", out); err != nil {
			return err
		}
	}
	return nil
}

func target(srv infra.ServerConfig, qm infra.ManagerConfig) collector.Target {
	port := qm.Port
	if port == 0 {
		port = srv.Port
	}
	return collector.Target{
		Server:   srv.Name,
		Host:     srv.Host,
		Port:     port,
		Manager:  qm.Name,
		Channel:  qm.Channel,
		User:     qm.User,
		Password: qm.Password,
	}
}
