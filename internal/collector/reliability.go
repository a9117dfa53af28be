package collector

import (
	"context"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mqops/mqmon/internal/domain"
)

// Reliable wraps a Collector with retries, a circuit breaker and inquiry
// pacing. Transient transport hiccups are retried inside the cycle; a queue
// manager that keeps failing trips the breaker so the remaining cycle work
// is not spent on a dead endpoint. The limiter keeps status inquiries from
// hammering the command server.
type Reliable struct {
	next    Collector
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewReliable(next Collector, log *zap.Logger) *Reliable {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telemetry",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Reliable{
		next:    next,
		cb:      cb,
		limiter: rate.NewLimiter(rate.Limit(50), 10),
		log:     log.Named("collector"),
	}
}

func (w *Reliable) ManagerStatus(ctx context.Context, t Target) (domain.ManagerStatus, error) {
	var status domain.ManagerStatus
	err := w.do(ctx, func(ctx context.Context) error {
		var err error
		status, err = w.next.ManagerStatus(ctx, t)
		return err
	})
	return status, err
}

func (w *Reliable) Channels(ctx context.Context, t Target, patterns []string) ([]domain.ChannelSnapshot, error) {
	var snaps []domain.ChannelSnapshot
	err := w.do(ctx, func(ctx context.Context) error {
		var err error
		snaps, err = w.next.Channels(ctx, t, patterns)
		return err
	})
	return snaps, err
}

func (w *Reliable) Queues(ctx context.Context, t Target, patterns []string) ([]domain.QueueSnapshot, error) {
	var snaps []domain.QueueSnapshot
	err := w.do(ctx, func(ctx context.Context) error {
		var err error
		snaps, err = w.next.Queues(ctx, t, patterns)
		return err
	})
	return snaps, err
}

func (w *Reliable) do(ctx context.Context, op func(context.Context) error) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := w.cb.Execute(func() (interface{}, error) {
		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(3),
			retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
				w.log.Warn("telemetry inquiry retry", zap.Uint("attempt", n+1), zap.Error(err))
				return retry.BackOffDelay(n, err, config)
			}),
		)

		return nil, r.Do(func() error {
			opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return op(opCtx)
		})
	})
	return err
}
