package job

import (
	"context"
	"time"

	"goldmine/internal/logger"
	"goldmine/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	settlementCredits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_credits_total",
		Help: "Daily income credits paid out by the settlement job",
	})
	settlementFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_failures_total",
		Help: "Per-plan failures during settlement runs",
	})
	settlementRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_runs_total",
		Help: "Completed settlement passes",
	})
)

func init() {
	prometheus.MustRegister(settlementCredits, settlementFailures, settlementRuns)
}

// SettlementJob runs the daily income pass once per calendar day at the
// configured local hour. Payment idempotency lives in the database, so a
// restart mid-day or an extra manual run can never double-pay.
type SettlementJob struct {
	settlement *service.SettlementService
	hour       int
	stopCh     chan struct{}
	interval   time.Duration
	lastRunDay string
}

func NewSettlementJob(settlement *service.SettlementService, hour int) *SettlementJob {
	return &SettlementJob{
		settlement: settlement,
		hour:       hour,
		stopCh:     make(chan struct{}),
		interval:   time.Minute,
	}
}

func (j *SettlementJob) Start(ctx context.Context) {
	logger.Info("settlement job started", "hour", j.hour)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("settlement job exiting")
			return
		case <-j.stopCh:
			logger.Info("settlement job stopped")
			return
		case <-ticker.C:
			j.tick(ctx, time.Now())
		}
	}
}

func (j *SettlementJob) Stop() {
	close(j.stopCh)
}

// tick fires the settlement pass at most once per day, on the first tick at
// or after the configured hour.
func (j *SettlementJob) tick(ctx context.Context, now time.Time) {
	if now.Hour() < j.hour {
		return
	}

	day := now.Format("2006-01-02")
	if day == j.lastRunDay {
		return
	}

	report, err := j.settlement.Run(ctx)
	if err != nil {
		settlementFailures.Inc()
		logger.Error("settlement job run failed", "error", err)
		return
	}

	j.lastRunDay = day
	settlementRuns.Inc()
	settlementCredits.Add(float64(report.Credited))
	settlementFailures.Add(float64(report.Failed))
}
