package worker

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/chronoplan/internal/observability"
)

// MetricsReporter logs a counter snapshot on a cron schedule.
type MetricsReporter struct {
	cron *cron.Cron
}

// StartMetricsReporter schedules the report. It returns nil when spec is empty.
func StartMetricsReporter(spec string, loc *time.Location, metrics *observability.Metrics, logger *zap.Logger) (*MetricsReporter, error) {
	if spec == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { reportMetrics(metrics, logger) }); err != nil {
		return nil, err
	}
	c.Start()
	return &MetricsReporter{cron: c}, nil
}

// Stop waits for a running report to finish.
func (r *MetricsReporter) Stop() {
	if r == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func reportMetrics(metrics *observability.Metrics, logger *zap.Logger) {
	snap := metrics.Snapshot()
	var requests, failures int64
	for _, n := range snap.Requests {
		requests += n
	}
	for _, n := range snap.Errors {
		failures += n
	}
	logger.Info("metrics report",
		zap.Int64("requests", requests),
		zap.Int64("errors", failures),
		zap.Any("generations", snap.Generations),
		zap.Int64("events_generated", snap.EventsGenerated))
}
