// Package stats periodically snapshots platform counts into Prometheus gauges.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// RoleCounter is the slice of the user repository the collector reads.
type RoleCounter interface {
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

type Collector struct {
	users   RoleCounter
	gauge   *prometheus.GaugeVec
	logger  *slog.Logger
	spec    string
	timeout time.Duration
}

func NewCollector(users RoleCounter, gauge *prometheus.GaugeVec, spec string, logger *slog.Logger) (*Collector, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("%w: stats cron %q: %v", domain.ErrMisconfigured, spec, err)
	}
	return &Collector{
		users:   users,
		gauge:   gauge,
		logger:  logger.With("component", "stats"),
		spec:    spec,
		timeout: 10 * time.Second,
	}, nil
}

// Start collects once, then on every tick of the cron spec until ctx is done.
func (c *Collector) Start(ctx context.Context) {
	sched := cron.New()
	if _, err := sched.AddFunc(c.spec, func() { c.Collect(ctx) }); err != nil {
		c.logger.Error("schedule stats collection", "error", err)
		return
	}

	c.logger.Info("stats collector started", "cron", c.spec)
	c.Collect(ctx)
	sched.Start()

	<-ctx.Done()
	<-sched.Stop().Done()
	c.logger.Info("stats collector shut down")
}

// Collect refreshes the users-by-role gauge. Failures are logged; the gauge
// keeps its previous values.
func (c *Collector) Collect(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	counts, err := c.users.CountByRole(ctx)
	if err != nil {
		c.logger.Warn("count users by role", "error", err)
		return
	}
	for role, n := range counts {
		c.gauge.WithLabelValues(string(role)).Set(float64(n))
	}
	c.logger.Debug("stats collected", "counts", counts)
}
