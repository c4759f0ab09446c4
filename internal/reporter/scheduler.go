package reporter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/instrumental/internal/metrics"
)

// Source supplies the metric families for one report cycle. *metrics.Registry
// satisfies it.
type Source interface {
	Gauges() map[string]metrics.Gauge
	Counters() map[string]metrics.Counter
	Histograms() map[string]metrics.Histogram
	Meters() map[string]metrics.Meter
	Timers() map[string]metrics.Timer
}

// Scheduler invokes a report cycle on a fixed cadence. It holds the Reporter
// by composition and serializes cycles on a single goroutine, so the sender
// never sees concurrent calls.
type Scheduler struct {
	reporter *Reporter
	source   Source
	interval time.Duration
	logger   *zap.SugaredLogger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler reporting from source every interval.
func NewScheduler(r *Reporter, source Source, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		reporter: r,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the reporting loop. It returns immediately.
func (s *Scheduler) Start() {

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	s.logger.Infof("reporting every %s", s.interval)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.report()
		}
	}
}

func (s *Scheduler) report() {
	s.reporter.Report(
		s.source.Gauges(),
		s.source.Counters(),
		s.source.Histograms(),
		s.source.Meters(),
		s.source.Timers(),
	)
}

// Stop halts the loop and always stops the reporter, which closes the
// sender, even if the loop never started.
func (s *Scheduler) Stop() {

	defer s.reporter.Stop()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}
