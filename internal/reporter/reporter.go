// Package reporter bridges metric snapshots to the protocol sender, applying
// the name prefix, unit conversions and numeric formatting rules on each
// report cycle.
package reporter

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Schera-ole/instrumental/internal/metrics"
	"github.com/Schera-ole/instrumental/internal/sender"
)

// Options configures a Reporter. The zero value reports without a prefix,
// rates per second and durations in milliseconds, using the wall clock.
type Options struct {
	// Prefix is dot-joined in front of every metric name. Empty means no
	// leading component.
	Prefix string

	// RateUnit is the time unit rates are converted to (default: per second).
	RateUnit time.Duration

	// DurationUnit is the time unit timer durations are converted to
	// (default: milliseconds).
	DurationUnit time.Duration

	// Clock supplies the report timestamp (default: time.Now).
	Clock func() time.Time

	// Logger receives report-cycle failures (default: no-op).
	Logger *zap.SugaredLogger
}

// Reporter translates metric snapshots into protocol lines.
//
// A report cycle failure is non-fatal: errors are logged, the sender is
// closed, and the next cycle reconnects. Report is not safe for concurrent
// use; the scheduler must serialize cycles.
type Reporter struct {
	sender       sender.Sender
	prefix       string
	rateUnit     time.Duration
	durationUnit time.Duration
	clock        func() time.Time
	logger       *zap.SugaredLogger
}

// New creates a Reporter writing through the given sender.
func New(s sender.Sender, opts Options) *Reporter {

	if opts.RateUnit <= 0 {
		opts.RateUnit = time.Second
	}
	if opts.DurationUnit <= 0 {
		opts.DurationUnit = time.Millisecond
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Reporter{
		sender:       s,
		prefix:       opts.Prefix,
		rateUnit:     opts.RateUnit,
		durationUnit: opts.DurationUnit,
		clock:        opts.Clock,
		logger:       opts.Logger,
	}
}

// Report emits one line per metric field, family by family in the fixed
// order gauges, counters, histograms, meters, timers, names ascending within
// a family, then flushes. Any failure during the cycle is logged and the
// sender is closed; the error is not propagated so the caller's schedule
// stays alive.
func (r *Reporter) Report(
	gauges map[string]metrics.Gauge,
	counters map[string]metrics.Counter,
	histograms map[string]metrics.Histogram,
	meters map[string]metrics.Meter,
	timers map[string]metrics.Timer,
) {
	timestamp := r.clock().Unix()

	if err := r.reportAll(gauges, counters, histograms, meters, timers, timestamp); err != nil {
		r.logger.Warnf("unable to report metrics: %v", err)
		if cerr := r.sender.Close(); cerr != nil {
			r.logger.Warnf("error closing sender: %v", cerr)
		}
	}
}

func (r *Reporter) reportAll(
	gauges map[string]metrics.Gauge,
	counters map[string]metrics.Counter,
	histograms map[string]metrics.Histogram,
	meters map[string]metrics.Meter,
	timers map[string]metrics.Timer,
	timestamp int64,
) error {
	if !r.sender.IsConnected() {
		if err := r.sender.Connect(); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(gauges) {
		if err := r.reportGauge(name, gauges[name], timestamp); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(counters) {
		if err := r.reportCounter(name, counters[name], timestamp); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(histograms) {
		if err := r.reportHistogram(name, histograms[name], timestamp); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(meters) {
		if err := r.reportMetered(name, meters[name], timestamp); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(timers) {
		if err := r.reportTimer(name, timers[name], timestamp); err != nil {
			return err
		}
	}

	return r.sender.Flush()
}

// Stop closes the sender. Intended as the scheduler's teardown hook.
func (r *Reporter) Stop() {

	if err := r.sender.Close(); err != nil {
		r.logger.Debugf("error disconnecting sender: %v", err)
	}
}

func (r *Reporter) reportGauge(name string, gauge metrics.Gauge, timestamp int64) error {
	value, ok := formatGaugeValue(gauge.Value())
	if !ok {
		// Non-numeric gauges produce no line and no error.
		return nil
	}
	return r.sender.Send(sender.Gauge, r.prefixed(name), value, timestamp)
}

func (r *Reporter) reportCounter(name string, counter metrics.Counter, timestamp int64) error {
	return r.sender.Send(sender.Gauge, r.prefixed(name, "count"), formatInt(counter.Count()), timestamp)
}

func (r *Reporter) reportHistogram(name string, histogram metrics.Histogram, timestamp int64) error {
	snapshot := histogram.Snapshot()

	fields := []struct {
		suffix string
		value  string
	}{
		{"count", formatInt(histogram.Count())},
		{"max", formatInt(snapshot.Max())},
		{"mean", formatFloat(snapshot.Mean())},
		{"min", formatInt(snapshot.Min())},
		{"stddev", formatFloat(snapshot.StdDev())},
		{"p50", formatFloat(snapshot.Median())},
		{"p75", formatFloat(snapshot.Percentile75())},
		{"p95", formatFloat(snapshot.Percentile95())},
		{"p98", formatFloat(snapshot.Percentile98())},
		{"p99", formatFloat(snapshot.Percentile99())},
		{"p999", formatFloat(snapshot.Percentile999())},
	}
	for _, f := range fields {
		if err := r.sender.Send(sender.Gauge, r.prefixed(name, f.suffix), f.value, timestamp); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) reportMetered(name string, meter metrics.Meter, timestamp int64) error {
	fields := []struct {
		suffix string
		value  string
	}{
		{"count", formatInt(meter.Count())},
		{"m1_rate", formatFloat(r.convertRate(meter.Rate1()))},
		{"m5_rate", formatFloat(r.convertRate(meter.Rate5()))},
		{"m15_rate", formatFloat(r.convertRate(meter.Rate15()))},
		{"mean_rate", formatFloat(r.convertRate(meter.RateMean()))},
	}
	for _, f := range fields {
		if err := r.sender.Send(sender.Gauge, r.prefixed(name, f.suffix), f.value, timestamp); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) reportTimer(name string, timer metrics.Timer, timestamp int64) error {
	snapshot := timer.Snapshot()

	// Duration fields come before the meter-style fields; the backend relies
	// on this ordering.
	fields := []struct {
		suffix string
		value  string
	}{
		{"max", formatFloat(r.convertDuration(float64(snapshot.Max())))},
		{"mean", formatFloat(r.convertDuration(snapshot.Mean()))},
		{"min", formatFloat(r.convertDuration(float64(snapshot.Min())))},
		{"stddev", formatFloat(r.convertDuration(snapshot.StdDev()))},
		{"p50", formatFloat(r.convertDuration(snapshot.Median()))},
		{"p75", formatFloat(r.convertDuration(snapshot.Percentile75()))},
		{"p95", formatFloat(r.convertDuration(snapshot.Percentile95()))},
		{"p98", formatFloat(r.convertDuration(snapshot.Percentile98()))},
		{"p99", formatFloat(r.convertDuration(snapshot.Percentile99()))},
		{"p999", formatFloat(r.convertDuration(snapshot.Percentile999()))},
	}
	for _, f := range fields {
		if err := r.sender.Send(sender.Gauge, r.prefixed(name, f.suffix), f.value, timestamp); err != nil {
			return err
		}
	}

	return r.reportMetered(name, timer, timestamp)
}

// convertRate rescales a per-second rate to the configured rate unit.
func (r *Reporter) convertRate(rate float64) float64 {
	return rate * r.rateUnit.Seconds()
}

// convertDuration rescales a nanosecond duration to the configured duration
// unit.
func (r *Reporter) convertDuration(nanos float64) float64 {
	return nanos / float64(r.durationUnit.Nanoseconds())
}

// prefixed joins the configured prefix and name components with dots,
// skipping empty components so an omitted prefix yields no leading dot.
func (r *Reporter) prefixed(components ...string) string {
	parts := make([]string, 0, len(components)+1)
	if r.prefix != "" {
		parts = append(parts, r.prefix)
	}
	for _, c := range components {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ".")
}

// formatGaugeValue renders a gauge reading according to its kind. The second
// return value is false for values that must be skipped.
func formatGaugeValue(v metrics.GaugeValue) (string, bool) {
	switch v.Kind() {
	case metrics.KindInt64:
		return formatInt(v.Int64()), true
	case metrics.KindFloat64:
		return formatFloat(v.Float64()), true
	default:
		return "", false
	}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatFloat renders with exactly two digits after a locale-invariant
// decimal point.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
