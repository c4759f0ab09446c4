// Package metrics defines the read-side contracts the reporter consumes.
//
// Aggregation and statistics computation live in whatever instrumentation
// library feeds these interfaces; this package only describes the snapshot
// accessors a report cycle reads, plus trivial producers for simple gauges
// and counters.
package metrics

// Gauge reports an instantaneous value of caller-defined type.
type Gauge interface {
	Value() GaugeValue
}

// Counter is a monotonic or adjustable integer tally.
type Counter interface {
	Count() int64
}

// Snapshot is a point-in-time immutable read of a distribution's statistical
// summary.
type Snapshot interface {
	Max() int64
	Mean() float64
	Min() int64
	StdDev() float64
	Median() float64
	Percentile75() float64
	Percentile95() float64
	Percentile98() float64
	Percentile99() float64
	Percentile999() float64
}

// Histogram is a statistical distribution summary over observed values.
type Histogram interface {
	Count() int64
	Snapshot() Snapshot
}

// Meter is a rate-of-events tracker exposing 1/5/15-minute and mean rates
// plus a total count. Rates are per-second; the reporter applies the
// configured rate-unit conversion.
type Meter interface {
	Count() int64
	Rate1() float64
	Rate5() float64
	Rate15() float64
	RateMean() float64
}

// Timer combines a histogram of durations (in nanoseconds) with a meter of
// invocation rate.
type Timer interface {
	Meter
	Snapshot() Snapshot
}
