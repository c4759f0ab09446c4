package metrics

import "sync/atomic"

// GaugeFunc adapts a function to the Gauge interface. The function is invoked
// once per report cycle.
type GaugeFunc func() GaugeValue

// Value implements Gauge.
func (f GaugeFunc) Value() GaugeValue {
	return f()
}

// StandardCounter is a thread-safe Counter backed by an atomic integer.
type StandardCounter struct {
	count atomic.Int64
}

// NewCounter creates a counter starting at zero.
func NewCounter() *StandardCounter {

	return &StandardCounter{}
}

// Inc increments the counter by one.
func (c *StandardCounter) Inc() {
	c.count.Add(1)
}

// Add increments the counter by delta.
func (c *StandardCounter) Add(delta int64) {
	c.count.Add(delta)
}

// Count returns the current tally.
func (c *StandardCounter) Count() int64 {
	return c.count.Load()
}
