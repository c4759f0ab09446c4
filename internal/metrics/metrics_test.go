package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGaugeValueKinds(t *testing.T) {
	assert.Equal(t, KindInvalid, GaugeValue{}.Kind())

	v := Int64Value(42)
	assert.Equal(t, KindInt64, v.Kind())
	assert.Equal(t, int64(42), v.Int64())

	f := Float64Value(1.5)
	assert.Equal(t, KindFloat64, f.Kind())
	assert.Equal(t, 1.5, f.Float64())

	s := StringValue("idle")
	assert.Equal(t, KindString, s.Kind())
	assert.Equal(t, "idle", s.String())
}

func TestGaugeFunc(t *testing.T) {
	calls := 0
	g := GaugeFunc(func() GaugeValue {
		calls++
		return Int64Value(int64(calls))
	})

	assert.Equal(t, int64(1), g.Value().Int64())
	assert.Equal(t, int64(2), g.Value().Int64())
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	assert.Zero(t, c.Count())

	c.Inc()
	c.Add(10)
	assert.Equal(t, int64(11), c.Count())
}

func TestCounterConcurrentIncrements(t *testing.T) {
	c := NewCounter()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), c.Count())
}

func TestRegistryRegisterAndList(t *testing.T) {
	r := NewRegistry()

	r.RegisterGauge("g", GaugeFunc(func() GaugeValue { return Int64Value(1) }))
	r.RegisterCounter("c", NewCounter())

	gauges := r.Gauges()
	require.Len(t, gauges, 1)
	assert.Equal(t, int64(1), gauges["g"].Value().Int64())
	assert.Len(t, r.Counters(), 1)
	assert.Empty(t, r.Histograms())
	assert.Empty(t, r.Meters())
	assert.Empty(t, r.Timers())
}

func TestRegistryReplacesByName(t *testing.T) {
	r := NewRegistry()

	r.RegisterGauge("g", GaugeFunc(func() GaugeValue { return Int64Value(1) }))
	r.RegisterGauge("g", GaugeFunc(func() GaugeValue { return Int64Value(2) }))

	gauges := r.Gauges()
	require.Len(t, gauges, 1)
	assert.Equal(t, int64(2), gauges["g"].Value().Int64())
}

func TestRegistryAccessorsReturnCopies(t *testing.T) {
	r := NewRegistry()
	r.RegisterCounter("c", NewCounter())

	counters := r.Counters()
	delete(counters, "c")

	assert.Len(t, r.Counters(), 1)
}
