package main

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Schera-ole/instrumental/internal/metrics"
)

func TestSamplerRuntimeGauges(t *testing.T) {
	samples := &sampler{}
	samples.poll(zap.NewNop().Sugar())

	for _, name := range runtimeMetricNames {
		value := samples.runtimeGauge(name)()
		assert.Equalf(t, metrics.KindFloat64, value.Kind(), "gauge %s should carry a numeric sample", name)
	}

	// Alloc is never zero in a running process.
	alloc := samples.runtimeGauge("Alloc")()
	assert.Greater(t, alloc.Float64(), 0.0)
}

func TestSamplerUnknownFieldIsSkippable(t *testing.T) {
	samples := &sampler{}
	samples.poll(zap.NewNop().Sugar())

	value := samples.runtimeGauge("EnableGC")() // bool field, not reportable
	assert.Equal(t, metrics.KindInvalid, value.Kind())
}

func TestSamplerRegistersAllGauges(t *testing.T) {
	samples := &sampler{}
	samples.poll(zap.NewNop().Sugar())

	registry := metrics.NewRegistry()
	samples.register(registry)

	gauges := registry.Gauges()
	for _, name := range runtimeMetricNames {
		require.Containsf(t, gauges, name, "gauge %s should be registered", name)
	}
	require.Contains(t, gauges, "TotalMemory")
	require.Contains(t, gauges, "FreeMemory")
	for i := 0; i < runtime.NumCPU(); i++ {
		require.Contains(t, gauges, fmt.Sprintf("CPUutilization%d", i))
	}
}
