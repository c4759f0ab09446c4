package reporter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Schera-ole/instrumental/internal/metrics"
	"github.com/Schera-ole/instrumental/internal/sender"
)

// countingSender is a concurrency-safe sender counting flush cycles.
type countingSender struct {
	mu      sync.Mutex
	flushes int
	closes  int
}

func (s *countingSender) Connect() error { return nil }

func (s *countingSender) Send(kind sender.MetricType, name, value string, timestamp int64) error {
	return nil
}

func (s *countingSender) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *countingSender) IsConnected() bool { return true }

func (s *countingSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *countingSender) Failures() int { return 0 }

func (s *countingSender) flushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

func (s *countingSender) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func TestSchedulerReportsOnInterval(t *testing.T) {
	s := &countingSender{}
	rep := New(s, Options{})
	registry := metrics.NewRegistry()
	registry.RegisterCounter("requests", metrics.NewCounter())

	scheduler := NewScheduler(rep, registry, 10*time.Millisecond, nil)
	scheduler.Start()

	require.Eventually(t, func() bool {
		return s.flushCount() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	scheduler.Stop()
	assert.Equal(t, 1, s.closeCount())

	// No more cycles after Stop.
	settled := s.flushCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, s.flushCount())
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := &countingSender{}
	scheduler := NewScheduler(New(s, Options{}), metrics.NewRegistry(), time.Second, nil)

	scheduler.Stop()
	assert.Equal(t, 1, s.closeCount())
}
