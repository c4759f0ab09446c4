package repository

import (
	"context"
	"sync"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
	models "github.com/Schera-ole/instrumental/internal/model"
)

// MemStorage implements the Repository interface using in-memory maps.
type MemStorage struct {
	// mu provides thread-safe access across ingest connections
	mu sync.RWMutex

	// gauges holds the latest point per metric name
	gauges map[string]models.GaugePoint

	// notices holds received annotations in arrival order
	notices []models.NoticeEvent
}

// NewMemStorage creates a new in-memory storage instance.
func NewMemStorage() *MemStorage {

	return &MemStorage{
		gauges: make(map[string]models.GaugePoint),
	}
}

// SetGauge stores a single gauge point, replacing any previous value for the
// same name.
func (ms *MemStorage) SetGauge(ctx context.Context, point models.GaugePoint) error {

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.gauges[point.Name] = point
	return nil
}

// SetGauges stores multiple gauge points in one operation.
func (ms *MemStorage) SetGauges(ctx context.Context, points []models.GaugePoint) error {

	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, point := range points {
		ms.gauges[point.Name] = point
	}
	return nil
}

// GetGauge retrieves the latest point for a metric name.
func (ms *MemStorage) GetGauge(ctx context.Context, name string) (models.GaugePoint, error) {

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	point, exists := ms.gauges[name]
	if !exists {
		return models.GaugePoint{}, internalerrors.ErrGaugeNotFound
	}
	return point, nil
}

// ListGauges returns the latest point of every known metric.
func (ms *MemStorage) ListGauges(ctx context.Context) ([]models.GaugePoint, error) {

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make([]models.GaugePoint, 0, len(ms.gauges))
	for _, point := range ms.gauges {
		result = append(result, point)
	}
	return result, nil
}

// DeleteGauge removes a metric from storage.
func (ms *MemStorage) DeleteGauge(ctx context.Context, name string) error {

	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.gauges, name)
	return nil
}

// AddNotice appends a received annotation.
func (ms *MemStorage) AddNotice(ctx context.Context, notice models.NoticeEvent) error {

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.notices = append(ms.notices, notice)
	return nil
}

// ListNotices returns all received annotations in arrival order.
func (ms *MemStorage) ListNotices(ctx context.Context) ([]models.NoticeEvent, error) {

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make([]models.NoticeEvent, len(ms.notices))
	copy(result, ms.notices)
	return result, nil
}

// Ping checks the health of the memory storage. Always healthy.
func (ms *MemStorage) Ping(ctx context.Context) error {
	return nil
}

// Close releases any resources held by the memory storage.
func (ms *MemStorage) Close() error {

	return nil
}
