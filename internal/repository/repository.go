// Package repository provides storage backends for the ingest server.
//
// Only the latest value per gauge name is kept; history is out of scope.
package repository

import (
	"context"

	models "github.com/Schera-ole/instrumental/internal/model"
)

// Repository is the storage contract of the ingest server.
type Repository interface {
	SetGauge(ctx context.Context, point models.GaugePoint) error
	SetGauges(ctx context.Context, points []models.GaugePoint) error
	GetGauge(ctx context.Context, name string) (models.GaugePoint, error)
	ListGauges(ctx context.Context) ([]models.GaugePoint, error)
	DeleteGauge(ctx context.Context, name string) error
	AddNotice(ctx context.Context, notice models.NoticeEvent) error
	ListNotices(ctx context.Context) ([]models.NoticeEvent, error)
	Ping(ctx context.Context) error
	Close() error
}
