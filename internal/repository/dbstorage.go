package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	internalerrors "github.com/Schera-ole/instrumental/internal/errors"
	models "github.com/Schera-ole/instrumental/internal/model"
)

// retryDelays paces retries of statements that failed on a connection-level
// error.
var retryDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// DBStorage implements the Repository interface on PostgreSQL.
type DBStorage struct {
	db *sql.DB
}

// NewDBStorage opens a PostgreSQL-backed storage for the given DSN.
func NewDBStorage(dsn string) (*DBStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &DBStorage{db: db}, nil
}

// isRetryable reports whether the error is a connection-level PostgreSQL
// fault worth retrying.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code)
	}
	return false
}

// withRetry runs op, retrying connection-level faults with increasing delays.
func withRetry(ctx context.Context, op func() error) error {
	err := op()
	for attempt := 0; attempt < len(retryDelays) && isRetryable(err); attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
		err = op()
	}
	return err
}

// SetGauge stores a single gauge point, replacing any previous value for the
// same name.
func (storage *DBStorage) SetGauge(ctx context.Context, point models.GaugePoint) error {
	return withRetry(ctx, func() error {
		query := `INSERT INTO gauges (name, value, reported_at, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (name) DO UPDATE SET value = $2, reported_at = $3, updated_at = NOW()`
		_, err := storage.db.ExecContext(ctx, query, point.Name, point.Value, point.Timestamp)
		if err != nil {
			return fmt.Errorf("error saving gauge: %w", err)
		}
		return nil
	})
}

// SetGauges stores multiple gauge points in one transaction.
func (storage *DBStorage) SetGauges(ctx context.Context, points []models.GaugePoint) error {
	return withRetry(ctx, func() error {
		tx, err := storage.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("can't start transaction: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO gauges (name, value, reported_at, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (name) DO UPDATE SET value = $2, reported_at = $3, updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("error preparing gauge upsert: %w", err)
		}
		defer stmt.Close()

		for _, point := range points {
			if _, err := stmt.ExecContext(ctx, point.Name, point.Value, point.Timestamp); err != nil {
				return fmt.Errorf("error saving gauge: %w", err)
			}
		}
		return tx.Commit()
	})
}

// GetGauge retrieves the latest point for a metric name.
func (storage *DBStorage) GetGauge(ctx context.Context, name string) (models.GaugePoint, error) {
	var point models.GaugePoint
	query := "SELECT name, value, reported_at FROM gauges WHERE name = $1"
	err := storage.db.QueryRowContext(ctx, query, name).Scan(&point.Name, &point.Value, &point.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.GaugePoint{}, internalerrors.ErrGaugeNotFound
		}
		return models.GaugePoint{}, fmt.Errorf("error retrieving gauge: %w", err)
	}
	return point, nil
}

// ListGauges returns the latest point of every known metric.
func (storage *DBStorage) ListGauges(ctx context.Context) ([]models.GaugePoint, error) {
	query := "SELECT name, value, reported_at FROM gauges"
	rows, err := storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving gauges: %w", err)
	}
	defer rows.Close()

	var points []models.GaugePoint
	for rows.Next() {
		var point models.GaugePoint
		if err := rows.Scan(&point.Name, &point.Value, &point.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning gauge: %w", err)
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over gauges: %w", err)
	}
	return points, nil
}

// DeleteGauge removes a metric from storage.
func (storage *DBStorage) DeleteGauge(ctx context.Context, name string) error {
	query := "DELETE FROM gauges WHERE name = $1"
	if _, err := storage.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("error deleting gauge: %w", err)
	}
	return nil
}

// AddNotice appends a received annotation.
func (storage *DBStorage) AddNotice(ctx context.Context, notice models.NoticeEvent) error {
	return withRetry(ctx, func() error {
		query := "INSERT INTO notices (reported_at, duration, description) VALUES ($1, $2, $3)"
		_, err := storage.db.ExecContext(ctx, query, notice.Timestamp, notice.Duration, notice.Description)
		if err != nil {
			return fmt.Errorf("error saving notice: %w", err)
		}
		return nil
	})
}

// ListNotices returns all received annotations in arrival order.
func (storage *DBStorage) ListNotices(ctx context.Context) ([]models.NoticeEvent, error) {
	query := "SELECT reported_at, duration, description FROM notices ORDER BY id"
	rows, err := storage.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving notices: %w", err)
	}
	defer rows.Close()

	var notices []models.NoticeEvent
	for rows.Next() {
		var notice models.NoticeEvent
		if err := rows.Scan(&notice.Timestamp, &notice.Duration, &notice.Description); err != nil {
			return nil, fmt.Errorf("error scanning notice: %w", err)
		}
		notices = append(notices, notice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over notices: %w", err)
	}
	return notices, nil
}

// Ping checks the database connection.
func (storage *DBStorage) Ping(ctx context.Context) error {
	if err := storage.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (storage *DBStorage) Close() error {
	return storage.db.Close()
}
