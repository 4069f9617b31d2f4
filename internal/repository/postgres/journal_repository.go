package postgres

import (
	"context"
	"fmt"

	"github.com/geocoding-microservice/internal/domain"
	"github.com/geocoding-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type journalRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewJournalRepository создает журнал пакетных запросов геокодирования
func NewJournalRepository(db *DB) repository.GeocodeJournalRepository {
	return &journalRepository{
		db:     db,
		logger: db.logger,
	}
}

// Save сохраняет запись о выполненном пакете
func (r *journalRepository) Save(ctx context.Context, entry *domain.JournalEntry) error {
	query := `
		INSERT INTO geocode_requests (
			id, query_count, result_count, status, error_kind, duration_ms, created_at
		) VALUES (
			:id, :query_count, :result_count, :status, :error_kind, :duration_ms, :created_at
		)
	`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		r.logger.Error("Failed to save journal entry",
			zap.String("id", entry.ID.String()),
			zap.Error(err))
		return fmt.Errorf("insert geocode request: %w", err)
	}

	return nil
}

// Stats возвращает агрегированную статистику журнала
func (r *journalRepository) Stats(ctx context.Context) (*domain.Statistics, error) {
	totalsQuery := `
		SELECT
			COUNT(*) AS total_requests,
			COALESCE(SUM(query_count), 0) AS total_queries,
			COALESCE(SUM(result_count), 0) AS total_placemarks,
			COALESCE(AVG(duration_ms), 0)::float8 AS avg_duration_ms,
			MAX(created_at) AS last_request_at
		FROM geocode_requests
	`

	stats := &domain.Statistics{
		ByStatus: make(map[string]int64),
	}
	if err := r.db.GetContext(ctx, stats, totalsQuery); err != nil {
		return nil, fmt.Errorf("query journal totals: %w", err)
	}

	statusQuery := `
		SELECT status, COUNT(*) AS count
		FROM geocode_requests
		GROUP BY status
	`

	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, statusQuery); err != nil {
		return nil, fmt.Errorf("query journal status counts: %w", err)
	}

	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}

	return stats, nil
}
