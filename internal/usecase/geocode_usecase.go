package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/geocoding-microservice/internal/domain"
	"github.com/geocoding-microservice/internal/domain/repository"
	"github.com/geocoding-microservice/internal/pkg/errors"
	"github.com/geocoding-microservice/internal/usecase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GeocodeUseCase - пакетное прямое геокодирование
type GeocodeUseCase struct {
	geocodingRepo repository.GeocodingRepository
	journalRepo   repository.GeocodeJournalRepository
	logger        *zap.Logger
}

// NewGeocodeUseCase создает use case. journalRepo может быть nil - журнал отключен.
func NewGeocodeUseCase(
	geocodingRepo repository.GeocodingRepository,
	journalRepo repository.GeocodeJournalRepository,
	logger *zap.Logger,
) *GeocodeUseCase {
	return &GeocodeUseCase{
		geocodingRepo: geocodingRepo,
		journalRepo:   journalRepo,
		logger:        logger,
	}
}

// BatchGeocode выполняет пакет запросов и возвращает результаты в порядке запросов
func (uc *GeocodeUseCase) BatchGeocode(
	ctx context.Context,
	req dto.BatchGeocodeRequest,
) (*dto.BatchGeocodeResponse, error) {
	opts := req.ToOptions()

	resp, batches, err := uc.GeocodeQueries(ctx, req.Queries, opts)
	if err != nil {
		return nil, err
	}

	results := make([]dto.QueryResult, len(resp.Groups))
	for i, group := range resp.Groups {
		results[i] = dto.QueryResult{
			Index:       i,
			Query:       group.Query,
			Placemarks:  dto.NewPlacemarkResults(group.Placemarks, opts.Proximity),
			Attribution: resp.Attribution[i],
		}
	}

	return &dto.BatchGeocodeResponse{
		Results:         results,
		TotalPlacemarks: resp.PlacemarkCount(),
		Batches:         batches,
	}, nil
}

// GeocodeQueries разбивает запросы на пакеты по лимиту провайдера и выполняет
// их последовательно. Ошибка любого пакета отменяет весь результат.
// Возвращает объединенный ответ и количество выполненных пакетов.
func (uc *GeocodeUseCase) GeocodeQueries(
	ctx context.Context,
	queries []string,
	opts domain.BatchOptions,
) (*domain.BatchResponse, int, error) {
	if len(queries) == 0 {
		return nil, 0, errors.ErrInvalidQuery
	}

	start := time.Now()
	chunks := chunkQueries(queries, uc.geocodingRepo.MaxBatchQueries())

	merged := &domain.BatchResponse{
		Groups:      make([]domain.QueryResultGroup, 0, len(queries)),
		Attribution: make([]string, 0, len(queries)),
	}

	for i, chunk := range chunks {
		resp, err := uc.geocodingRepo.GeocodeBatch(ctx, chunk, opts)
		if err != nil {
			uc.logger.Error("Batch geocoding failed",
				zap.Int("chunk", i),
				zap.Int("chunks_total", len(chunks)),
				zap.Int("queries_count", len(queries)),
				zap.Error(err))
			uc.record(ctx, len(queries), 0, time.Since(start), err)
			return nil, 0, mapGeocodeError(err)
		}

		offset := len(merged.Groups)
		for _, group := range resp.Groups {
			group.Index += offset
			merged.Groups = append(merged.Groups, group)
		}
		merged.Attribution = append(merged.Attribution, resp.Attribution...)
	}

	uc.logger.Info("Batch geocoding completed",
		zap.Int("queries_count", len(queries)),
		zap.Int("chunks", len(chunks)),
		zap.Int("placemarks_count", merged.PlacemarkCount()),
		zap.Duration("duration", time.Since(start)))

	uc.record(ctx, len(queries), merged.PlacemarkCount(), time.Since(start), nil)

	return merged, len(chunks), nil
}

// GetStatistics возвращает статистику журнала
func (uc *GeocodeUseCase) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	if uc.journalRepo == nil {
		return &domain.Statistics{ByStatus: map[string]int64{}}, nil
	}

	stats, err := uc.journalRepo.Stats(ctx)
	if err != nil {
		uc.logger.Error("Failed to load journal statistics", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	return stats, nil
}

// record пишет запись в журнал; ошибки журнала не влияют на ответ
func (uc *GeocodeUseCase) record(ctx context.Context, queries, placemarks int, elapsed time.Duration, err error) {
	if uc.journalRepo == nil {
		return
	}

	entry := &domain.JournalEntry{
		ID:          uuid.New(),
		QueryCount:  queries,
		ResultCount: placemarks,
		Status:      domain.JournalStatusSuccess,
		DurationMS:  elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if err != nil {
		entry.Status = domain.JournalStatusFailed
		kind := string(domain.ErrorKindTransport)
		var gerr *domain.GeocodeError
		if stderrors.As(err, &gerr) {
			kind = string(gerr.Kind)
		}
		entry.ErrorKind = &kind
	}

	if saveErr := uc.journalRepo.Save(ctx, entry); saveErr != nil {
		uc.logger.Warn("Failed to save journal entry", zap.Error(saveErr))
	}
}

func chunkQueries(queries []string, size int) [][]string {
	if size <= 0 || len(queries) <= size {
		return [][]string{queries}
	}

	chunks := make([][]string, 0, (len(queries)+size-1)/size)
	for start := 0; start < len(queries); start += size {
		end := start + size
		if end > len(queries) {
			end = len(queries)
		}
		chunks = append(chunks, queries[start:end])
	}
	return chunks
}

// mapGeocodeError переводит ошибку геокодера в AppError для клиента
func mapGeocodeError(err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrGeocoderUnavailable.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	var gerr *domain.GeocodeError
	if !stderrors.As(err, &gerr) {
		return errors.ErrInternalServer
	}

	details := map[string]interface{}{
		"kind":   string(gerr.Kind),
		"reason": gerr.Message,
	}
	if gerr.StatusCode != 0 {
		details["upstream_status"] = gerr.StatusCode
	}

	switch gerr.Kind {
	case domain.ErrorKindInvalidQuery:
		return errors.ErrInvalidQuery.WithDetails(details)
	case domain.ErrorKindInvalidConfiguration:
		return errors.ErrGeocoderMisconfigured.WithDetails(details)
	case domain.ErrorKindTransport:
		return errors.ErrGeocoderUnavailable.WithDetails(details)
	default:
		return errors.ErrGeocoderBadResponse.WithDetails(details)
	}
}

// ErrorKindOf извлекает вид ошибки геокодирования из ошибки use case
func ErrorKindOf(err error) domain.ErrorKind {
	var gerr *domain.GeocodeError
	if stderrors.As(err, &gerr) {
		return gerr.Kind
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if kind, ok := appErr.Details["kind"].(string); ok {
			return domain.ErrorKind(kind)
		}
		if appErr.Code == errors.ErrInvalidQuery.Code || appErr.Code == errors.ErrInvalidRequest.Code {
			return domain.ErrorKindInvalidQuery
		}
	}

	return domain.ErrorKindTransport
}
