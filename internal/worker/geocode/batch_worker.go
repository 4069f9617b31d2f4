package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geocoding-microservice/internal/domain"
	"github.com/geocoding-microservice/internal/domain/repository"
	"github.com/geocoding-microservice/internal/usecase"
	"github.com/geocoding-microservice/internal/worker"
	"go.uber.org/zap"
)

const (
	defaultMaxBatchSize = 20
	errorPause          = time.Second

	// сообщение без ACK дольше этого срока считается брошенным и забирается заново
	claimMinIdle = time.Minute
)

// BatchGeocodeWorker обрабатывает события пакетного геокодирования из stream:geocode:batch
// и публикует результаты в stream:geocode:done
type BatchGeocodeWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	geocoder     usecase.QueryGeocoder
	maxBatchSize int
	pollInterval time.Duration
}

// NewBatchGeocodeWorker создает новый BatchGeocodeWorker
func NewBatchGeocodeWorker(
	streamRepo repository.StreamRepository,
	geocoder usecase.QueryGeocoder,
	consumerGroup string,
	maxBatchSize int,
	pollInterval time.Duration,
	logger *zap.Logger,
) *BatchGeocodeWorker {
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	if pollInterval <= 0 {
		pollInterval = 100 * time.Millisecond
	}

	return &BatchGeocodeWorker{
		BaseWorker:   worker.NewBaseWorker("geocode-batch", consumerGroup, logger),
		streamRepo:   streamRepo,
		geocoder:     geocoder,
		maxBatchSize: maxBatchSize,
		pollInterval: pollInterval,
	}
}

// Start запускает воркер
func (w *BatchGeocodeWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting BatchGeocodeWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_batch_size", w.maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamGeocodeBatch, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.Pause(ctx, errorPause)
				continue
			}

			// Очередь пуста - короткая пауза
			if processed == 0 {
				w.Pause(ctx, w.pollInterval)
			}
		}
	}
}

// processBatch читает сообщения и выполняет каждое событие как отдельный пакет.
// Возвращает количество прочитанных сообщений.
func (w *BatchGeocodeWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamGeocodeBatch,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	// новых нет - подбираем зависшие в pending
	if len(messages) == 0 {
		messages, err = w.streamRepo.ClaimPending(
			ctx,
			domain.StreamGeocodeBatch,
			w.ConsumerGroup(),
			w.ConsumerName(),
			claimMinIdle,
			w.maxBatchSize,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to claim pending messages: %w", err)
		}
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing stream messages", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждаем, чтобы не застревало
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		done := w.handleEvent(ctx, event)

		if err := w.streamRepo.PublishToStream(ctx, domain.StreamGeocodeDone, done); err != nil {
			// без ACK сообщение остается в pending и вернется через ClaimPending
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			continue
		}

		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamGeocodeBatch, w.ConsumerGroup(), ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

// handleEvent выполняет один пакет и строит событие результата
func (w *BatchGeocodeWorker) handleEvent(ctx context.Context, event *domain.BatchGeocodeEvent) *domain.BatchGeocodeDoneEvent {
	done := &domain.BatchGeocodeDoneEvent{RequestID: event.RequestID}

	resp, _, err := w.geocoder.GeocodeQueries(ctx, event.Queries, toOptions(event))
	if err != nil {
		w.Logger().Warn("Batch geocoding failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Int("queries_count", len(event.Queries)),
			zap.Error(err))
		done.Error = err.Error()
		done.ErrorKind = usecase.ErrorKindOf(err)
		return done
	}

	done.Results = resp.Groups
	done.Attribution = resp.Attribution
	return done
}

func parseMessage(msg domain.StreamMessage) (*domain.BatchGeocodeEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.BatchGeocodeEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

func toOptions(event *domain.BatchGeocodeEvent) domain.BatchOptions {
	return domain.BatchOptions{
		AllowedCountries: event.Countries,
		Types:            event.Types,
		Languages:        event.Language,
		Limit:            event.Limit,
		Proximity:        event.Proximity,
	}
}
