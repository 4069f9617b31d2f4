package mapbox

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain"
	"github.com/geocoding-microservice/internal/domain/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompletionHandler receives the outcome of a batch. On success placemarks and
// attribution are both non-nil and index-aligned with the queries; on failure
// both are nil and err is set.
type CompletionHandler func(placemarks [][]domain.Placemark, attribution []string, err error)

// TaskState is the lifecycle state of a batch task.
type TaskState int32

const (
	TaskPending TaskState = iota
	TaskCompleted
	TaskCancelled
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Task is the handle of one in-flight batch. It delivers exactly once.
type Task struct {
	id     uuid.UUID
	mu     sync.Mutex
	state  TaskState
	cancel context.CancelFunc
	done   chan struct{}
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{
		id:     uuid.New(),
		state:  TaskPending,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the task identifier used in logs.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// State reports pending, completed or cancelled. Completed covers both success
// and failure.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done is closed after the outcome has been delivered.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel aborts a pending task. It is a no-op once the transport has completed.
// Cancellation is best-effort: a response already received is still delivered.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TaskPending {
		return
	}
	t.state = TaskCancelled
	t.cancel()
}

// settle marks the transport as finished and reports whether the task was
// cancelled before that.
func (t *Task) settle() (cancelled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == TaskPending {
		t.state = TaskCompleted
		return false
	}
	return t.state == TaskCancelled
}

// Geocoder orchestrates batch requests: build, dispatch, decode, deliver.
type Geocoder struct {
	endpoint  Endpoint
	transport Transport
	logger    *zap.Logger
}

// NewGeocoder создает оркестратор пакетного геокодирования с внедренным транспортом
func NewGeocoder(endpoint Endpoint, transport Transport, logger *zap.Logger) *Geocoder {
	return &Geocoder{
		endpoint:  endpoint,
		transport: transport,
		logger:    logger,
	}
}

// NewMapboxGeocoder создает Geocoder с HTTP-транспортом по конфигурации
func NewMapboxGeocoder(cfg *config.MapboxConfig, logger *zap.Logger) repository.GeocodingRepository {
	return NewGeocoder(EndpointFromConfig(cfg), NewHTTPTransport(cfg, logger), logger)
}

// BatchGeocode starts a batch and returns its handle. If the request cannot be
// built, onComplete is called before BatchGeocode returns and the transport is
// never invoked. Otherwise onComplete runs on the transport goroutine.
func (g *Geocoder) BatchGeocode(
	ctx context.Context,
	queries []string,
	opts domain.BatchOptions,
	onComplete CompletionHandler,
) *Task {
	return g.dispatch(ctx, queries, opts, func(resp *domain.BatchResponse, err error) {
		if onComplete == nil {
			return
		}
		if err != nil {
			onComplete(nil, nil, err)
			return
		}
		onComplete(resp.Placemarks(), resp.Attribution, nil)
	})
}

// GeocodeBatch runs a batch and blocks until it is delivered or ctx is done.
// When ctx ends first the task is cancelled and GeocodeBatch returns a
// transport error wrapping ctx.Err() without waiting for the transport.
func (g *Geocoder) GeocodeBatch(
	ctx context.Context,
	queries []string,
	opts domain.BatchOptions,
) (*domain.BatchResponse, error) {
	type outcome struct {
		resp *domain.BatchResponse
		err  error
	}
	delivered := make(chan outcome, 1)

	task := g.dispatch(ctx, queries, opts, func(resp *domain.BatchResponse, err error) {
		delivered <- outcome{resp, err}
	})

	select {
	case out := <-delivered:
		return out.resp, out.err
	case <-ctx.Done():
		task.Cancel()
		// доставка могла успеть раньше отмены
		select {
		case out := <-delivered:
			if task.State() == TaskCompleted {
				return out.resp, out.err
			}
		default:
		}
		return nil, asTransportError(ctx.Err())
	}
}

// MaxBatchQueries returns the configured per-request query limit.
func (g *Geocoder) MaxBatchQueries() int {
	return g.endpoint.MaxBatchQueries
}

func (g *Geocoder) dispatch(
	ctx context.Context,
	queries []string,
	opts domain.BatchOptions,
	deliver func(*domain.BatchResponse, error),
) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	task := newTask(cancel)
	queries = append([]string(nil), queries...)

	logger := g.logger.With(
		zap.String("task_id", task.ID().String()),
		zap.Int("queries_count", len(queries)))

	finish := func(resp *domain.BatchResponse, err error) {
		defer close(task.done)
		defer cancel()
		g.observe(err)
		deliver(resp, err)
	}

	req, err := BuildRequest(g.endpoint, queries, opts)
	if err != nil {
		logger.Warn("Failed to build batch request", zap.Error(err))
		task.settle()
		finish(nil, err)
		return task
	}

	BatchQueries.Add(float64(len(queries)))

	go func() {
		start := time.Now()

		var (
			resp    *TransportResponse
			sendErr error
		)
		if err := taskCtx.Err(); err != nil {
			sendErr = err
		} else {
			resp, sendErr = g.transport.Send(taskCtx, req)
		}

		cancelled := task.settle()
		if sendErr != nil {
			if cancelled || errors.Is(sendErr, context.Canceled) {
				logger.Info("Batch request cancelled")
			} else {
				logger.Error("Batch request failed", zap.Error(sendErr))
			}
			finish(nil, asTransportError(sendErr))
			return
		}

		decoded, err := DecodeBatchResponse(queries, resp)
		BatchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			logger.Error("Failed to decode batch response", zap.Error(err))
			finish(nil, err)
			return
		}

		logger.Debug("Batch geocoding successful",
			zap.Int("placemarks_count", decoded.PlacemarkCount()),
			zap.Duration("duration", time.Since(start)))
		finish(decoded, nil)
	}()

	return task
}

func (g *Geocoder) observe(err error) {
	if err == nil {
		BatchRequests.WithLabelValues(outcomeSuccess).Inc()
		return
	}
	var gerr *domain.GeocodeError
	if errors.As(err, &gerr) {
		BatchRequests.WithLabelValues(string(gerr.Kind)).Inc()
		return
	}
	BatchRequests.WithLabelValues(string(domain.ErrorKindTransport)).Inc()
}

func asTransportError(err error) error {
	var gerr *domain.GeocodeError
	if errors.As(err, &gerr) {
		return err
	}
	return domain.NewGeocodeError(domain.ErrorKindTransport, "transport failed", err)
}
