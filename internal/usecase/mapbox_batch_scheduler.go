package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoding-microservice/internal/domain"
	"go.uber.org/zap"
)

// ErrSchedulerStopped возвращается запросам, которые планировщик уже не выполнит
var ErrSchedulerStopped = errors.New("scheduler stopped")

// QueryGeocoder выполняет упорядоченный набор запросов с общими опциями
type QueryGeocoder interface {
	GeocodeQueries(ctx context.Context, queries []string, opts domain.BatchOptions) (*domain.BatchResponse, int, error)
}

// GeocodeScheduleRequest represents a single query waiting to be batched
type GeocodeScheduleRequest struct {
	Query      string
	Countries  []string
	ResultChan chan *GeocodeScheduleResult
}

// GeocodeScheduleResult represents the result for a single query
type GeocodeScheduleResult struct {
	Group       *domain.QueryResultGroup
	Attribution string
	Error       error
}

// GeocodeBatchScheduler coalesces single queries into batch requests.
// Queries with the same country filter share a batch; results are routed
// back by position, so duplicate queries stay independent.
type GeocodeBatchScheduler struct {
	geocoder      QueryGeocoder
	logger        *zap.Logger
	batchSize     int
	batchInterval time.Duration
	requestQueue  chan *GeocodeScheduleRequest
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup

	// closed выставляется под mu.Lock, когда очередь больше никто не читает.
	// done закрывается раньше, чтобы разблокировать отправителей.
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewGeocodeBatchScheduler creates a new batch scheduler
func NewGeocodeBatchScheduler(
	geocoder QueryGeocoder,
	logger *zap.Logger,
	batchSize int,
	batchInterval time.Duration,
) *GeocodeBatchScheduler {
	return &GeocodeBatchScheduler{
		geocoder:      geocoder,
		logger:        logger,
		batchSize:     batchSize,
		batchInterval: batchInterval,
		requestQueue:  make(chan *GeocodeScheduleRequest, 100),
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start starts the batch scheduler
func (s *GeocodeBatchScheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.processBatches(ctx)
}

// Stop stops the batch scheduler. Queued and later requests fail with
// ErrSchedulerStopped.
func (s *GeocodeBatchScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	// планировщик мог быть не запущен
	s.shutdown(nil, ErrSchedulerStopped)
}

// ScheduleRequest adds a request to the batch queue. ResultChan must have
// room for one result: it receives exactly one.
func (s *GeocodeBatchScheduler) ScheduleRequest(req *GeocodeScheduleRequest) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		req.ResultChan <- &GeocodeScheduleResult{Error: ErrSchedulerStopped}
		return
	}

	select {
	case s.requestQueue <- req:
	case <-s.done:
		req.ResultChan <- &GeocodeScheduleResult{Error: ErrSchedulerStopped}
	}
}

// Geocode schedules one query and waits for its batch to complete
func (s *GeocodeBatchScheduler) Geocode(ctx context.Context, query string, countries []string) (*GeocodeScheduleResult, error) {
	req := &GeocodeScheduleRequest{
		Query:      query,
		Countries:  countries,
		ResultChan: make(chan *GeocodeScheduleResult, 1),
	}
	s.ScheduleRequest(req)

	select {
	case res := <-req.ResultChan:
		if res.Error != nil {
			return nil, res.Error
		}
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// processBatches processes batched requests
func (s *GeocodeBatchScheduler) processBatches(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.batchInterval)
	defer ticker.Stop()

	var batch []*GeocodeScheduleRequest

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Batch scheduler context cancelled")
			s.shutdown(batch, ErrSchedulerStopped)
			return

		case <-s.stopChan:
			s.logger.Info("Batch scheduler stopped")
			s.shutdown(batch, ErrSchedulerStopped)
			return

		case req := <-s.requestQueue:
			batch = append(batch, req)

			// Process batch if we've reached the batch size
			if len(batch) >= s.batchSize {
				s.processBatch(ctx, batch)
				batch = nil
			}

		case <-ticker.C:
			// Process accumulated batch on timer
			if len(batch) > 0 {
				s.processBatch(ctx, batch)
				batch = nil
			}
		}
	}
}

// processBatch groups requests by country filter and dispatches each group
func (s *GeocodeBatchScheduler) processBatch(ctx context.Context, batch []*GeocodeScheduleRequest) {
	s.logger.Debug("Processing geocode batch",
		zap.Int("batch_size", len(batch)))

	groups := make(map[string][]*GeocodeScheduleRequest)
	var order []string
	for _, req := range batch {
		key := countriesKey(req.Countries)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], req)
	}

	for _, key := range order {
		reqs := groups[key]
		queries := make([]string, len(reqs))
		for i, req := range reqs {
			queries[i] = req.Query
		}

		opts := domain.BatchOptions{AllowedCountries: reqs[0].Countries}
		resp, _, err := s.geocoder.GeocodeQueries(ctx, queries, opts)
		if err != nil {
			s.logger.Error("Failed to geocode batch", zap.String("countries", key), zap.Error(err))
			s.failAll(reqs, err)
			continue
		}

		// Distribute results back to each request by position
		for i, req := range reqs {
			group := resp.Groups[i]
			req.ResultChan <- &GeocodeScheduleResult{
				Group:       &group,
				Attribution: resp.Attribution[i],
			}
		}
	}
}

// shutdown закрывает прием запросов и отвечает ошибкой всем, кто уже в очереди.
// Отправители, успевшие взять RLock, завершаются до установки closed, поэтому
// после drainQueue в очереди ничего не остается.
func (s *GeocodeBatchScheduler) shutdown(batch []*GeocodeScheduleRequest, err error) {
	s.closeOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.failAll(append(batch, s.drainQueue()...), err)
}

// drainQueue забирает запросы, попавшие в очередь до остановки
func (s *GeocodeBatchScheduler) drainQueue() []*GeocodeScheduleRequest {
	var pending []*GeocodeScheduleRequest
	for {
		select {
		case req := <-s.requestQueue:
			pending = append(pending, req)
		default:
			return pending
		}
	}
}

func (s *GeocodeBatchScheduler) failAll(batch []*GeocodeScheduleRequest, err error) {
	for _, req := range batch {
		req.ResultChan <- &GeocodeScheduleResult{Error: err}
	}
}

func countriesKey(countries []string) string {
	codes := make([]string, len(countries))
	for i, c := range countries {
		codes[i] = strings.ToLower(strings.TrimSpace(c))
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}
