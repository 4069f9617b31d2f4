package mapbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain"
	"go.uber.org/zap"
)

// maxResponseBytes bounds the body read from the service.
const maxResponseBytes = 16 << 20

// TransportResponse - raw result of a dispatched request
type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends a request descriptor and returns the raw response.
// Non-2xx statuses are returned as responses, not errors.
type Transport interface {
	Send(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error)

func (f TransportFunc) Send(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
	return f(ctx, req)
}

// HTTPTransport - Transport поверх net/http
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// NewHTTPTransport создает HTTP-транспорт с таймаутом из конфигурации
func NewHTTPTransport(cfg *config.MapboxConfig, logger *zap.Logger) *HTTPTransport {
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Send выполняет запрос и читает тело ответа целиком
func (t *HTTPTransport) Send(ctx context.Context, d *RequestDescriptor) (*TransportResponse, error) {
	t.logger.Debug("Calling geocoding API",
		zap.String("url", d.Redacted()),
		zap.Int("queries_count", d.QueryCount))

	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL(), nil)
	if err != nil {
		t.logger.Error("Failed to create request", zap.Error(err))
		return nil, domain.NewGeocodeError(domain.ErrorKindTransport, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Error("Failed to execute request", zap.Error(err))
		return nil, domain.NewGeocodeError(domain.ErrorKindTransport, "failed to execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		t.logger.Error("Failed to read response body", zap.Error(err))
		return nil, domain.NewGeocodeError(domain.ErrorKindTransport, "failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("Geocoding API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", truncate(body, 512)))
	}

	return &TransportResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s... (%d bytes)", b[:n], len(b))
}
