package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPTransport_Send(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("returns status headers and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			assert.Equal(t, "/geocoding/v5/mapbox.places/20001.json", r.URL.EscapedPath())
			w.Header().Set("Content-Type", "application/vnd.geo+json")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		transport := NewHTTPTransport(&config.MapboxConfig{RequestTimeout: 5, UserAgent: "test-agent"}, logger)
		ep := testEndpoint()
		ep.BaseURL = server.URL
		ep.Permanent = false
		req, err := BuildRequest(ep, []string{"20001"}, domain.BatchOptions{})
		require.NoError(t, err)

		resp, err := transport.Send(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/vnd.geo+json", resp.Header.Get("Content-Type"))
		assert.Equal(t, []byte(`[]`), resp.Body)
	})

	t.Run("error status is not a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"Too Many Requests"}`))
		}))
		defer server.Close()

		transport := NewHTTPTransport(&config.MapboxConfig{RequestTimeout: 5}, logger)
		ep := testEndpoint()
		ep.BaseURL = server.URL
		req, err := BuildRequest(ep, []string{"20001"}, domain.BatchOptions{})
		require.NoError(t, err)

		resp, err := transport.Send(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		transport := NewHTTPTransport(&config.MapboxConfig{RequestTimeout: 5}, logger)
		ep := testEndpoint()
		ep.BaseURL = server.URL
		req, err := BuildRequest(ep, []string{"20001"}, domain.BatchOptions{})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		resp, err := transport.Send(ctx, req)
		assert.Nil(t, resp)
		assert.True(t, domain.IsErrorKind(err, domain.ErrorKindTransport))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate([]byte("abc"), 5))
	assert.Equal(t, "ab... (3 bytes)", truncate([]byte("abc"), 2))
}
