package mapbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bogusToken = "bogus-token"

type batchOutcome struct {
	placemarks  [][]domain.Placemark
	attribution []string
	err         error
}

// stubServer serves fixture only for the expected path and query parameters.
func stubServer(t *testing.T, path string, params map[string]string, fixture string) *httptest.Server {
	t.Helper()
	body := loadFixture(t, fixture)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != path {
			http.NotFound(w, r)
			return
		}
		for k, v := range params {
			if r.URL.Query().Get(k) != v {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Content-Type", "application/vnd.geo+json")
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestGeocoder(baseURL string) *Geocoder {
	cfg := &config.MapboxConfig{
		AccessToken:     bogusToken,
		BaseURL:         baseURL,
		APIVersion:      "v5",
		Permanent:       true,
		RequestTimeout:  5,
		MaxBatchQueries: 50,
	}
	return NewMapboxGeocoder(cfg, zap.NewNop()).(*Geocoder)
}

func runBatch(t *testing.T, g *Geocoder, queries []string, opts domain.BatchOptions) (*Task, batchOutcome) {
	t.Helper()
	results := make(chan batchOutcome, 1)

	task := g.BatchGeocode(context.Background(), queries, opts, func(placemarks [][]domain.Placemark, attribution []string, err error) {
		results <- batchOutcome{placemarks, attribution, err}
	})
	require.NotNil(t, task)

	select {
	case out := <-results:
		<-task.Done()
		return task, out
	case <-time.After(time.Second):
		t.Fatal("batch was not delivered")
		return nil, batchOutcome{}
	}
}

func TestGeocoder_BatchGeocode(t *testing.T) {
	t.Run("valid forward single batch", func(t *testing.T) {
		// пробелы уходят как %20, а не как "+" из query-string кодирования:
		// в пути "+" означал бы буквальный плюс. Сервис принимает обе формы.
		server := stubServer(t,
			"/geocoding/v5/mapbox.places-permanent/85%202nd%20st%20san%20francisco.json",
			map[string]string{"country": "ca", "access_token": bogusToken},
			"permanent_forward_single_valid")

		task, out := runBatch(t, newTestGeocoder(server.URL), []string{"85 2nd st san francisco"}, domain.BatchOptions{
			AllowedCountries: []string{"CA"},
		})

		require.NoError(t, out.err)
		require.Len(t, out.placemarks, 1)
		assert.Len(t, out.placemarks[0], 5)
		assert.Equal(t, testAttribution, out.attribution[0])
		assert.Equal(t, TaskCompleted, task.State())
	})

	t.Run("valid forward multiple batch", func(t *testing.T) {
		server := stubServer(t,
			"/geocoding/v5/mapbox.places-permanent/20001;20001;20001.json",
			map[string]string{"country": "us", "access_token": bogusToken},
			"permanent_forward_multiple_valid")

		task, out := runBatch(t, newTestGeocoder(server.URL), []string{"20001", "20001", "20001"}, domain.BatchOptions{
			AllowedCountries: []string{"US"},
		})

		require.NoError(t, out.err)
		require.Len(t, out.placemarks, 3)
		require.Len(t, out.attribution, 3)
		for i, results := range out.placemarks {
			assert.Len(t, results, 5)
			assert.Equal(t, testAttribution, out.attribution[i])
		}
		assert.Equal(t, "Washington, District of Columbia 20001, United States", out.placemarks[0][0].QualifiedName)
		assert.Equal(t, TaskCompleted, task.State())
	})

	t.Run("no results single batch", func(t *testing.T) {
		server := stubServer(t,
			"/geocoding/v5/mapbox.places-permanent/%23M@Pb0X.json",
			map[string]string{"access_token": bogusToken},
			"permanent_forward_single_no_results")

		task, out := runBatch(t, newTestGeocoder(server.URL), []string{"#M@Pb0X"}, domain.BatchOptions{})

		require.NoError(t, out.err)
		require.Len(t, out.placemarks, 1)
		assert.Empty(t, out.placemarks[0])
		assert.Equal(t, testAttribution, out.attribution[0])
		assert.Equal(t, TaskCompleted, task.State())
	})

	t.Run("no results multiple batch", func(t *testing.T) {
		server := stubServer(t,
			"/geocoding/v5/mapbox.places-permanent/%23M@Pb0X;$C00L%21.json",
			map[string]string{"access_token": bogusToken},
			"permanent_forward_multiple_no_results")

		task, out := runBatch(t, newTestGeocoder(server.URL), []string{"#M@Pb0X", "$C00L!"}, domain.BatchOptions{})

		require.NoError(t, out.err)
		require.Len(t, out.placemarks, 2)
		for _, results := range out.placemarks {
			assert.NotNil(t, results)
			assert.Empty(t, results)
		}
		assert.Equal(t, testAttribution, out.attribution[0])
		assert.Equal(t, TaskCompleted, task.State())
	})

	t.Run("http error delivers nil results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
		}))
		defer server.Close()

		task, out := runBatch(t, newTestGeocoder(server.URL), []string{"20001"}, domain.BatchOptions{})

		require.Error(t, out.err)
		assert.True(t, domain.IsErrorKind(out.err, domain.ErrorKindResponse))
		assert.Nil(t, out.placemarks)
		assert.Nil(t, out.attribution)
		assert.Equal(t, TaskCompleted, task.State())
	})
}

func TestGeocoder_BuildFailureSkipsTransport(t *testing.T) {
	var calls int32
	transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("must not be called")
	})

	t.Run("invalid configuration", func(t *testing.T) {
		ep := testEndpoint()
		ep.AccessToken = ""
		g := NewGeocoder(ep, transport, zap.NewNop())

		var delivered bool
		var gotErr error
		task := g.BatchGeocode(context.Background(), []string{"20001"}, domain.BatchOptions{},
			func(placemarks [][]domain.Placemark, attribution []string, err error) {
				delivered = true
				gotErr = err
				assert.Nil(t, placemarks)
				assert.Nil(t, attribution)
			})

		assert.True(t, delivered, "failure must be delivered before BatchGeocode returns")
		assert.True(t, domain.IsErrorKind(gotErr, domain.ErrorKindInvalidConfiguration))
		assert.Equal(t, TaskCompleted, task.State())

		select {
		case <-task.Done():
		default:
			t.Fatal("task must be done")
		}
	})

	t.Run("invalid query", func(t *testing.T) {
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		resp, err := g.GeocodeBatch(context.Background(), []string{"20001", ""}, domain.BatchOptions{})
		assert.Nil(t, resp)
		assert.True(t, domain.IsErrorKind(err, domain.ErrorKindInvalidQuery))
	})

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGeocoder_CannedTransport(t *testing.T) {
	t.Run("request shape reaches transport", func(t *testing.T) {
		var gotURL string
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			gotURL = req.URL()
			return okResponse([]byte(`[{"features":[],"attribution":"a"},{"features":[],"attribution":"b"}]`)), nil
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		resp, err := g.GeocodeBatch(context.Background(), []string{"20001", "20001"}, domain.BatchOptions{})
		require.NoError(t, err)

		assert.Equal(t, "https://api.mapbox.com/geocoding/v5/mapbox.places-permanent/20001;20001.json?access_token=bogus", gotURL)
		assert.Equal(t, []string{"a", "b"}, resp.Attribution)
		assert.Equal(t, "20001", resp.Groups[1].Query)
		assert.Equal(t, 1, resp.Groups[1].Index)
	})

	t.Run("transport failure", func(t *testing.T) {
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			return nil, errors.New("dial tcp: lookup api.mapbox.com: no such host")
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		_, out := runBatch(t, g, []string{"20001"}, domain.BatchOptions{})

		assert.True(t, domain.IsErrorKind(out.err, domain.ErrorKindTransport))
		assert.Contains(t, out.err.Error(), "no such host")
		assert.Nil(t, out.placemarks)
		assert.Nil(t, out.attribution)
	})

	t.Run("malformed response", func(t *testing.T) {
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			return okResponse([]byte(`[{"features":[],"attribution":"a"}]`)), nil
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		resp, err := g.GeocodeBatch(context.Background(), []string{"a", "b"}, domain.BatchOptions{})
		assert.Nil(t, resp)
		assert.True(t, domain.IsErrorKind(err, domain.ErrorKindMalformedResponse))
	})

	t.Run("caller slice mutation does not affect batch", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			close(started)
			<-release
			return okResponse([]byte(`[{"features":[],"attribution":"a"}]`)), nil
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		queries := []string{"original"}
		done := make(chan *domain.BatchResponse, 1)
		go func() {
			resp, _ := g.GeocodeBatch(context.Background(), queries, domain.BatchOptions{})
			done <- resp
		}()

		<-started
		queries[0] = "mutated"
		close(release)

		resp := <-done
		require.NotNil(t, resp)
		assert.Equal(t, "original", resp.Groups[0].Query)
	})
}

func TestTask_Cancel(t *testing.T) {
	t.Run("cancel while transport is in flight", func(t *testing.T) {
		started := make(chan struct{})
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		results := make(chan batchOutcome, 1)
		task := g.BatchGeocode(context.Background(), []string{"20001"}, domain.BatchOptions{},
			func(placemarks [][]domain.Placemark, attribution []string, err error) {
				results <- batchOutcome{placemarks, attribution, err}
			})
		assert.Equal(t, TaskPending, task.State())

		<-started
		task.Cancel()

		out := <-results
		assert.True(t, domain.IsErrorKind(out.err, domain.ErrorKindTransport))
		assert.True(t, errors.Is(out.err, context.Canceled))
		assert.Nil(t, out.placemarks)
		assert.Equal(t, TaskCancelled, task.State())
	})

	t.Run("cancel after completion is a no-op", func(t *testing.T) {
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			return okResponse([]byte(`[{"features":[],"attribution":"a"}]`)), nil
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		task, out := runBatch(t, g, []string{"20001"}, domain.BatchOptions{})
		require.NoError(t, out.err)

		task.Cancel()
		assert.Equal(t, TaskCompleted, task.State())
	})

	t.Run("cancelled context prevents dispatch", func(t *testing.T) {
		var calls int32
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			atomic.AddInt32(&calls, 1)
			return okResponse([]byte(`[]`)), nil
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		resp, err := g.GeocodeBatch(ctx, []string{"20001"}, domain.BatchOptions{})
		assert.Nil(t, resp)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})

	t.Run("response received despite cancel is delivered", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
			close(started)
			<-release
			return okResponse([]byte(`[{"features":[],"attribution":"a"}]`)), nil
		})
		g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

		results := make(chan batchOutcome, 1)
		task := g.BatchGeocode(context.Background(), []string{"20001"}, domain.BatchOptions{},
			func(placemarks [][]domain.Placemark, attribution []string, err error) {
				results <- batchOutcome{placemarks, attribution, err}
			})

		<-started
		task.Cancel()
		close(release)

		out := <-results
		require.NoError(t, out.err)
		assert.Equal(t, []string{"a"}, out.attribution)
		assert.Equal(t, TaskCancelled, task.State())
	})
}

func TestGeocoder_GeocodeBatchHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	// транспорт игнорирует ctx и отвечает только после release
	transport := TransportFunc(func(ctx context.Context, req *RequestDescriptor) (*TransportResponse, error) {
		<-release
		return okResponse([]byte(`[{"features":[],"attribution":"a"}]`)), nil
	})
	g := NewGeocoder(testEndpoint(), transport, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		resp, err := g.GeocodeBatch(ctx, []string{"20001"}, domain.BatchOptions{})
		assert.Nil(t, resp)
		done <- err
	}()

	select {
	case err := <-done:
		assert.True(t, domain.IsErrorKind(err, domain.ErrorKindTransport))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("GeocodeBatch kept blocking after the deadline")
	}
}

func TestTaskState_String(t *testing.T) {
	assert.Equal(t, "pending", TaskPending.String())
	assert.Equal(t, "completed", TaskCompleted.String())
	assert.Equal(t, "cancelled", TaskCancelled.String())
}
