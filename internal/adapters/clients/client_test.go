package clients

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/config"
)

func defaultConfig() *Config {
	return &Config{
		ServiceName: "test-service",
		Timeout:     5 * time.Second,
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

// closeBody is a test helper that closes the response body and fails the test on error.
func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Errorf("failed to close response body: %v", err)
	}
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")

	cfg := defaultConfig()
	cfg.ServiceName = ""

	_, err = New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service name is required")
}

func TestNew_Success(t *testing.T) {
	cfg := defaultConfig()
	cfg.BaseURL = "https://api.example.com/"

	client, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, StateClosed, client.CircuitState())
}

func TestNewTransport(t *testing.T) {
	tr := NewTransport(config.TransportConfig{MaxIdleConns: 7, MaxIdleConnsPerHost: 3, IdleConnTimeout: time.Minute})

	assert.Equal(t, 7, tr.MaxIdleConns)
	assert.Equal(t, 3, tr.MaxIdleConnsPerHost)
	assert.Equal(t, time.Minute, tr.IdleConnTimeout)

	def := NewTransport(config.TransportConfig{})
	assert.Positive(t, def.MaxIdleConns)
}

func TestClient_HeaderPropagation(t *testing.T) {
	var got http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL
	cfg.Header = http.Header{"User-Agent": []string{"connections-test"}}

	client, err := New(cfg)
	require.NoError(t, err)

	ctx := middleware.ContextWithRequestID(context.Background(), "req-123")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-456")

	resp, err := client.Get(ctx, "/test")
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, "req-123", got.Get(middleware.HeaderRequestID))
	assert.Equal(t, "corr-456", got.Get(middleware.HeaderCorrelationID))
	assert.Equal(t, "connections-test", got.Get("User-Agent"))
}

func TestClient_NoRetry(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL

	client, err := New(cfg)
	require.NoError(t, err)

	resp, err := client.Get(context.Background(), "/boom")
	require.NoError(t, err, "status codes are returned, not turned into errors")
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Post(t *testing.T) {
	var contentType, body string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL

	client, err := New(cfg)
	require.NoError(t, err)

	resp, err := client.Post(context.Background(), "/statuses/update.json",
		"application/x-www-form-urlencoded", strings.NewReader("status=hello"))
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "status=hello", body)
}

func TestClient_BuildURL(t *testing.T) {
	client, err := New(&Config{ServiceName: "x", BaseURL: "https://api.twitter.com"})
	require.NoError(t, err)

	assert.Equal(t, "https://api.twitter.com/1.1/a.json", client.buildURL("/1.1/a.json"))
	assert.Equal(t, "https://api.twitter.com/1.1/a.json", client.buildURL("1.1/a.json"))
	assert.Equal(t, "https://upload.twitter.com/x", client.buildURL("https://upload.twitter.com/x"))
}

func TestClient_TransportErrorIsClassified(t *testing.T) {
	cfg := defaultConfig()
	cfg.BaseURL = "http://example.invalid"
	cfg.Transport = roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})

	client, err := New(cfg)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/x")
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeCouldNotConnect, terr.Code)
	assert.Contains(t, terr.Error(), "connection refused")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 50 * time.Millisecond

	client, err := New(cfg)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/slow")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeTimeout, terr.Code)
}

func TestClient_ContextCancellation(t *testing.T) {
	client, err := New(&Config{
		ServiceName: "x",
		BaseURL:     "http://example.invalid",
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			<-r.Context().Done()
			return nil, r.Context().Err()
		}),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Get(ctx, "/x")

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeAborted, terr.Code)
}

func TestClient_CircuitBreakerShortCircuitsWhenOpen(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL
	cfg.Circuit.MaxFailures = 2

	client, err := New(cfg)
	require.NoError(t, err)

	for range 2 {
		resp, err := client.Get(context.Background(), "/test")
		require.NoError(t, err)
		closeBody(t, resp)
	}

	assert.Equal(t, StateOpen, client.CircuitState())

	_, err = client.Get(context.Background(), "/test")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeCouldNotConnect, terr.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_SharedBreaker(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute, HalfOpenLimit: 1})
	breaker.RecordFailure()

	client, err := New(&Config{ServiceName: "x", BaseURL: "http://example.invalid", Breaker: breaker})
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/x")
	assert.ErrorIs(t, err, ErrCircuitOpen)
}
