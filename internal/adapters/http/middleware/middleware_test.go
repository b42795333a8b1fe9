package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-twitter-connections/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-twitter-connections/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"propagated when valid", "req-123", true},
		{"replaced when oversized", strings.Repeat("x", maxIDLength+1), false},
		{"replaced when it has spaces", "bad id", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ginID, ctxID string

			engine := gin.New()
			engine.Use(RequestID())
			engine.GET("/", func(c *gin.Context) {
				ginID = GetRequestID(c)
				ctxID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}

			w := serve(engine, req)

			header := w.Header().Get(HeaderRequestID)
			assert.Equal(t, header, ginID)
			assert.Equal(t, header, ctxID)

			if tt.keep {
				assert.Equal(t, tt.incoming, header)
			} else {
				_, err := uuid.Parse(header)
				assert.NoError(t, err)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	var ctxID string

	engine := gin.New()
	engine.Use(CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		ctxID = CorrelationIDFromContext(c.Request.Context())
		assert.Equal(t, ctxID, GetCorrelationID(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "txn-42")

	w := serve(engine, req)

	assert.Equal(t, "txn-42", w.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "txn-42", ctxID)
}

func TestIDsReachContextLogger(t *testing.T) {
	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), base))
		c.Next()
	}, RequestID(), CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("hello")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "r-1")
	req.Header.Set(HeaderCorrelationID, "c-1")
	serve(engine, req)

	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
	assert.Contains(t, buf.String(), `"correlation_id":"c-1"`)
}

func TestIDsFromContext_Empty(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil context is handled
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantLog   bool
	}{
		{"success", "/api/v1/connections", http.StatusOK, "INFO", true},
		{"client error", "/api/v1/connections", http.StatusNotFound, "WARN", true},
		{"server error", "/api/v1/connections", http.StatusBadGateway, "ERROR", true},
		{"operational path", "/-/live", http.StatusOK, "", false},
		{"explicit skip", "/favicon.ico", http.StatusOK, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			engine := gin.New()
			engine.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
				c.Next()
			}, Logging("/favicon.ico"))
			engine.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			serve(engine, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.InDelta(t, tt.status, entry["status"], 0)
		})
	}
}

func TestLogging_ConnectionParam(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}, Logging())
	engine.GET("/api/v1/connections/:name/account", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/connections/reader/account", nil))

	assert.Contains(t, buf.String(), `"connection":"reader"`)
	assert.Contains(t, buf.String(), `"route":"/api/v1/connections/:name/account"`)
}

func TestRecovery(t *testing.T) {
	var gotPanic any

	engine := gin.New()
	engine.Use(Recovery(func(err any, stack []byte) {
		gotPanic = err
		assert.NotEmpty(t, stack)
	}))
	engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "kaboom", gotPanic)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestRecovery_AfterWrite(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/late", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("late")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/late", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout_SetsDeadline(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(time.Second))
	engine.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout_Exceeded(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(10 * time.Millisecond))
	engine.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrorCodeTimeout)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("abc-123_XYZ"))
	assert.False(t, validID(""))
	assert.False(t, validID("tab\there"))
	assert.False(t, validID("ümlaut"))
}
