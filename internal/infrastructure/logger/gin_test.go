package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// serveLogged replays one request through GinMiddleware and returns
// the recorded "HTTP Request" entry, if any.
func serveLogged(t *testing.T, status int, path string, setup ...gin.HandlerFunc) (*observer.LoggedEntry, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.DebugLevel)
	router := gin.New()
	for _, mw := range setup {
		router.Use(mw)
	}
	router.Use(GinMiddleware(zap.New(core)))
	router.GET(path, func(c *gin.Context) {
		c.JSON(status, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	req.Header.Set("User-Agent", "sellerops-test/1.0")
	router.ServeHTTP(w, req)

	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			e := entry
			return &e, w
		}
	}
	return nil, w
}

func TestGinMiddlewareLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		path   string
		level  zapcore.Level
	}{
		{"2xx logs at info", http.StatusOK, "/api/v1/sales/records", zapcore.InfoLevel},
		{"4xx logs at warn", http.StatusBadRequest, "/api/v1/sales/records", zapcore.WarnLevel},
		{"5xx logs at error", http.StatusInternalServerError, "/api/v1/sales/records", zapcore.ErrorLevel},
		{"successful health check logs at debug", http.StatusOK, "/health", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, w := serveLogged(t, tt.status, tt.path)
			require.NotNil(t, entry)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddlewareFields(t *testing.T) {
	entry, _ := serveLogged(t, http.StatusOK, "/api/v1/batches", func(c *gin.Context) {
		c.Set("request_id", "req-batch-7")
		c.Next()
	})
	require.NotNil(t, entry)

	fields := make(map[string]zapcore.Field)
	for _, field := range entry.Context {
		fields[field.Key] = field
	}
	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
		assert.Contains(t, fields, key)
	}
	require.Contains(t, fields, "request_id")
	assert.Equal(t, "req-batch-7", fields["request_id"].String)
}

func TestGinMiddlewareQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/sales/records", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/sales/records?platform=SHOPEE&page=1", nil)
	router.ServeHTTP(w, req)

	found := false
	for _, entry := range recorded.All() {
		for _, field := range entry.Context {
			if field.Key == "query" {
				found = true
				assert.Contains(t, field.String, "platform=SHOPEE")
			}
		}
	}
	assert.True(t, found, "query should be in log fields")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0].Message, "Panic recovered")
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)
		var got *zap.Logger

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/records", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/records", nil)
		router.ServeHTTP(w, req)

		assert.NotNil(t, got)
	})

	t.Run("falls back to a no-op logger outside the middleware", func(t *testing.T) {
		var got *zap.Logger

		router := gin.New()
		router.GET("/records", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/records", nil)
		router.ServeHTTP(w, req)

		require.NotNil(t, got)
		assert.NotPanics(t, func() { got.Info("noop") })
	})
}
