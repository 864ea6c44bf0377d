package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveSystem(t *testing.T, path string, handle gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, path, nil)
	handle(c)
	return w
}

func TestSystemHandlerGetSystemInfo(t *testing.T) {
	h := NewSystemHandler()
	require.False(t, h.startTime.IsZero())

	w := serveSystem(t, "/system/info", h.GetSystemInfo)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse[SystemInfoResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "SellerOps Backend API", resp.Data.Name)
	assert.Equal(t, "1.0.0", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.NotEmpty(t, resp.Data.Uptime)
}

func TestSystemHandlerPing(t *testing.T) {
	w := serveSystem(t, "/system/ping", NewSystemHandler().Ping)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse[PingResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pong", resp.Data.Message)

	_, err := time.Parse(time.RFC3339, resp.Data.Timestamp)
	assert.NoError(t, err, "timestamp should be RFC3339")
}
