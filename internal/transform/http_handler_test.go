package transform

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/logger"
	"cwlprocessor/pkg/health"
)

func newTestRouter(maxBody int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := newTestService(1)
	registry := health.NewCheckerRegistry()
	registry.Register(NewSelfCheck(svc))

	h := NewHTTPHandler(NewHandler(svc, config.DiagnosticsConfig{}, logger.NopLogger()), registry, maxBody, logger.NopLogger())
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func TestHTTPTransform(t *testing.T) {
	router := newTestRouter(1 << 20)

	event := Event{
		InvocationID: "inv-http",
		Records: []Record{
			encodeRecord(t, "1", dataMessage),
			encodeRecord(t, "2", controlMessage),
		},
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/transform", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, ResultOk, resp.Records[0].Result)
	assert.Equal(t, ResultDropped, resp.Records[1].Result)
	assert.Equal(t, event.Records[1].Data, resp.Records[1].Data)
}

func TestHTTPTransformRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		max  int64
	}{
		{name: "malformed JSON", body: `{"records":`, max: 1 << 20},
		{name: "missing records", body: `{"invocationId":"x"}`, max: 1 << 20},
		{name: "body too large", body: `{"records":[{"recordId":"1","data":"` + strings.Repeat("A", 512) + `"}]}`, max: 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.max)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/transform", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		})
	}
}

func TestHTTPHealth(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var h health.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
	assert.Equal(t, health.StatusHealthy, h.Status)
	assert.Equal(t, health.StatusHealthy, h.Checks["transformer"].Status)
}

func TestHTTPMetrics(t *testing.T) {
	router := newTestRouter(1 << 20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
