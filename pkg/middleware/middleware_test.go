package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwlprocessor/pkg/logging"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())

	var fromContext string
	router.GET("/id", func(c *gin.Context) {
		fromContext = logging.GetRequestID(c.Request.Context())
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", w.Body.String())
		assert.Equal(t, "abc-123", fromContext)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

		id := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, fromContext)
	})
}

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Infow(msg string, keysAndValues ...interface{}) {
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Errorw(msg string, keysAndValues ...interface{}) {
	l.errors = append(l.errors, msg)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := &recordingLogger{}

	router := gin.New()
	router.Use(LoggerMiddleware(log), RecoveryMiddleware(log))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, []string{"Panic recovered", "HTTP Request"}, log.errors)
}
