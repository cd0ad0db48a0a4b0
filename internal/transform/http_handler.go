package transform

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cwlprocessor/internal/logger"
	apperrors "cwlprocessor/pkg/errors"
	"cwlprocessor/pkg/health"
	"cwlprocessor/pkg/logging"
)

// HTTPHandler exposes the transformation over HTTP for local runs and
// non-Lambda deployments.
type HTTPHandler struct {
	handler      *Handler
	health       *health.CheckerRegistry
	maxBodyBytes int64
	logger       logger.Logger
}

func NewHTTPHandler(handler *Handler, registry *health.CheckerRegistry, maxBodyBytes int64, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		handler:      handler,
		health:       registry,
		maxBodyBytes: maxBodyBytes,
		logger:       log,
	}
}

func (h *HTTPHandler) HandleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	c.JSON(apperrors.ToHTTPStatus(err), apperrors.ToErrorResponse(err))
}

func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/transform", h.Transform)
	}
}

// Transform accepts a Firehose transformation event and returns the
// response Firehose expects.
func (h *HTTPHandler) Transform(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		h.HandleError(c, apperrors.ErrValidation.WithCause(err))
		return
	}

	if err := ValidateEvent(event); err != nil {
		h.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	if requestID := c.GetString("request_id"); requestID != "" {
		ctx = logging.WithRequestID(ctx, requestID)
	}

	c.JSON(http.StatusOK, h.handler.Process(ctx, SourceHTTP, event))
}

func (h *HTTPHandler) Health(c *gin.Context) {
	result := h.health.Check(c.Request.Context())
	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}
