package tracing

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/constants"
)

// GinMiddleware starts a server span per request so that the batch span
// opened by the transformer nests under it.
func GinMiddleware(cfg config.TracingConfig) gin.HandlerFunc {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = constants.ServiceName
	}
	return otelgin.Middleware(serviceName)
}
