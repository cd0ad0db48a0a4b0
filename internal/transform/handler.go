package transform

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/logger"
	apperrors "cwlprocessor/pkg/errors"
	"cwlprocessor/pkg/logging"
	"cwlprocessor/pkg/metrics"
)

const (
	SourceLambda = "lambda"
	SourceHTTP   = "http"
	SourceReplay = "replay"
)

// Flusher is implemented by the tracer provider.
type Flusher interface {
	ForceFlush(ctx context.Context) error
}

type Handler struct {
	service     *Service
	diagnostics config.DiagnosticsConfig
	flusher     Flusher
	logger      logger.Logger
}

func NewHandler(service *Service, diagnostics config.DiagnosticsConfig, log logger.Logger) *Handler {
	return &Handler{
		service:     service,
		diagnostics: diagnostics,
		logger:      log,
	}
}

// SetFlusher registers a flusher that runs after every Lambda invocation.
func (h *Handler) SetFlusher(f Flusher) {
	h.flusher = f
}

// ValidateEvent checks the only part of the event contract that is fatal:
// the records list must be present.
func ValidateEvent(event Event) error {
	if event.Records == nil {
		return apperrors.ErrValidation.WithDetail("message", "event has no records field")
	}
	return nil
}

// HandleEvent is the Lambda entry point.
func (h *Handler) HandleEvent(ctx context.Context, event Event) (Response, error) {
	if err := ValidateEvent(event); err != nil {
		h.logger.ErrorwCtx(ctx, "Rejecting invocation", "error", err)
		return Response{}, err
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok {
		ctx = logging.WithRequestID(ctx, lc.AwsRequestID)
	}

	resp := h.Process(ctx, SourceLambda, event)

	if h.flusher != nil {
		if err := h.flusher.ForceFlush(ctx); err != nil {
			h.logger.WarnwCtx(ctx, "Failed to flush traces", "error", err)
		}
	}

	return resp, nil
}

// Process runs a validated event through the service and emits the
// diagnostic and summary logs.
func (h *Handler) Process(ctx context.Context, source string, event Event) Response {
	if event.InvocationID != "" {
		ctx = logging.WithInvocationID(ctx, event.InvocationID)
	}

	if h.diagnostics.PrintInputEvent {
		h.logger.InfowCtx(ctx, "Input event", "event", event)
	}

	start := time.Now()
	resp := Response{Records: h.service.Transform(ctx, event.Records)}
	duration := time.Since(start)

	metrics.ObserveBatch(source, len(resp.Records), duration)

	if h.diagnostics.PrintTransformedRecords {
		h.logger.InfowCtx(ctx, "Transformed records", "records", resp.Records)
	}

	summary := Summarize(resp.Records)
	h.logger.InfowCtx(ctx, "Successfully processed records",
		"source", source,
		"records", len(resp.Records),
		"ok", summary.Ok,
		"dropped", summary.Dropped,
		"processing_failed", summary.ProcessingFailed,
		"duration", duration,
	)

	return resp
}
