package transform

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fastjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/constants"
	"cwlprocessor/internal/logger"
	"cwlprocessor/pkg/cel"
	apperrors "cwlprocessor/pkg/errors"
	"cwlprocessor/pkg/logging"
	"cwlprocessor/pkg/metrics"
	"cwlprocessor/pkg/tracing"
)

const tracerName = "log-processor"

// Service maps a batch of Firehose records onto response records, one per
// input and in input order. It holds no per-batch state.
type Service struct {
	workers   int
	predicate DocumentPredicate
	parsers   fastjson.ParserPool
	logger    logger.Logger
}

func NewService(cfg config.TransformConfig, predicate DocumentPredicate, log logger.Logger) *Service {
	workers := cfg.Workers
	if workers < 1 {
		workers = constants.DefaultWorkers
	}

	return &Service{
		workers:   workers,
		predicate: predicate,
		logger:    log,
	}
}

// NewServiceFromConfig compiles the optional document filter and builds the
// service.
func NewServiceFromConfig(cfg *config.Config, log logger.Logger) (*Service, error) {
	var predicate DocumentPredicate

	if cfg.Filter.Expression != "" {
		evaluator, err := cel.NewEvaluator()
		if err != nil {
			return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
		}
		p, err := evaluator.Compile(cfg.Filter.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile filter expression: %w", err)
		}
		predicate = p
	}

	return NewService(cfg.Transform, predicate, log), nil
}

// Transform never fails as a whole: every record yields exactly one response
// record, and a failing record does not affect its neighbours.
func (s *Service) Transform(ctx context.Context, records []Record) []ResponseRecord {
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "transform.batch")
	defer span.End()

	out := make([]ResponseRecord, len(records))

	if s.workers == 1 || len(records) < 2 {
		for i := range records {
			out[i] = s.processRecord(ctx, records[i])
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i := range records {
			g.Go(func() error {
				out[i] = s.processRecord(ctx, records[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	summary := Summarize(out)
	span.SetAttributes(
		attribute.Int("records.total", len(out)),
		attribute.Int("records.ok", summary.Ok),
		attribute.Int("records.dropped", summary.Dropped),
		attribute.Int("records.failed", summary.ProcessingFailed),
	)
	if summary.ProcessingFailed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d records failed", summary.ProcessingFailed))
	}

	return out
}

func (s *Service) processRecord(ctx context.Context, rec Record) ResponseRecord {
	recordID := rec.RecordID
	if recordID == "" {
		recordID = constants.MissingRecordID
	}
	ctx = logging.WithRecordID(ctx, recordID)

	start := time.Now()
	outcome := s.TransformRecord(ctx, rec)
	resp := outcome.Response(rec)

	metrics.IncRecord(string(resp.Result))
	metrics.ObserveRecordSize("in", len(rec.Data))

	switch outcome.Disposition {
	case DispositionOk:
		metrics.ObserveRecordSize("out", len(resp.Data))
	case DispositionDropped:
		s.logger.DebugwCtx(ctx, "Record dropped",
			"reason", outcome.Reason,
		)
	case DispositionFailed:
		metrics.IncRecordFailure(apperrors.Code(outcome.Err))
		s.logger.ErrorwCtx(ctx, "Error processing record",
			"error", outcome.Err,
			"error_code", apperrors.Code(outcome.Err),
			"duration", time.Since(start),
		)
	}

	return resp
}

// TransformRecord runs decode, filter and encode for one record. Panics are
// recovered into a failed outcome.
func (s *Service) TransformRecord(ctx context.Context, rec Record) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(apperrors.RecoverPanic(r))
		}
	}()

	raw, err := DecodeData(rec.Data)
	if err != nil {
		return Failed(err)
	}

	return s.evaluateDocument(ctx, raw)
}
