package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/constants"
	"cwlprocessor/internal/logger"
	"cwlprocessor/internal/transform"
	apperrors "cwlprocessor/pkg/errors"
	"cwlprocessor/pkg/health"
	"cwlprocessor/pkg/metrics"
	"cwlprocessor/pkg/middleware"
	"cwlprocessor/pkg/ratelimit"
	"cwlprocessor/pkg/tracing"
)

type App struct {
	Config         *config.Config
	Logger         logger.Logger
	service        *transform.Service
	handler        *transform.Handler
	health         *health.CheckerRegistry
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Config: cfg,
		Logger: log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.Config.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.Register()

	svc, err := transform.NewServiceFromConfig(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create transform service: %w", err)
	}
	a.service = svc

	a.handler = transform.NewHandler(svc, a.Config.Diagnostics, a.Logger)
	a.handler.SetFlusher(tp)

	a.health = health.NewCheckerRegistry()
	a.health.Register(transform.NewSelfCheck(svc))

	a.Logger.InfowCtx(ctx, "Transformer initialized",
		"workers", a.Config.Transform.Workers,
		"filter_expression", a.Config.Filter.Expression,
		"print_input_event", a.Config.Diagnostics.PrintInputEvent,
		"print_transformed_records", a.Config.Diagnostics.PrintTransformedRecords,
	)
	return nil
}

// StartLambda hands control to the Lambda runtime. It does not return.
func (a *App) StartLambda() {
	lambda.Start(a.handler.HandleEvent)
}

func (a *App) InitHTTPServer(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(a.Logger),
		middleware.RecoveryMiddleware(a.Logger),
	)

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(a.Config.Tracing))
	}

	if rl := a.Config.Server.RateLimit; rl.Enabled {
		rlCfg := ratelimit.DefaultConfig()
		rlCfg.RPS = rl.RPS
		rlCfg.Burst = rl.Burst
		router.Use(ratelimit.RateLimitMiddleware(ctx, rlCfg))
	}

	transform.NewHTTPHandler(a.handler, a.health, a.Config.Server.MaxBodyBytes, a.Logger).RegisterRoutes(router)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains the server.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("HTTP server is not initialized")
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Replay runs one Firehose event read from in and writes the response JSON
// to out.
func (a *App) Replay(ctx context.Context, in io.Reader, out io.Writer) error {
	var event transform.Event
	if err := json.NewDecoder(in).Decode(&event); err != nil {
		return apperrors.ErrValidation.WithCause(fmt.Errorf("failed to decode event: %w", err))
	}

	if err := transform.ValidateEvent(event); err != nil {
		return err
	}

	resp := a.handler.Process(ctx, transform.SourceReplay, event)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.InfowCtx(ctx, "Shutting down log processor")

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("tracer provider shutdown error: %w", err)
		}
	}
	return nil
}

// EncodeEvent builds a Firehose event whose records carry the given
// documents wrapped the way CloudWatch Logs delivers them.
func EncodeEvent(documents [][]byte, recordIDPrefix string, out io.Writer) error {
	event := transform.Event{
		InvocationID: uuid.NewString(),
		Records:      make([]transform.Record, 0, len(documents)),
	}

	now := time.Now().UnixMilli()
	for i, doc := range documents {
		data, err := transform.EncodeData(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document %d: %w", i, err)
		}

		recordID := uuid.NewString()
		if recordIDPrefix != "" {
			recordID = fmt.Sprintf("%s-%d", recordIDPrefix, i)
		}

		event.Records = append(event.Records, transform.Record{
			RecordID:                    recordID,
			ApproximateArrivalTimestamp: now,
			Data:                        data,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(event)
}
