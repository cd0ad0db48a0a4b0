package config

import (
	"errors"
	"fmt"

	"cwlprocessor/internal/constants"
	"cwlprocessor/internal/logger"
	"cwlprocessor/pkg/cel"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errs []error

	if err := validateLogging(cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	if err := validateTransform(cfg.Transform); err != nil {
		errs = append(errs, err)
	}

	if err := validateFilter(cfg.Filter); err != nil {
		errs = append(errs, err)
	}

	if err := validateServer(cfg.Server); err != nil {
		errs = append(errs, err)
	}

	if err := validateTracing(cfg.Tracing); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validateLogging(cfg LoggingConfig) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.Level),
		}
	}
	return nil
}

func validateTransform(cfg TransformConfig) error {
	if cfg.Workers < 1 || cfg.Workers > constants.MaxWorkers {
		return &ValidationError{
			Field:   "transform.workers",
			Message: fmt.Sprintf("workers must be between 1 and %d, got %d", constants.MaxWorkers, cfg.Workers),
		}
	}
	return nil
}

func validateFilter(cfg FilterConfig) error {
	if cfg.Expression == "" {
		return nil
	}

	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return err
	}

	if err := evaluator.ValidateFilterExpression(cfg.Expression); err != nil {
		return &ValidationError{
			Field:   "filter.expression",
			Message: err.Error(),
		}
	}
	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}

	if cfg.ReadTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.read_timeout_seconds",
			Message: "read timeout must be positive",
		}
	}

	if cfg.WriteTimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "server.write_timeout_seconds",
			Message: "write timeout must be positive",
		}
	}

	if cfg.MaxBodyBytes <= 0 {
		return &ValidationError{
			Field:   "server.max_body_bytes",
			Message: "max body size must be positive",
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return &ValidationError{
				Field:   "server.rate_limit.rps",
				Message: "rps must be positive when rate limiting is enabled",
			}
		}
		if cfg.RateLimit.Burst < 1 {
			return &ValidationError{
				Field:   "server.rate_limit.burst",
				Message: "burst must be at least 1 when rate limiting is enabled",
			}
		}
	}

	return nil
}

func validateTracing(cfg TracingConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.OTLP.Endpoint == "" {
		return &ValidationError{
			Field:   "tracing.otlp.endpoint",
			Message: "OTLP endpoint is required when tracing is enabled",
		}
	}

	switch cfg.Sampler.Type {
	case "", "always_on", "always_off", "traceidratio", "parentbased_always_on", "parentbased_traceidratio":
	default:
		return &ValidationError{
			Field:   "tracing.sampler.type",
			Message: fmt.Sprintf("unknown sampler type: %s", cfg.Sampler.Type),
		}
	}

	if cfg.Sampler.Param < 0 || cfg.Sampler.Param > 1 {
		return &ValidationError{
			Field:   "tracing.sampler.param",
			Message: "sampler param must be between 0 and 1",
		}
	}

	return nil
}
