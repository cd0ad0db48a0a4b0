package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Logging:   LoggingConfig{Level: "info"},
		Transform: TransformConfig{Workers: 1},
		Server: ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
			MaxBodyBytes:        1 << 20,
		},
	}
}

func TestValidateStatic(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		field   string
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Config) { cfg.Logging.Level = "trace" },
			field:   "logging.level",
			wantErr: true,
		},
		{
			name:    "too many workers",
			mutate:  func(cfg *Config) { cfg.Transform.Workers = 1000 },
			field:   "transform.workers",
			wantErr: true,
		},
		{
			name:    "non-bool filter",
			mutate:  func(cfg *Config) { cfg.Filter.Expression = "logGroup" },
			field:   "filter.expression",
			wantErr: true,
		},
		{
			name:   "valid filter",
			mutate: func(cfg *Config) { cfg.Filter.Expression = `owner != ""` },
		},
		{
			name:    "bad port",
			mutate:  func(cfg *Config) { cfg.Server.Port = 70000 },
			field:   "server.port",
			wantErr: true,
		},
		{
			name: "rate limit without rps",
			mutate: func(cfg *Config) {
				cfg.Server.RateLimit = RateLimitConfig{Enabled: true, Burst: 1}
			},
			field:   "server.rate_limit.rps",
			wantErr: true,
		},
		{
			name:    "tracing without endpoint",
			mutate:  func(cfg *Config) { cfg.Tracing.Enabled = true },
			field:   "tracing.otlp.endpoint",
			wantErr: true,
		},
		{
			name: "tracing with unknown sampler",
			mutate: func(cfg *Config) {
				cfg.Tracing = TracingConfig{
					Enabled: true,
					OTLP:    OTLPConfig{Endpoint: "localhost:4317"},
					Sampler: SamplerConfig{Type: "sometimes"},
				}
			},
			field:   "tracing.sampler.type",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateStatic(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var vErr *ValidationError
			if assert.True(t, errors.As(err, &vErr)) {
				assert.Equal(t, tt.field, vErr.Field)
			}
		})
	}
}
