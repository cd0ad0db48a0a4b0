package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"cwlprocessor/internal/constants"
)

const (
	keyPrintInputEvent         = "diagnostics.print_input_event"
	keyPrintTransformedRecords = "diagnostics.print_transformed_records"
)

// LoadConfig reads configuration from the environment and, when configFile is
// not empty, from a YAML file. Environment variables take precedence.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVariables(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Diagnostics = DiagnosticsConfig{
		PrintInputEvent:         ParseFlag(v.GetString(keyPrintInputEvent)),
		PrintTransformedRecords: ParseFlag(v.GetString(keyPrintTransformedRecords)),
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ParseFlag interprets a diagnostic flag value: "true", "1" and "t" in any
// case are true, everything else (including empty) is false.
func ParseFlag(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "t":
		return true
	default:
		return false
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPrintInputEvent, "false")
	v.SetDefault(keyPrintTransformedRecords, "false")

	v.SetDefault("logging.level", "info")
	v.SetDefault("transform.workers", constants.DefaultWorkers)
	v.SetDefault("filter.expression", "")

	v.SetDefault("server.port", constants.DefaultServerPort)
	v.SetDefault("server.read_timeout_seconds", constants.DefaultReadTimeoutSeconds)
	v.SetDefault("server.write_timeout_seconds", constants.DefaultWriteTimeoutSeconds)
	v.SetDefault("server.max_body_bytes", constants.DefaultMaxBodyBytes)
	v.SetDefault("server.rate_limit.enabled", false)
	v.SetDefault("server.rate_limit.rps", constants.DefaultRateLimitRPS)
	v.SetDefault("server.rate_limit.burst", constants.DefaultRateLimitBurst)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.otlp.endpoint", "")
	v.SetDefault("tracing.otlp.insecure", false)
	v.SetDefault("tracing.sampler.type", "always_on")
	v.SetDefault("tracing.sampler.param", 1.0)
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv(keyPrintInputEvent, "PRINT_INPUT_EVENT")
	v.BindEnv(keyPrintTransformedRecords, "PRINT_TRANSFORMED_RECORDS")

	v.BindEnv("logging.level", "LOG_LEVEL", "LOGGING_LEVEL")

	v.BindEnv("transform.workers", "TRANSFORM_WORKERS")
	v.BindEnv("filter.expression", "FILTER_EXPRESSION")

	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.read_timeout_seconds", "SERVER_READ_TIMEOUT_SECONDS")
	v.BindEnv("server.write_timeout_seconds", "SERVER_WRITE_TIMEOUT_SECONDS")
	v.BindEnv("server.max_body_bytes", "SERVER_MAX_BODY_BYTES")
	v.BindEnv("server.rate_limit.enabled", "SERVER_RATE_LIMIT_ENABLED")
	v.BindEnv("server.rate_limit.rps", "SERVER_RATE_LIMIT_RPS")
	v.BindEnv("server.rate_limit.burst", "SERVER_RATE_LIMIT_BURST")

	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")
	v.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	v.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
	v.BindEnv("tracing.sampler.type", "TRACING_SAMPLER_TYPE")
	v.BindEnv("tracing.sampler.param", "TRACING_SAMPLER_PARAM")
}
