package config

type Config struct {
	Diagnostics DiagnosticsConfig `mapstructure:"-"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Transform   TransformConfig   `mapstructure:"transform"`
	Filter      FilterConfig      `mapstructure:"filter"`
	Server      ServerConfig      `mapstructure:"server"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

// DiagnosticsConfig gates raw event and response dumps. The flags are parsed
// with ParseFlag rather than viper's bool decoding.
type DiagnosticsConfig struct {
	PrintInputEvent         bool
	PrintTransformedRecords bool
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type TransformConfig struct {
	Workers int `mapstructure:"workers"`
}

type FilterConfig struct {
	Expression string `mapstructure:"expression"` // CEL, applied to DATA_MESSAGE documents only
}

type ServerConfig struct {
	Port                int             `mapstructure:"port"`
	ReadTimeoutSeconds  int             `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int             `mapstructure:"write_timeout_seconds"`
	MaxBodyBytes        int64           `mapstructure:"max_body_bytes"`
	RateLimit           RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
