package constants

import "time"

const (
	ServiceName = "log-processor"
)

// MessageTypeData marks a CloudWatch Logs subscription payload that carries
// log events. Control messages and anything else are dropped.
const (
	MessageTypeData    = "DATA_MESSAGE"
	MessageTypeControl = "CONTROL_MESSAGE"
)

const (
	DefaultWorkers = 1
	MaxWorkers     = 64
)

const (
	DefaultServerPort          = 8080
	DefaultReadTimeoutSeconds  = 10
	DefaultWriteTimeoutSeconds = 30
	DefaultMaxBodyBytes        = 8 << 20
	DefaultRateLimitRPS        = 50.0
	DefaultRateLimitBurst      = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

// MissingRecordID is logged in place of an empty record identifier.
const MissingRecordID = "N/A"
