package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cwlprocessor/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{in: "", want: zapcore.InfoLevel},
		{in: "debug", want: zapcore.DebugLevel},
		{in: "WARN", want: zapcore.WarnLevel},
		{in: " error ", want: zapcore.ErrorLevel},
		{in: "verbose", want: zapcore.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)

	log, err := New("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewWithCore(core)
	log.(*SugaredLogger).SetServiceName("log-processor")

	ctx := logging.WithRecordID(context.Background(), "rec-7")
	log.ErrorwCtx(ctx, "boom", "error", "bad gzip")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "rec-7", fields["record_id"])
	assert.Equal(t, "log-processor", fields["service_name"])
	assert.Equal(t, "bad gzip", fields["error"])
}
