package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(RecordsTotal.WithLabelValues("Dropped"))
	IncRecord("Dropped")
	IncRecord("Dropped")
	assert.Equal(t, before+2, testutil.ToFloat64(RecordsTotal.WithLabelValues("Dropped")))

	beforeFailures := testutil.ToFloat64(RecordFailuresTotal.WithLabelValues("PARSE_ERROR"))
	IncRecordFailure("PARSE_ERROR")
	assert.Equal(t, beforeFailures+1, testutil.ToFloat64(RecordFailuresTotal.WithLabelValues("PARSE_ERROR")))

	beforeBatches := testutil.ToFloat64(BatchesTotal.WithLabelValues("lambda"))
	ObserveBatch("lambda", 3, 2*time.Millisecond)
	assert.Equal(t, beforeBatches+1, testutil.ToFloat64(BatchesTotal.WithLabelValues("lambda")))
}
