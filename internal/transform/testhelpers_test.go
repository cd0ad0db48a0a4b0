package transform

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"cwlprocessor/internal/config"
	"cwlprocessor/internal/logger"
)

const (
	dataMessage    = `{"messageType":"DATA_MESSAGE","logGroup":"g1"}`
	controlMessage = `{"messageType":"CONTROL_MESSAGE"}`
)

func newTestService(workers int) *Service {
	return NewService(config.TransformConfig{Workers: workers}, nil, logger.NopLogger())
}

func encodeRecord(t *testing.T, id, document string) Record {
	t.Helper()
	data, err := EncodeData([]byte(document))
	require.NoError(t, err)
	return Record{RecordID: id, Data: data}
}

// gzipBase64 wraps arbitrary bytes, including ones that are not JSON.
func gzipBase64(t *testing.T, payload []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeOkPayload(t *testing.T, data string) map[string]interface{} {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func parseJSON(t *testing.T, document string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(document), &doc))
	return doc
}
