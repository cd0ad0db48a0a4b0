package transform

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cwlprocessor/pkg/errors"
)

func TestDecodeDataRoundTrip(t *testing.T) {
	data, err := EncodeData([]byte(dataMessage))
	require.NoError(t, err)

	payload, err := DecodeData(data)
	require.NoError(t, err)
	assert.Equal(t, dataMessage, string(payload))
}

func TestDecodeDataErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "invalid base64",
			data: "not base64 !!!",
		},
		{
			name: "missing padding",
			data: "YWJj" + "ZA",
		},
		{
			name: "valid base64 but not gzip",
			data: base64.StdEncoding.EncodeToString([]byte("plain text")),
		},
		{
			name: "truncated gzip stream",
			data: func() string {
				full, _ := base64.StdEncoding.DecodeString(mustEncode(dataMessage))
				return base64.StdEncoding.EncodeToString(full[:len(full)-6])
			}(),
		},
		{
			name: "empty input",
			data: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeData(tt.data)
			require.Error(t, err)
			assert.True(t, apperrors.IsDecode(err), "got %v", err)
		})
	}
}

func TestDecodeDataRejectsInvalidUTF8(t *testing.T) {
	data := gzipBase64(t, []byte{'{', '"', 0xff, 0xfe, '"', '}'})

	_, err := DecodeData(data)
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestEncodePayload(t *testing.T) {
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(dataMessage)), EncodePayload([]byte(dataMessage)))
}

func mustEncode(document string) string {
	data, err := EncodeData([]byte(document))
	if err != nil {
		panic(err)
	}
	return data
}
