package transform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"

	apperrors "cwlprocessor/pkg/errors"
)

// DecodeData reverses the CloudWatch Logs subscription wrapping: standard
// base64, then gzip. The decompressed bytes must be valid UTF-8.
func DecodeData(data string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, apperrors.ErrDecode.WithCause(fmt.Errorf("base64: %w", err))
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, apperrors.ErrDecode.WithCause(fmt.Errorf("gzip: %w", err))
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, apperrors.ErrDecode.WithCause(fmt.Errorf("gzip: %w", err))
	}

	if !utf8.Valid(payload) {
		return nil, apperrors.ErrDecode.WithDetail("message", "decompressed payload is not valid UTF-8")
	}

	return payload, nil
}

// EncodeData wraps a payload the way CloudWatch Logs delivers it to
// Firehose. Used to build replay events and self checks.
func EncodeData(payload []byte) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return "", fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("gzip close: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodePayload produces the data field of an Ok response record.
func EncodePayload(payload []byte) string {
	return base64.StdEncoding.EncodeToString(payload)
}
