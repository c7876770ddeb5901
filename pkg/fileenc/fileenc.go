// Package fileenc converts uploaded files to and from base64 text.
package fileenc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrTooLarge is returned when the source exceeds the byte limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// Encoded is a file converted to base64.
type Encoded struct {
	Data     string
	Size     int64
	MimeType string
}

// Encode reads r up to limit bytes and returns its base64 form together
// with the byte count and a sniffed MIME type. A limit <= 0 disables the
// check.
func Encode(r io.Reader, limit int64) (Encoded, error) {
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return Encoded{}, fmt.Errorf("read file: %w", err)
	}
	if limit > 0 && int64(len(raw)) > limit {
		return Encoded{}, ErrTooLarge
	}

	return Encoded{
		Data:     base64.StdEncoding.EncodeToString(raw),
		Size:     int64(len(raw)),
		MimeType: http.DetectContentType(raw),
	}, nil
}

// Decode returns the raw bytes of base64 text produced by Encode.
func Decode(data string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return raw, nil
}

// DataURI wraps base64 data in a data: URI.
func DataURI(mimeType, data string) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + data
}

// ParseDataURI splits a base64 data: URI into its MIME type and raw bytes.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data uri")
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri without payload")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("data uri is not base64")
	}
	raw, err := Decode(data)
	if err != nil {
		return "", nil, err
	}
	return mimeType, raw, nil
}
