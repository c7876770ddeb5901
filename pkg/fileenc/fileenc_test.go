package fileenc

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestEncodeRoundTrip(t *testing.T) {
	src := []byte("hello support desk")

	enc, err := Encode(bytes.NewReader(src), 1024)
	require.NoError(t, err)
	require.Equal(t, "aGVsbG8gc3VwcG9ydCBkZXNr", enc.Data)
	require.Equal(t, int64(len(src)), enc.Size)
	require.True(t, strings.HasPrefix(enc.MimeType, "text/plain"))

	raw, err := Decode(enc.Data)
	require.NoError(t, err)
	require.Equal(t, src, raw)
}

func TestEncodeLimit(t *testing.T) {
	_, err := Encode(strings.NewReader("12345"), 4)
	require.ErrorIs(t, err, ErrTooLarge)

	enc, err := Encode(strings.NewReader("1234"), 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), enc.Size)

	enc, err = Encode(strings.NewReader("no limit"), 0)
	require.NoError(t, err)
	require.Equal(t, int64(8), enc.Size)
}

func TestEncodeReadError(t *testing.T) {
	_, err := Encode(failingReader{}, 10)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTooLarge)
}

func TestDataURI(t *testing.T) {
	uri := DataURI("image/png", "AAEC")
	require.Equal(t, "data:image/png;base64,AAEC", uri)

	mimeType, raw, err := ParseDataURI(uri)
	require.NoError(t, err)
	require.Equal(t, "image/png", mimeType)
	require.Equal(t, []byte{0, 1, 2}, raw)

	require.Equal(t, "data:application/octet-stream;base64,", DataURI("", ""))

	_, _, err = ParseDataURI("http://example.com")
	require.Error(t, err)
	_, _, err = ParseDataURI("data:text/plain,hello")
	require.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("%%%")
	require.Error(t, err)
}
