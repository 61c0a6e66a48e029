package payload

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrobooks-api/internal/pool"
)

func newTestNormalizer(maxBytes int64) *Normalizer {
	return NewNormalizer(pool.NewBufferPool(2, 64), maxBytes)
}

func TestNormalizeInMemoryBytes(t *testing.T) {
	n := newTestNormalizer(0)

	data := []byte("hello pdf content")
	file, err := n.Normalize(InMemoryBytes{Data: data, Name: "a.pdf", MimeType: "application/pdf"}, "", "")
	require.NoError(t, err)

	assert.Equal(t, data, file.Bytes)
	assert.Equal(t, "a.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.MimeType)
}

func TestNormalizeChunkedStream(t *testing.T) {
	n := newTestNormalizer(0)

	// Larger than one chunk buffer so drain loops.
	data := bytes.Repeat([]byte("x"), 1000)
	file, err := n.Normalize(ChunkedStream{Reader: bytes.NewReader(data), Name: "big.bin"}, "", "")
	require.NoError(t, err)

	assert.Len(t, file.Bytes, 1000)
	assert.Equal(t, "big.bin", file.Filename)
	assert.Equal(t, DefaultMimeType, file.MimeType)
}

func TestNormalizeChunkedStreamTooLarge(t *testing.T) {
	n := newTestNormalizer(100)

	data := bytes.Repeat([]byte("x"), 200)
	_, err := n.Normalize(ChunkedStream{Reader: bytes.NewReader(data)}, "", "")
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestNormalizeBase64DataURL(t *testing.T) {
	n := newTestNormalizer(0)

	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	file, err := n.Normalize(Base64Payload{Data: dataURL}, "photo.jpg", "")
	require.NoError(t, err)

	assert.Equal(t, raw, file.Bytes)
	assert.Equal(t, "photo.jpg", file.Filename)
	// MIME from the data-URL header wins over defaults.
	assert.Equal(t, "image/jpeg", file.MimeType)
}

func TestNormalizeBareBase64(t *testing.T) {
	n := newTestNormalizer(0)

	raw := []byte("document body")
	file, err := n.Normalize(Base64Payload{Data: base64.StdEncoding.EncodeToString(raw)}, "", "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, raw, file.Bytes)
	assert.Equal(t, DefaultFilename, file.Filename)
	// The contextual default applies when the payload carries no type.
	assert.Equal(t, "application/pdf", file.MimeType)
}

func TestNormalizeInvalidBase64(t *testing.T) {
	n := newTestNormalizer(0)

	_, err := n.Normalize(Base64Payload{Data: "!!not-base64!!"}, "", "")
	assert.True(t, IsUnsupportedPayload(err))
}

func TestNormalizeNestedDataField(t *testing.T) {
	n := newTestNormalizer(0)

	raw := []byte("nested bytes")
	fields := map[string]any{
		"_data": base64.StdEncoding.EncodeToString(raw),
		"name":  "blob.bin",
		"type":  "application/octet-stream",
	}

	file, err := n.Normalize(NestedDataField{Fields: fields}, "", "")
	require.NoError(t, err)

	assert.Equal(t, raw, file.Bytes)
	assert.Equal(t, "blob.bin", file.Filename)
}

func TestNormalizeNestedDataURL(t *testing.T) {
	n := newTestNormalizer(0)

	raw := []byte{1, 2, 3}
	fields := map[string]any{
		"uri": "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(raw),
	}

	file, err := n.Normalize(NestedDataField{Fields: fields}, "doc.pdf", "")
	require.NoError(t, err)

	assert.Equal(t, raw, file.Bytes)
	assert.Equal(t, "application/pdf", file.MimeType)
}

func TestNormalizeEmptyPayload(t *testing.T) {
	n := newTestNormalizer(0)

	_, err := n.Normalize(InMemoryBytes{Data: nil}, "", "")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestUnsupportedPayloadDiagnostics(t *testing.T) {
	n := newTestNormalizer(0)

	fields := map[string]any{"foo": 1, "bar": 2}
	_, err := n.Normalize(NestedDataField{Fields: fields}, "", "")
	require.Error(t, err)

	// The error names the Go type and lists the keys that were present.
	msg := err.Error()
	assert.Contains(t, msg, "map[string]interface {}")
	assert.Contains(t, msg, "bar, foo")
}

func TestFromValueDataURLString(t *testing.T) {
	src, err := FromValue("data:image/png;base64,aGk=")
	require.NoError(t, err)
	assert.IsType(t, Base64Payload{}, src)
}

func TestFromValueBareStringRejected(t *testing.T) {
	_, err := FromValue("https://example.com/file.pdf")
	assert.True(t, IsUnsupportedPayload(err))
}

func TestFromValueByteArray(t *testing.T) {
	src, err := FromValue([]any{float64(1), float64(2), float64(255)})
	require.NoError(t, err)

	mem, ok := src.(InMemoryBytes)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 255}, mem.Data)
}

func TestFromValueNonByteArrayRejected(t *testing.T) {
	_, err := FromValue([]any{float64(300)})
	assert.True(t, IsUnsupportedPayload(err))
}

func TestFromValueNestedObject(t *testing.T) {
	src, err := FromValue(map[string]any{
		"data":     "aGVsbG8=",
		"fileName": "greeting.txt",
		"mimeType": "text/plain",
	})
	require.NoError(t, err)

	nested, ok := src.(NestedDataField)
	require.True(t, ok)
	assert.Equal(t, "greeting.txt", nested.Name)
	assert.Equal(t, "text/plain", nested.MimeType)
}

func TestFromValueUnsupportedType(t *testing.T) {
	_, err := FromValue(42.0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "float64"))
}
