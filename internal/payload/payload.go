package payload

import (
	"encoding/base64"
	"fmt"
	"io"
	"sort"
	"strings"

	"agrobooks-api/internal/pool"
)

const (
	// DefaultFilename is used when no name could be resolved from any source.
	DefaultFilename = "file"

	// DefaultMimeType is the last-resort content type.
	DefaultMimeType = "application/octet-stream"
)

// NormalizedFile is the fully-materialized result of normalization:
// a byte buffer plus a resolved filename and MIME type.
type NormalizedFile struct {
	Bytes    []byte
	Filename string
	MimeType string
}

// Source is one supported representation of an uploaded file. Clients are
// heterogeneous (web, Node, two React Native file-picker libraries), so the
// same logical upload arrives in several physical shapes; each shape gets its
// own variant and an explicit extraction path in Normalize.
type Source interface {
	isSource()
}

// InMemoryBytes is a payload that is already a raw byte buffer.
type InMemoryBytes struct {
	Data     []byte
	Name     string
	MimeType string
}

// ChunkedStream is a payload read incrementally until exhausted.
type ChunkedStream struct {
	Reader   io.Reader
	Name     string
	MimeType string
}

// Base64Payload is a bare base64 string or a data: URL.
type Base64Payload struct {
	Data     string
	Name     string
	MimeType string
}

// NestedDataField is a plain object carrying the bytes under an embedded
// data property, as produced by certain mobile FormData encodings.
type NestedDataField struct {
	Fields   map[string]any
	Name     string
	MimeType string
}

func (InMemoryBytes) isSource()   {}
func (ChunkedStream) isSource()   {}
func (Base64Payload) isSource()   {}
func (NestedDataField) isSource() {}

// Normalizer materializes any Source into a NormalizedFile. Stream draining
// borrows chunk buffers from the shared pool.
type Normalizer struct {
	buffers  *pool.BufferPool
	maxBytes int64
}

// NewNormalizer creates a normalizer. maxBytes of 0 disables the size cap.
func NewNormalizer(buffers *pool.BufferPool, maxBytes int64) *Normalizer {
	return &Normalizer{
		buffers:  buffers,
		maxBytes: maxBytes,
	}
}

// Normalize extracts bytes, filename and MIME type from src. declaredName and
// declaredMime come from sidecar request fields and are used when the payload
// does not carry its own; declaredMime doubles as the contextual default
// (e.g. "application/pdf" on a document route) ahead of DefaultMimeType.
func (n *Normalizer) Normalize(src Source, declaredName, declaredMime string) (*NormalizedFile, error) {
	var (
		data []byte
		name string
		mime string
		err  error
	)

	switch s := src.(type) {
	case InMemoryBytes:
		data, name, mime = s.Data, s.Name, s.MimeType

	case ChunkedStream:
		data, err = n.drain(s.Reader)
		if err != nil {
			return nil, err
		}
		name, mime = s.Name, s.MimeType

	case Base64Payload:
		data, mime, err = decodeBase64(s.Data)
		if err != nil {
			return nil, err
		}
		name = s.Name
		if mime == "" {
			mime = s.MimeType
		}

	case NestedDataField:
		data, mime, err = extractNested(s.Fields)
		if err != nil {
			return nil, err
		}
		name = s.Name
		if name == "" {
			name = stringField(s.Fields, "name", "fileName", "filename")
		}
		if mime == "" {
			mime = s.MimeType
		}
		if mime == "" {
			mime = stringField(s.Fields, "type", "mimeType")
		}

	default:
		return nil, &UnsupportedPayloadError{Value: src}
	}

	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}

	if name == "" {
		name = declaredName
	}
	if name == "" {
		name = DefaultFilename
	}
	if mime == "" {
		mime = declaredMime
	}
	if mime == "" {
		mime = DefaultMimeType
	}

	return &NormalizedFile{Bytes: data, Filename: name, MimeType: mime}, nil
}

// drain reads the stream chunk by chunk into a growing buffer.
func (n *Normalizer) drain(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, &UnsupportedPayloadError{Value: r, Hints: []string{"stream reader is nil"}}
	}

	chunk := n.buffers.Get()
	defer n.buffers.Put(chunk)

	var out []byte
	for {
		m, err := r.Read(chunk)
		if m > 0 {
			out = append(out, chunk[:m]...)
			if n.maxBytes > 0 && int64(len(out)) > n.maxBytes {
				return nil, fmt.Errorf("%w: limit %d bytes", ErrPayloadTooLarge, n.maxBytes)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to drain payload stream: %w", err)
		}
	}

	return out, nil
}

// decodeBase64 decodes a bare base64 string or a data: URL, returning the
// bytes and the content type embedded in the data-URL header, if any.
func decodeBase64(data string) ([]byte, string, error) {
	var detected string

	if strings.HasPrefix(data, "data:") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) != 2 {
			return nil, "", &UnsupportedPayloadError{
				Value: data,
				Hints: []string{"data: URL has no comma separator"},
			}
		}

		header := parts[0]
		if strings.Contains(header, ";base64") {
			detected = strings.TrimPrefix(strings.Split(header, ";")[0], "data:")
		}
		data = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// Some clients emit URL-safe base64.
		decoded, err = base64.URLEncoding.DecodeString(data)
	}
	if err != nil {
		return nil, "", &UnsupportedPayloadError{
			Value: data,
			Hints: []string{"invalid base64 payload: " + err.Error()},
		}
	}

	return decoded, detected, nil
}

// nestedDataKeys are probed in order on plain-object payloads. "_data" is the
// shape produced by the React Native Blob polyfill.
var nestedDataKeys = []string{"data", "_data", "uri"}

func extractNested(fields map[string]any) ([]byte, string, error) {
	for _, key := range nestedDataKeys {
		raw, ok := fields[key]
		if !ok || raw == nil {
			continue
		}

		switch v := raw.(type) {
		case []byte:
			return v, "", nil
		case string:
			if strings.HasPrefix(v, "data:") {
				return decodeBase64(v)
			}
			// Bare base64 under a data key.
			if decoded, err := base64.StdEncoding.DecodeString(v); err == nil && len(decoded) > 0 {
				return decoded, "", nil
			}
		case []any:
			data, ok := byteSlice(v)
			if ok {
				return data, "", nil
			}
		}
	}

	return nil, "", &UnsupportedPayloadError{Value: fields, Hints: mapHints(fields)}
}

// byteSlice converts a JSON-decoded numeric array into bytes.
func byteSlice(values []any) ([]byte, bool) {
	out := make([]byte, 0, len(values))
	for _, v := range values {
		f, ok := v.(float64)
		if !ok || f < 0 || f > 255 {
			return nil, false
		}
		out = append(out, byte(f))
	}
	return out, true
}

func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// FromValue classifies a JSON-decoded value into a Source. It accepts a
// data: URL string, a numeric byte array, or a plain object with an embedded
// data property; anything else fails with diagnostics.
func FromValue(v any) (Source, error) {
	switch val := v.(type) {
	case string:
		if strings.HasPrefix(val, "data:") {
			return Base64Payload{Data: val}, nil
		}
		return nil, &UnsupportedPayloadError{
			Value: v,
			Hints: []string{"string payload does not begin with data:"},
		}

	case map[string]any:
		for _, key := range nestedDataKeys {
			if _, ok := val[key]; ok {
				return NestedDataField{
					Fields:   val,
					Name:     stringField(val, "name", "fileName", "filename"),
					MimeType: stringField(val, "type", "mimeType"),
				}, nil
			}
		}
		return nil, &UnsupportedPayloadError{Value: v, Hints: mapHints(val)}

	case []any:
		data, ok := byteSlice(val)
		if !ok {
			return nil, &UnsupportedPayloadError{
				Value: v,
				Hints: []string{fmt.Sprintf("array of %d elements is not a byte array", len(val))},
			}
		}
		return InMemoryBytes{Data: data}, nil

	case []byte:
		return InMemoryBytes{Data: val}, nil

	default:
		return nil, &UnsupportedPayloadError{Value: v}
	}
}

func mapHints(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return []string{
		"no data property found among keys: " + strings.Join(keys, ", "),
		"expected one of: " + strings.Join(nestedDataKeys, ", "),
	}
}
