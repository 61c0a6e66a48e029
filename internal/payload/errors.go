package payload

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPayload is returned when normalization produced zero bytes.
	ErrEmptyPayload = errors.New("normalized payload is empty")

	// ErrPayloadTooLarge is returned when a stream exceeds the configured cap.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum allowed size")
)

// UnsupportedPayloadError is returned when every extraction strategy has been
// exhausted. The message carries the payload's runtime type and whatever
// structural introspection was possible; the calling clients are heterogeneous
// and silent failures are expensive to diagnose in production.
type UnsupportedPayloadError struct {
	Value any
	Hints []string
}

func (e *UnsupportedPayloadError) Error() string {
	msg := fmt.Sprintf("unsupported upload payload of type %T", e.Value)
	if len(e.Hints) > 0 {
		msg += " (" + strings.Join(e.Hints, "; ") + ")"
	}
	return msg
}

// IsUnsupportedPayload reports whether err is an UnsupportedPayloadError.
func IsUnsupportedPayload(err error) bool {
	var target *UnsupportedPayloadError
	return errors.As(err, &target)
}
