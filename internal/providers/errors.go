package providers

import "errors"

// Provider errors
var (
	// Configuration errors
	ErrInvalidProvider  = errors.New("invalid or unsupported storage provider")
	ErrMissingEndpoint  = errors.New("storage endpoint is required")
	ErrMissingAccessKey = errors.New("storage access key is required")
	ErrMissingSecretKey = errors.New("storage secret key is required")
	ErrMissingRegion    = errors.New("storage region is required for AWS provider")

	// Request errors
	ErrMissingBucket = errors.New("bucket name is required")
	ErrMissingKey    = errors.New("object key is required")
	ErrEmptyObject   = errors.New("object data is empty")

	// Upload errors
	ErrUploadFailed  = errors.New("upload operation failed")
	ErrObjectExists  = errors.New("object already exists at this key")
	ErrPresignFailed = errors.New("failed to presign URL")

	// Object errors
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")

	// Provider errors
	ErrProviderNotSupported = errors.New("storage provider not supported")
)

// StoreError wraps backend-specific errors with additional context.
type StoreError struct {
	Provider string
	Op       string
	Bucket   string
	Key      string
	Err      error
}

func (e *StoreError) Error() string {
	msg := "storage " + e.Provider + " " + e.Op + " failed"
	if e.Bucket != "" {
		msg += " for bucket '" + e.Bucket + "'"
	}
	if e.Key != "" {
		msg += " key '" + e.Key + "'"
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with context.
func NewStoreError(provider, op, bucket, key string, err error) *StoreError {
	return &StoreError{
		Provider: provider,
		Op:       op,
		Bucket:   bucket,
		Key:      key,
		Err:      err,
	}
}

// IsNotFound reports whether err indicates a missing object or bucket.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrBucketNotFound)
}

// IsConflict reports whether err indicates a write to an occupied key.
func IsConflict(err error) bool {
	return errors.Is(err, ErrObjectExists)
}
