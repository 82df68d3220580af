package kb

import "errors"

// Error kinds surfaced to callers. Wrapped with fmt.Errorf("...: %w", ...)
// at the failure site so errors.Is works against these sentinels.
var (
	// ErrDuplicateKey means an entry with the same key already exists with
	// a different value. Re-adding an identical entry is a no-op success.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrMalformedPayload means an import document is structurally invalid.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnknownDirection means a direction or preference value is invalid.
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrPersistence means a load or save I/O operation failed.
	ErrPersistence = errors.New("persistence failure")
)
