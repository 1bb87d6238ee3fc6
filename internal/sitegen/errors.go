package sitegen

import "errors"

// Sentinel errors returned by Generate. Each is wrapped together with its
// cause, so callers match with errors.Is and still see the underlying message.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrMalformedOutput   = errors.New("malformed model output")
	ErrNotFound          = errors.New("site not found")
	ErrPersistenceFailed = errors.New("persistence failed")
	ErrSiteBusy          = errors.New("site is being regenerated")
)
