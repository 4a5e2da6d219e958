package insight

import "errors"

var (
	ErrSidecarUnavailable = errors.New("insight sidecar unavailable")
	ErrInvalidResponse    = errors.New("invalid response from insight sidecar")
)
