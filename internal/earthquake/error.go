package earthquake

import "errors"

var (
	ErrEmptyExternalID = errors.New("feed record has no external id")
	ErrFeedUnavailable = errors.New("external feed unavailable")
)
