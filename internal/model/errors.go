package model

import "errors"

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90 degrees")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180 degrees")
	ErrInvalidDepth     = errors.New("depth must be non-negative")
	ErrInvalidMagnitude = errors.New("magnitude value must be between 0 and 12")
	ErrFutureTimestamp  = errors.New("earthquake occurrence time cannot be in the future")
)
