package compare

import "errors"

var (
	// ErrDimensionMismatch is returned when baseline and actual differ in
	// width or height. Images are never resized or cropped to match.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidConfig is returned for configs rejected before pixel work.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrDecode is returned when image bytes cannot be decoded.
	ErrDecode = errors.New("image decode error")
	// ErrResourceExhausted is returned when even strip-wise processing
	// cannot fit within the memory budget.
	ErrResourceExhausted = errors.New("resource exhausted")
)
