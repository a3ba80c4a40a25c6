package analyzer

import "errors"

var (
	ErrInvalidChannelCount  = errors.New("image must have exactly 3 channels")
	ErrInvalidDimensions    = errors.New("image dimensions must be positive")
	ErrInvalidConfiguration = errors.New("invalid saliency configuration")
)
