package imaging

import "errors"

var (
	// ErrChannels is returned when an image is not exactly 3-channel.
	ErrChannels = errors.New("imaging: image must have 3 channels")
	// ErrSize is returned when an image, map or tensor has unusable dimensions.
	ErrSize = errors.New("imaging: dimension mismatch")
)
