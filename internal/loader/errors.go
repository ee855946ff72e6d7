package loader

import "errors"

var (
	// ErrMissingTensor is returned when a tensor name is not in the file.
	ErrMissingTensor = errors.New("loader: tensor not found")
	// ErrShapeMismatch is returned when a tensor's byte range does not match
	// its declared shape and dtype.
	ErrShapeMismatch = errors.New("loader: tensor size does not match shape")
	// ErrUnsupportedDType is returned for non floating point tensors.
	ErrUnsupportedDType = errors.New("loader: unsupported dtype")
)
