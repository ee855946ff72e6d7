package nn

import "errors"

var (
	// ErrMissingParameter is returned when a state dict lacks a tensor the
	// module requires.
	ErrMissingParameter = errors.New("nn: missing parameter")
	// ErrShapeMismatch is returned when a state dict tensor has the wrong shape.
	ErrShapeMismatch = errors.New("nn: parameter shape mismatch")
	// ErrUnexpectedParameter is returned by a strict load when the state dict
	// holds a tensor the module has no parameter for.
	ErrUnexpectedParameter = errors.New("nn: unexpected parameter")
	// ErrUnknownArch is returned for an unsupported architecture name.
	ErrUnknownArch = errors.New("nn: unknown architecture")
)
