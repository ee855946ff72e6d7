package autodiff

import "errors"

// Backward errors.
var (
	ErrNotRecorded    = errors.New("backward: tensor was not produced by a recorded operation")
	ErrGraphReleased  = errors.New("backward: graph already released (pass retainGraph to backward more than once)")
	ErrSeedShape      = errors.New("backward: seed gradient shape does not match output")
	ErrNoGradRequired = errors.New("backward: output does not require grad")
)
