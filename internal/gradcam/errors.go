package gradcam

import "errors"

var (
	// ErrNoActivations is returned when no tapped layer produced an activation.
	ErrNoActivations = errors.New("gradcam: no activations captured (check target layers)")
	// ErrNoGradient is returned when backpropagation never reached the tapped
	// layer or the input.
	ErrNoGradient = errors.New("gradcam: no gradient captured")
	// ErrFlatSaliency is returned when a saliency map has no range to normalize.
	ErrFlatSaliency = errors.New("gradcam: saliency map is flat")
	// ErrClassIndex is returned for a class index outside the logits.
	ErrClassIndex = errors.New("gradcam: class index out of range")
	// ErrStalePass is returned when a pass is used after the tape it was
	// recorded on has been cleared.
	ErrStalePass = errors.New("gradcam: forward pass is no longer recorded")
	// ErrInputGrad is returned when the input of a guided pass does not
	// track gradients.
	ErrInputGrad = errors.New("gradcam: input must be a leaf that requires grad")
)
