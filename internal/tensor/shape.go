package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
// Shape{1, 3, 224, 224} is a single channel-first RGB image.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Flatten keeps the leading (batch) dimension and folds the rest into one.
// [N, C, H, W] becomes [N, C*H*W].
func (s Shape) Flatten() Shape {
	if len(s) < 2 {
		return Shape{s.NumElements()}
	}
	return Shape{s[0], Shape(s[1:]).NumElements()}
}

// Spatial returns the trailing height and width of an NCHW shape.
func (s Shape) Spatial() (h, w int) {
	if len(s) < 2 {
		return 0, 0
	}
	return s[len(s)-2], s[len(s)-1]
}
