package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, device Device) (*RawTensor, error) {
	return NewRaw(shape, device)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float32, device Device) (*RawTensor, error) {
	t, err := NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = value
	}
	return t, nil
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float32, shape Shape, device Device) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	copy(t.data, data)
	return t, nil
}

// Randn creates a tensor of standard normal samples drawn from rng.
// The same rng state always produces the same tensor.
func Randn(shape Shape, rng *rand.Rand, device Device) (*RawTensor, error) {
	t, err := NewRaw(shape, device)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = float32(rng.NormFloat64())
	}
	return t, nil
}

// OneHot creates a [1, n] selector with a single 1 at index.
func OneHot(n, index int, device Device) (*RawTensor, error) {
	if index < 0 || index >= n {
		return nil, fmt.Errorf("one-hot index %d out of range [0, %d)", index, n)
	}
	t, err := NewRaw(Shape{1, n}, device)
	if err != nil {
		return nil, err
	}
	t.data[index] = 1
	return t, nil
}
