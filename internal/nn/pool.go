package nn

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// MaxPool2D is a square max pooling layer.
type MaxPool2D struct {
	kernelSize int
	stride     int
	backend    tensor.Backend
}

// NewMaxPool2D creates a max pooling layer.
func NewMaxPool2D(kernelSize, stride int, backend tensor.Backend) *MaxPool2D {
	return &MaxPool2D{kernelSize: kernelSize, stride: stride, backend: backend}
}

// Forward applies max pooling.
func (m *MaxPool2D) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	return m.backend.MaxPool2D(input, m.kernelSize, m.stride)
}

// Parameters returns nil.
func (m *MaxPool2D) Parameters() []*Parameter {
	return nil
}

func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d)", m.kernelSize, m.stride)
}

// Dropout is the identity in evaluation mode, the only mode this package runs.
// It exists so pretrained classifier heads keep their child numbering.
type Dropout struct {
	p float64
}

// NewDropout creates a dropout layer with drop probability p.
func NewDropout(p float64) *Dropout {
	return &Dropout{p: p}
}

// Forward returns input unchanged.
func (d *Dropout) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	return input
}

// Parameters returns nil.
func (d *Dropout) Parameters() []*Parameter {
	return nil
}

func (d *Dropout) String() string {
	return fmt.Sprintf("Dropout(p=%g)", d.p)
}
