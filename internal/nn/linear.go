package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Linear is a fully connected layer: y = x @ Wᵀ + b.
//
// Input:  [batch_size, in_features]
// Output: [batch_size, out_features]
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
	backend     tensor.Backend
}

// NewLinear creates a fully connected layer with weights drawn from N(0, 0.01²)
// and zero bias.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend, rng *rand.Rand) *Linear {
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", Normal(tensor.Shape{outFeatures, inFeatures}, 0.01, rng)),
		bias:        NewParameter("bias", Zeros(tensor.Shape{outFeatures})),
		backend:     backend,
	}
}

// Forward computes x @ Wᵀ + b.
func (l *Linear) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[1]))
	}
	out := l.backend.Linear(input, l.weight.Tensor())
	return l.backend.BiasAdd(out, l.bias.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the input feature count.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the output feature count.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

func (l *Linear) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d)", l.inFeatures, l.outFeatures)
}
