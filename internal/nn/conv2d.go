package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Conv2D is a 2D convolution layer with a per-channel bias.
//
// Input:  [N, in_channels, H, W]
// Output: [N, out_channels, H_out, W_out]
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int
	weight      *Parameter // [out_channels, in_channels, k, k]
	bias        *Parameter // [out_channels]
	backend     tensor.Backend
}

// NewConv2D creates a square-kernel convolution initialized from rng.
func NewConv2D(inChannels, outChannels, kernelSize, stride, padding int, backend tensor.Backend, rng *rand.Rand) *Conv2D {
	shape := tensor.Shape{outChannels, inChannels, kernelSize, kernelSize}
	return &Conv2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("weight", KaimingNormal(shape, outChannels*kernelSize*kernelSize, rng)),
		bias:        NewParameter("bias", Zeros(tensor.Shape{outChannels})),
		backend:     backend,
	}
}

// Forward convolves input with the kernel and adds the bias.
func (c *Conv2D) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	shape := input.Shape()
	if len(shape) != 4 || shape[1] != c.inChannels {
		panic(fmt.Sprintf("Conv2D.Forward: expected [N, %d, H, W], got %v", c.inChannels, shape))
	}
	out := c.backend.Conv2D(input, c.weight.Tensor(), c.stride, c.padding)
	return c.backend.BiasAdd(out, c.bias.Tensor())
}

// Parameters returns [weight, bias].
func (c *Conv2D) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// Weight returns the kernel parameter.
func (c *Conv2D) Weight() *Parameter {
	return c.weight
}

// Bias returns the bias parameter.
func (c *Conv2D) Bias() *Parameter {
	return c.bias
}

// InChannels returns the number of input channels.
func (c *Conv2D) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv2D) OutChannels() int {
	return c.outChannels
}

func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(%d, %d, kernel_size=%d, stride=%d, padding=%d)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.padding)
}
