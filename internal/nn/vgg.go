package nn

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Pool marks a 2x2 max pooling layer in VGGConfig.Layers.
const Pool = -1

// VGGConfig describes a VGG-style network.
type VGGConfig struct {
	// Layers lists the output channels of each 3x3 convolution, with Pool
	// entries for the max pooling layers between blocks.
	Layers []int
	// InChannels is the number of input image channels.
	InChannels int
	// FeatureSize is the spatial side of the last feature map.
	FeatureSize int
	// Hidden is the width of the two hidden classifier layers.
	Hidden int
	// NumClasses is the number of output logits.
	NumClasses int
}

var vggLayers = map[string][]int{
	"vgg11": {64, Pool, 128, Pool, 256, 256, Pool, 512, 512, Pool, 512, 512, Pool},
	"vgg13": {64, 64, Pool, 128, 128, Pool, 256, 256, Pool, 512, 512, Pool, 512, 512, Pool},
	"vgg16": {64, 64, Pool, 128, 128, Pool, 256, 256, 256, Pool, 512, 512, 512, Pool, 512, 512, 512, Pool},
	"vgg19": {64, 64, Pool, 128, 128, Pool, 256, 256, 256, 256, Pool, 512, 512, 512, 512, Pool, 512, 512, 512, 512, Pool},
}

// ConfigFor returns the ImageNet configuration of a named architecture
// ("vgg11", "vgg13", "vgg16", "vgg19") for 224x224 inputs.
func ConfigFor(arch string) (VGGConfig, error) {
	layers, ok := vggLayers[strings.ToLower(arch)]
	if !ok {
		return VGGConfig{}, fmt.Errorf("%w: %q", ErrUnknownArch, arch)
	}
	return VGGConfig{
		Layers:      layers,
		InChannels:  3,
		FeatureSize: 7,
		Hidden:      4096,
		NumClasses:  1000,
	}, nil
}

// VGG is a convolutional feature stack followed by a fully connected
// classifier head. Its children are named "features" and "classifier".
type VGG struct {
	Features   *Sequential
	Classifier *Sequential
	backend    tensor.Backend
}

// NewVGG builds the network described by cfg with freshly initialized weights.
func NewVGG(cfg VGGConfig, backend tensor.Backend, rng *rand.Rand) *VGG {
	var features []Module
	channels := cfg.InChannels
	for _, v := range cfg.Layers {
		if v == Pool {
			features = append(features, NewMaxPool2D(2, 2, backend))
			continue
		}
		features = append(features, NewConv2D(channels, v, 3, 1, 1, backend, rng), NewReLU(backend))
		channels = v
	}

	flat := channels * cfg.FeatureSize * cfg.FeatureSize
	classifier := NewSequential(
		NewLinear(flat, cfg.Hidden, backend, rng),
		NewReLU(backend),
		NewDropout(0.5),
		NewLinear(cfg.Hidden, cfg.Hidden, backend, rng),
		NewReLU(backend),
		NewDropout(0.5),
		NewLinear(cfg.Hidden, cfg.NumClasses, backend, rng),
	)

	return &VGG{
		Features:   NewSequential(features...),
		Classifier: classifier,
		backend:    backend,
	}
}

// Forward runs features, flattens to [N, C*H*W] and runs the classifier.
func (v *VGG) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	return v.Classify(v.Features.Forward(input))
}

// Classify flattens a feature map and applies the classifier head.
func (v *VGG) Classify(features *tensor.RawTensor) *tensor.RawTensor {
	flat := v.backend.Reshape(features, features.Shape().Flatten())
	return v.Classifier.Forward(flat)
}

// Parameters returns feature parameters followed by classifier parameters.
func (v *VGG) Parameters() []*Parameter {
	return append(v.Features.Parameters(), v.Classifier.Parameters()...)
}

// Children returns the "features" and "classifier" containers.
func (v *VGG) Children() []Child {
	return []Child{
		{Name: "features", Module: v.Features},
		{Name: "classifier", Module: v.Classifier},
	}
}
