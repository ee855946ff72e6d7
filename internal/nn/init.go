package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/gradcam/internal/tensor"
)

// KaimingNormal draws weights from N(0, 2/fanOut), the rectifier-aware
// initialization VGG uses for its convolutions.
func KaimingNormal(shape tensor.Shape, fanOut int, rng *rand.Rand) *tensor.RawTensor {
	return Normal(shape, math.Sqrt(2.0/float64(fanOut)), rng)
}

// Normal draws weights from N(0, std²).
func Normal(shape tensor.Shape, std float64, rng *rand.Rand) *tensor.RawTensor {
	t := tensor.MustRaw(shape, tensor.CPU)
	data := t.Data()
	for i := range data {
		data[i] = float32(rng.NormFloat64() * std)
	}
	return t
}

// Zeros creates a zero tensor, used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.RawTensor {
	return tensor.MustRaw(shape, tensor.CPU)
}
