package gradcam

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Config configures the Grad-CAM combiner.
type Config struct {
	// ClampNegative zeroes negative saliency before normalization, as in the
	// published Grad-CAM formulation.
	ClampNegative bool
}

// DefaultConfig returns a configuration that keeps negative saliency.
func DefaultConfig() Config {
	return Config{}
}

// GradCAM turns the deepest tapped activation and its gradient into a
// class-discriminative saliency map.
type GradCAM struct {
	runner *Runner
	cfg    Config
}

// New creates a combiner over runner.
func New(runner *Runner, cfg Config) *GradCAM {
	return &GradCAM{runner: runner, cfg: cfg}
}

// Explain runs a forward pass on input and explains class index.
// A negative index selects the highest scoring class.
func (g *GradCAM) Explain(input *tensor.RawTensor, index int) (*mat.Dense, error) {
	pass, err := g.runner.Run(input)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		index = pass.ArgMax()
	}
	return g.ExplainPass(pass, index)
}

// ExplainPass explains class index from an already recorded pass.
// The map has the spatial size of the deepest tapped layer.
func (g *GradCAM) ExplainPass(pass *Pass, index int) (*mat.Dense, error) {
	if len(pass.Activations) == 0 {
		return nil, ErrNoActivations
	}
	if err := g.runner.Backward(pass, index); err != nil {
		return nil, err
	}

	last := len(pass.Activations) - 1
	grad := g.runner.Gradients()[last]
	if grad == nil {
		return nil, ErrNoGradient
	}
	return Saliency(pass.Activations[last], grad, g.cfg)
}

// Saliency combines an activation and its gradient, both [1, C, H, W], and
// normalizes the result to [0, 1].
func Saliency(activation, gradient *tensor.RawTensor, cfg Config) (*mat.Dense, error) {
	cam, err := Combine(activation, gradient)
	if err != nil {
		return nil, err
	}
	if cfg.ClampNegative {
		ClampNegative(cam)
	}
	return Normalize(cam)
}

// Combine weights every activation channel by the spatial mean of its
// gradient and sums the weighted channels into an H×W map.
func Combine(activation, gradient *tensor.RawTensor) (*mat.Dense, error) {
	shape := activation.Shape()
	if len(shape) != 4 || shape[0] != 1 {
		return nil, fmt.Errorf("gradcam: activation must be [1, C, H, W], got %v", shape)
	}
	if !gradient.Shape().Equal(shape) {
		return nil, fmt.Errorf("gradcam: gradient shape %v does not match activation %v", gradient.Shape(), shape)
	}

	channels, h, w := shape[1], shape[2], shape[3]
	plane := h * w
	acts, grads := activation.Data(), gradient.Data()

	cam := make([]float64, plane)
	buf := make([]float64, plane)
	for c := 0; c < channels; c++ {
		copyFloat64(buf, grads[c*plane:(c+1)*plane])
		weight := floats.Sum(buf) / float64(plane)
		if weight == 0 {
			continue
		}
		copyFloat64(buf, acts[c*plane:(c+1)*plane])
		floats.AddScaled(cam, weight, buf)
	}
	return mat.NewDense(h, w, cam), nil
}

// ClampNegative sets negative entries of m to zero in place.
func ClampNegative(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}, m)
}

// Normalize returns (m - min(m)) / max(m - min(m)).
// A map without range yields ErrFlatSaliency.
func Normalize(m *mat.Dense) (*mat.Dense, error) {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}

	floats.AddConst(-floats.Min(data), data)
	peak := floats.Max(data)
	if !(peak > 0) {
		return nil, ErrFlatSaliency
	}
	for i := range data {
		data[i] /= peak
	}
	return mat.NewDense(r, c, data), nil
}

func copyFloat64(dst []float64, src []float32) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}
