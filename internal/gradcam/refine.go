package gradcam

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Refine multiplies every channel of a guided gradient [C, H, W] by a
// saliency map already resized to H×W, giving guided Grad-CAM.
func Refine(cam *mat.Dense, guided *tensor.RawTensor) (*tensor.RawTensor, error) {
	shape := guided.Shape()
	if len(shape) != 3 {
		return nil, fmt.Errorf("gradcam: guided gradient must be [C, H, W], got %v", shape)
	}
	h, w := shape.Spatial()
	if r, c := cam.Dims(); r != h || c != w {
		return nil, fmt.Errorf("gradcam: saliency map is %dx%d, guided gradient is %dx%d", r, c, h, w)
	}

	mask := make([]float64, 0, h*w)
	for i := 0; i < h; i++ {
		mask = append(mask, cam.RawRowView(i)...)
	}

	out := tensor.MustRaw(shape, guided.Device())
	src, dst := guided.Data(), out.Data()
	plane := h * w
	buf := make([]float64, plane)
	for c := 0; c < shape[0]; c++ {
		copyFloat64(buf, src[c*plane:(c+1)*plane])
		floats.Mul(buf, mask)
		for i, v := range buf {
			dst[c*plane+i] = float32(v)
		}
	}
	return out, nil
}
