// Package imaging loads images into network input tensors and writes
// explanation overlays back to disk.
package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/nfnt/resize"
)

// InputSize is the side length networks in this module are fed.
const InputSize = 224

// ImageNet normalization constants, in RGB order.
var (
	Mean = [3]float32{0.485, 0.456, 0.406}
	Std  = [3]float32{0.229, 0.224, 0.225}
)

// Image is an interleaved, row-major float image with values in [0, 1].
// Three channel images are stored in BGR order.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []float32
}

// At returns channel c of pixel (x, y).
func (m *Image) At(x, y, c int) float32 {
	return m.Pix[(y*m.Width+x)*m.Channels+c]
}

// Load decodes a JPEG or PNG file and resizes it to size×size.
func Load(path string, size int) (*Image, error) {
	//nolint:gosec // G304: image path is user input.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img, size), nil
}

// FromImage resizes img to size×size with bilinear interpolation and
// converts it to a BGR float image. Values are quantized to 8 bits first,
// as a decoded JPEG would be.
func FromImage(img image.Image, size int) *Image {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	bounds := resized.Bounds()

	out := &Image{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: 3,
		Pix:      make([]float32, 3*bounds.Dx()*bounds.Dy()),
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			out.Pix[i] = float32(b>>8) / 255
			out.Pix[i+1] = float32(g>>8) / 255
			out.Pix[i+2] = float32(r>>8) / 255
			i += 3
		}
	}
	return out
}

// Preprocess converts a BGR image to a normalized [1, 3, H, W] RGB tensor
// that tracks gradients, so backpropagation can reach the input.
func Preprocess(img *Image) (*tensor.RawTensor, error) {
	if img.Channels != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrChannels, img.Channels)
	}
	if len(img.Pix) != 3*img.Width*img.Height {
		return nil, fmt.Errorf("%w: %d values for %dx%d pixels", ErrSize, len(img.Pix), img.Width, img.Height)
	}

	t, err := tensor.NewRaw(tensor.Shape{1, 3, img.Height, img.Width}, tensor.CPU)
	if err != nil {
		return nil, err
	}
	plane := img.Width * img.Height
	data := t.Data()
	for p := 0; p < plane; p++ {
		for c := 0; c < 3; c++ {
			v := img.Pix[3*p+2-c]
			data[c*plane+p] = (v - Mean[c]) / Std[c]
		}
	}
	return t.SetRequiresGrad(true), nil
}
