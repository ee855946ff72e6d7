package imaging

import (
	"image"

	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/mat"
)

// ResizeMap resizes a saliency map with values in [0, 1] to width×height
// using bilinear interpolation. Values are carried at 16-bit precision.
func ResizeMap(m *mat.Dense, width, height int) *mat.Dense {
	rows, cols := m.Dims()
	gray := image.NewGray16(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := m.At(y, x)
			var q uint16
			switch {
			case v >= 1:
				q = 0xffff
			case v > 0:
				q = uint16(v*0xffff + 0.5)
			}
			off := gray.PixOffset(x, y)
			gray.Pix[off] = uint8(q >> 8)
			gray.Pix[off+1] = uint8(q)
		}
	}

	resized := resize.Resize(uint(width), uint(height), gray, resize.Bilinear)
	out := mat.NewDense(height, width, nil)
	b := resized.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := resized.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Set(y, x, float64(r)/0xffff)
		}
	}
	return out
}
