package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/gradcam/internal/tensor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kind names an output image of an explanation.
type Kind string

// Output kinds.
const (
	KindCAM     Kind = "CAM"
	KindHeatmap Kind = "Heatmap"
	KindGBP     Kind = "GBP"
	KindRES     Kind = "RES"
)

// BaseName returns the file name of path up to its first dot.
func BaseName(path string) string {
	name, _, _ := strings.Cut(filepath.Base(path), ".")
	return name
}

// OutputName returns "{base}@{rank}@Class{index:03d}@{kind}.jpg".
func OutputName(base string, rank, index int, kind Kind) string {
	return fmt.Sprintf("%s@%d@Class%03d@%s.jpg", base, rank, index, kind)
}

// WriteCAM overlays a saliency map on img and writes the composite.
//
// The map is resized to the image, colored with the jet scale and added to
// the image; the sum is divided by its maximum before quantization.
func WriteCAM(path string, img *Image, cam *mat.Dense) error {
	if img.Channels != 3 {
		return fmt.Errorf("%w: got %d", ErrChannels, img.Channels)
	}
	mask := ResizeMap(cam, img.Width, img.Height)

	sum := make([]float64, 3*img.Width*img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := Jet(quantize(mask.At(y, x)))
			i := 3 * (y*img.Width + x)
			sum[i] = c.R + float64(img.At(x, y, 2))
			sum[i+1] = c.G + float64(img.At(x, y, 1))
			sum[i+2] = c.B + float64(img.At(x, y, 0))
		}
	}
	if peak := floats.Max(sum); peak > 0 {
		floats.Scale(1/peak, sum)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for p := 0; p < img.Width*img.Height; p++ {
		out.Pix[4*p] = quantize(sum[3*p])
		out.Pix[4*p+1] = quantize(sum[3*p+1])
		out.Pix[4*p+2] = quantize(sum[3*p+2])
		out.Pix[4*p+3] = 0xff
	}
	return save(path, out)
}

// Heat-map layout, in pixels.
const (
	heatCell   = 16
	heatGap    = 8
	heatBarW   = 16
	heatMargin = 4
)

// WriteHeatmap renders the raw cells of a saliency map as colored blocks
// with a color bar on the right, scaled between the map's minimum and
// maximum.
func WriteHeatmap(path string, m *mat.Dense) error {
	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: empty saliency map", ErrSize)
	}
	lo, hi := mat.Min(m), mat.Max(m)
	span := hi - lo

	gridW, gridH := cols*heatCell, rows*heatCell
	width := heatMargin + gridW + heatGap + heatBarW + heatMargin
	height := heatMargin + gridH + heatMargin
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(out, out.Bounds(), color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := 0.0
			if span > 0 {
				v = (m.At(r, c) - lo) / span
			}
			x0, y0 := heatMargin+c*heatCell, heatMargin+r*heatCell
			fill(out, image.Rect(x0, y0, x0+heatCell, y0+heatCell), rgba(Heat(quantize(v)).RGB255()))
		}
	}

	barX := heatMargin + gridW + heatGap
	for y := 0; y < gridH; y++ {
		v := 1.0
		if gridH > 1 {
			v = 1 - float64(y)/float64(gridH-1)
		}
		fill(out, image.Rect(barX, heatMargin+y, barX+heatBarW, heatMargin+y+1), rgba(Heat(quantize(v)).RGB255()))
	}
	return save(path, out)
}

// WriteTensor writes a [3, H, W] tensor as an RGB image, mapping v to
// clamp(v*255 + 0.5, 0, 255). Channel 0 is red.
func WriteTensor(path string, t *tensor.RawTensor) error {
	shape := t.Shape()
	if len(shape) != 3 || shape[0] != 3 {
		return fmt.Errorf("%w: expected [3, H, W], got %v", ErrChannels, shape)
	}
	h, w := shape.Spatial()
	plane := h * w
	data := t.Data()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for p := 0; p < plane; p++ {
		for c := 0; c < 3; c++ {
			out.Pix[4*p+c] = toByte(data[c*plane+p])
		}
		out.Pix[4*p+3] = 0xff
	}
	return save(path, out)
}

func toByte(v float32) uint8 {
	s := v*255 + 0.5
	switch {
	case s <= 0 || s != s:
		return 0
	case s >= 255:
		return 255
	default:
		return uint8(s)
	}
}

func rgba(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func fill(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// save encodes img as PNG when path ends in .png and as JPEG otherwise.
func save(path string, img image.Image) error {
	//nolint:gosec // G304: output path is built from user input.
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = png.Encode(file, img)
	} else {
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
