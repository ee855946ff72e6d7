package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/gradcam/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, _, err := image.Decode(file)
	require.NoError(t, err)
	return img
}

func TestLoad_ResizesAndSwapsToBGR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, solid(40, 30, color.RGBA{R: 255, A: 255})))
	require.NoError(t, file.Close())

	img, err := Load(path, InputSize)
	require.NoError(t, err)
	assert.Equal(t, InputSize, img.Width)
	assert.Equal(t, InputSize, img.Height)
	assert.Equal(t, 3, img.Channels)
	assert.InDelta(t, 0, img.At(10, 10, 0), 1e-6)
	assert.InDelta(t, 0, img.At(10, 10, 1), 1e-6)
	assert.InDelta(t, 1, img.At(10, 10, 2), 1e-6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.jpg"), InputSize)
	assert.Error(t, err)
}

func TestPreprocess(t *testing.T) {
	// Blue in BGR order: (1, 0, 0).
	img := FromImage(solid(8, 8, color.RGBA{B: 255, A: 255}), 4)

	x, err := Preprocess(img)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 3, 4, 4}, x.Shape())
	assert.True(t, x.RequiresGrad())
	assert.True(t, x.IsLeaf())

	assert.InDelta(t, (0-0.485)/0.229, x.At(0, 0, 1, 1), 1e-5)
	assert.InDelta(t, (0-0.456)/0.224, x.At(0, 1, 1, 1), 1e-5)
	assert.InDelta(t, (1-0.406)/0.225, x.At(0, 2, 1, 1), 1e-5)
}

func TestPreprocess_RejectsNonRGB(t *testing.T) {
	gray := &Image{Width: 2, Height: 2, Channels: 1, Pix: make([]float32, 4)}
	_, err := Preprocess(gray)
	assert.ErrorIs(t, err, ErrChannels)

	rgba := &Image{Width: 2, Height: 2, Channels: 4, Pix: make([]float32, 16)}
	_, err = Preprocess(rgba)
	assert.ErrorIs(t, err, ErrChannels)
}

func TestResizeMap(t *testing.T) {
	flat := mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5})
	out := ResizeMap(flat, 6, 4)
	r, c := out.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 6, c)
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			assert.InDelta(t, 0.5, out.At(y, x), 1e-4)
		}
	}

	ramp := ResizeMap(mat.NewDense(1, 2, []float64{0, 1}), 8, 1)
	assert.Less(t, ramp.At(0, 0), ramp.At(0, 7))
	assert.GreaterOrEqual(t, ramp.At(0, 0), 0.0)
	assert.LessOrEqual(t, ramp.At(0, 7), 1.0)
}

func TestJet(t *testing.T) {
	r, g, b := Jet(0).RGB255()
	assert.Equal(t, [3]uint8{0, 0, 128}, [3]uint8{r, g, b})
	r, g, b = Jet(255).RGB255()
	assert.Equal(t, [3]uint8{128, 0, 0}, [3]uint8{r, g, b})
	_, g, _ = Jet(128).RGB255()
	assert.Equal(t, uint8(255), g)
}

func TestHeat_IncreasesInLightness(t *testing.T) {
	l0, _, _ := Heat(0).Lab()
	l1, _, _ := Heat(255).Lab()
	assert.Less(t, l0, l1)
}

func TestHeat_Endpoints(t *testing.T) {
	assert.Equal(t, "#03051a", Heat(0).Hex())
	assert.Equal(t, "#faebdd", Heat(255).Hex())
	assert.Equal(t, "#a11a5b", mustHex("#a11a5b").Hex())
	assert.Panics(t, func() { mustHex("not-a-color") })
}

func TestWriteCAM(t *testing.T) {
	img := FromImage(solid(8, 8, color.Gray{Y: 128}), 8)
	cam := mat.NewDense(2, 2, []float64{0, 0.25, 0.75, 1})

	path := filepath.Join(t.TempDir(), OutputName("dog", 0, 7, KindCAM))
	require.NoError(t, WriteCAM(path, img, cam))

	out := decode(t, path)
	assert.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())
}

func TestWriteHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heat.png")
	require.NoError(t, WriteHeatmap(path, mat.NewDense(3, 2, []float64{0, 0.2, 0.4, 0.6, 0.8, 1})))

	out := decode(t, path)
	assert.Equal(t, heatMargin+2*heatCell+heatGap+heatBarW+heatMargin, out.Bounds().Dx())
	assert.Equal(t, heatMargin+3*heatCell+heatMargin, out.Bounds().Dy())

	// Top-left cell holds the minimum, bottom-right the maximum.
	dark := color.RGBAModel.Convert(out.At(heatMargin+1, heatMargin+1)).(color.RGBA)
	light := color.RGBAModel.Convert(out.At(heatMargin+2*heatCell-2, heatMargin+3*heatCell-2)).(color.RGBA)
	assert.Less(t, int(dark.R)+int(dark.G)+int(dark.B), int(light.R)+int(light.G)+int(light.B))
}

func TestWriteTensor(t *testing.T) {
	data := make([]float32, 3*2*2)
	for i := 0; i < 4; i++ {
		data[i] = 1     // red
		data[4+i] = -1  // green clamps to 0
		data[8+i] = 0.5 // blue: 0.5*255+0.5 = 128
	}
	x, err := tensor.FromSlice(data, tensor.Shape{3, 2, 2}, tensor.CPU)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "gbp.png")
	require.NoError(t, WriteTensor(path, x))

	px := color.RGBAModel.Convert(decode(t, path).At(1, 1)).(color.RGBA)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 128, A: 255}, px)

	bad := tensor.MustRaw(tensor.Shape{1, 2, 2}, tensor.CPU)
	assert.ErrorIs(t, WriteTensor(path, bad), ErrChannels)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "000004", BaseName("./examples/000004.jpg"))
	assert.Equal(t, "cat", BaseName("/tmp/cat.test.png"))
	assert.Equal(t, "000004@2@Class281@GBP.jpg", OutputName("000004", 2, 281, KindGBP))
	assert.Equal(t, "x@0@Class007@Heatmap.jpg", OutputName("x", 0, 7, KindHeatmap))
}
