package tensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  int
	}{
		{"scalar", Shape{}, 1},
		{"vector", Shape{5}, 5},
		{"image", Shape{1, 3, 224, 224}, 150528},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shape.NumElements())
		})
	}
}

func TestShape_Flatten(t *testing.T) {
	assert.Equal(t, Shape{2, 512 * 7 * 7}, Shape{2, 512, 7, 7}.Flatten())
	assert.Equal(t, Shape{6}, Shape{6}.Flatten())

	h, w := Shape{1, 512, 14, 14}.Spatial()
	assert.Equal(t, 14, h)
	assert.Equal(t, 14, w)
}

func TestNewRaw_InvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, CPU)
	require.Error(t, err)
}

func TestRawTensor_At(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, CPU)
	require.NoError(t, err)

	assert.Equal(t, float32(1), x.At(0, 0))
	assert.Equal(t, float32(6), x.At(1, 2))
	assert.Panics(t, func() { x.At(2, 0) })
}

func TestRawTensor_View(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, CPU)
	require.NoError(t, err)

	v, err := x.View(Shape{4})
	require.NoError(t, err)
	v.Data()[0] = 10
	assert.Equal(t, float32(10), x.At(0, 0), "view shares data")

	_, err = x.View(Shape{3})
	require.Error(t, err)
}

func TestRawTensor_AccumulateGrad(t *testing.T) {
	x, err := Zeros(Shape{3}, CPU)
	require.NoError(t, err)
	x.SetRequiresGrad(true)
	assert.True(t, x.IsLeaf())

	g, err := FromSlice([]float32{1, 2, 3}, Shape{3}, CPU)
	require.NoError(t, err)

	x.AccumulateGrad(g)
	x.AccumulateGrad(g)
	assert.Equal(t, []float32{2, 4, 6}, x.Grad().Data())

	g.Data()[0] = 100
	assert.Equal(t, float32(2), x.Grad().Data()[0], "gradient is copied on first accumulate")

	x.ZeroGrad()
	assert.Nil(t, x.Grad())
}

func TestRandn_Deterministic(t *testing.T) {
	a, err := Randn(Shape{4, 4}, rand.New(rand.NewSource(7)), CPU)
	require.NoError(t, err)
	b, err := Randn(Shape{4, 4}, rand.New(rand.NewSource(7)), CPU)
	require.NoError(t, err)
	assert.Equal(t, a.Data(), b.Data())
}

func TestOneHot(t *testing.T) {
	sel, err := OneHot(5, 3, CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 5}, sel.Shape())
	assert.Equal(t, []float32{0, 0, 0, 1, 0}, sel.Data())

	_, err = OneHot(5, 5, CPU)
	require.Error(t, err)
}
