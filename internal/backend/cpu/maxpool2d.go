package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
)

type poolGeometry struct {
	n, c, h, w int
	hOut, wOut int
	k, stride  int
}

func newPoolGeometry(op string, shape tensor.Shape, kernelSize, stride int) poolGeometry {
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D input [N,C,H,W], got %dD", op, len(shape)))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("%s: invalid kernel size %d", op, kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("%s: invalid stride %d", op, stride))
	}
	g := poolGeometry{n: shape[0], c: shape[1], h: shape[2], w: shape[3], k: kernelSize, stride: stride}
	if kernelSize > g.h || kernelSize > g.w {
		panic(fmt.Sprintf("%s: kernel size %d too large for input %dx%d", op, kernelSize, g.h, g.w))
	}
	g.hOut = (g.h-kernelSize)/stride + 1
	g.wOut = (g.w-kernelSize)/stride + 1
	return g
}

// argmax returns the flat plane index of the largest value in the window at
// (outH, outW). Ties resolve to the first position in row-major order.
func (g poolGeometry) argmax(plane []float32, outH, outW int) int {
	hStart, wStart := outH*g.stride, outW*g.stride
	best := hStart*g.w + wStart
	for kh := 0; kh < g.k; kh++ {
		for kw := 0; kw < g.k; kw++ {
			idx := (hStart+kh)*g.w + wStart + kw
			if plane[idx] > plane[best] {
				best = idx
			}
		}
	}
	return best
}

// MaxPool2D performs 2D max pooling.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, (height-k)/stride+1, (width-k)/stride+1]
//
// Example (2x2 pool, stride=2):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	g := newPoolGeometry("maxpool2d", input.Shape(), kernelSize, stride)
	output := cpu.alloc("maxpool2d", tensor.Shape{g.n, g.c, g.hOut, g.wOut})

	in, out := input.Data(), output.Data()
	plane, outPlane := g.h*g.w, g.hOut*g.wOut

	parallel.For(g.n*g.c, cpu.par, func(p int) {
		src := in[p*plane : (p+1)*plane]
		dst := out[p*outPlane : (p+1)*outPlane]
		for outH := 0; outH < g.hOut; outH++ {
			for outW := 0; outW < g.wOut; outW++ {
				dst[outH*g.wOut+outW] = src[g.argmax(src, outH, outW)]
			}
		}
	})

	return output
}

// MaxPool2DBackward routes each output gradient to the input position that
// won its window in the forward pass. Overlapping windows accumulate.
func (cpu *CPUBackend) MaxPool2DBackward(input, grad *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	g := newPoolGeometry("maxpool2d_backward", input.Shape(), kernelSize, stride)
	inputGrad := cpu.alloc("maxpool2d_backward", input.Shape())

	in, gd, dst := input.Data(), grad.Data(), inputGrad.Data()
	plane, outPlane := g.h*g.w, g.hOut*g.wOut

	parallel.For(g.n*g.c, cpu.par, func(p int) {
		src := in[p*plane : (p+1)*plane]
		gp := gd[p*outPlane : (p+1)*outPlane]
		dp := dst[p*plane : (p+1)*plane]
		for outH := 0; outH < g.hOut; outH++ {
			for outW := 0; outW < g.wOut; outW++ {
				dp[g.argmax(src, outH, outW)] += gp[outH*g.wOut+outW]
			}
		}
	})

	return inputGrad
}
