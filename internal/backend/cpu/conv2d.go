package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
)

// convGeometry holds the dimensions shared by the forward and backward kernels.
type convGeometry struct {
	n, cIn, h, w    int
	cOut, kH, kW    int
	hOut, wOut      int
	stride, padding int
}

func newConvGeometry(op string, inputShape, kernelShape tensor.Shape, stride, padding int) convGeometry {
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("%s: input must be 4D [N,C,H,W], got %dD", op, len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("%s: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", op, len(kernelShape)))
	}
	if inputShape[1] != kernelShape[1] {
		panic(fmt.Sprintf("%s: input channels %d != kernel channels %d", op, inputShape[1], kernelShape[1]))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("%s: invalid stride %d", op, stride))
	}

	g := convGeometry{
		n: inputShape[0], cIn: inputShape[1], h: inputShape[2], w: inputShape[3],
		cOut: kernelShape[0], kH: kernelShape[2], kW: kernelShape[3],
		stride: stride, padding: padding,
	}
	// out = (in + 2*padding - k) / stride + 1
	g.hOut = (g.h+2*padding-g.kH)/stride + 1
	g.wOut = (g.w+2*padding-g.kW)/stride + 1
	if g.hOut <= 0 || g.wOut <= 0 {
		panic(fmt.Sprintf("%s: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", op, g.hOut, g.wOut))
	}
	return g
}

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Per batch item the input patches are unrolled into a column buffer of
// [H_out*W_out, C_in*K_h*K_w]; each output channel is then a row of dot
// products against the flattened kernel.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConvGeometry("conv2d", input.Shape(), kernel.Shape(), stride, padding)
	output := cpu.alloc("conv2d", tensor.Shape{g.n, g.cOut, g.hOut, g.wOut})

	inputData := input.Data()
	kernelData := kernel.Data()
	outputData := output.Data()

	colWidth := g.cIn * g.kH * g.kW
	positions := g.hOut * g.wOut
	colBuf := make([]float32, positions*colWidth)

	for b := 0; b < g.n; b++ {
		im2col(colBuf, inputData[b*g.cIn*g.h*g.w:(b+1)*g.cIn*g.h*g.w], g)
		outBatch := outputData[b*g.cOut*positions : (b+1)*g.cOut*positions]

		parallel.For(g.cOut, cpu.par, func(co int) {
			k := kernelData[co*colWidth : (co+1)*colWidth]
			out := outBatch[co*positions : (co+1)*positions]
			for p := 0; p < positions; p++ {
				col := colBuf[p*colWidth : (p+1)*colWidth]
				var sum float32
				for i, kv := range k {
					sum += kv * col[i]
				}
				out[p] = sum
			}
		})
	}

	return output
}

// im2col unrolls one [C, H, W] image into colBuf [H_out*W_out, C*K_h*K_w].
// Out-of-bounds (padding) positions are written as zero.
func im2col(colBuf, image []float32, g convGeometry) {
	colWidth := g.cIn * g.kH * g.kW
	row := 0
	for outH := 0; outH < g.hOut; outH++ {
		for outW := 0; outW < g.wOut; outW++ {
			hStart := outH*g.stride - g.padding
			wStart := outW*g.stride - g.padding
			idx := row * colWidth
			for c := 0; c < g.cIn; c++ {
				plane := image[c*g.h*g.w : (c+1)*g.h*g.w]
				for kh := 0; kh < g.kH; kh++ {
					y := hStart + kh
					for kw := 0; kw < g.kW; kw++ {
						x := wStart + kw
						if y >= 0 && y < g.h && x >= 0 && x < g.w {
							colBuf[idx] = plane[y*g.w+x]
						} else {
							colBuf[idx] = 0
						}
						idx++
					}
				}
			}
			row++
		}
	}
}
