package cpu

import (
	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
)

// Conv2DInputBackward computes the gradient w.r.t. the convolution input
// (transposed convolution of grad with the kernel).
//
// For each input position (n, c_in, h, w) it sums
// grad[n, c_out, h_out, w_out] * kernel[c_out, c_in, kh, kw] over every output
// position whose window covered it. Work is split per input channel so each
// worker owns one gradient plane.
func (cpu *CPUBackend) Conv2DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConvGeometry("conv2d_input_backward", input.Shape(), kernel.Shape(), stride, padding)
	inputGrad := cpu.alloc("conv2d_input_backward", input.Shape())

	gradData := grad.Data()
	kernelData := kernel.Data()
	inputGradData := inputGrad.Data()
	plane := g.h * g.w
	outPlane := g.hOut * g.wOut
	kernelPlane := g.kH * g.kW

	parallel.For(g.n*g.cIn, cpu.par, func(job int) {
		b, ci := job/g.cIn, job%g.cIn
		dst := inputGradData[(b*g.cIn+ci)*plane : (b*g.cIn+ci+1)*plane]

		for co := 0; co < g.cOut; co++ {
			src := gradData[(b*g.cOut+co)*outPlane : (b*g.cOut+co+1)*outPlane]
			k := kernelData[(co*g.cIn+ci)*kernelPlane : (co*g.cIn+ci+1)*kernelPlane]

			for outH := 0; outH < g.hOut; outH++ {
				for outW := 0; outW < g.wOut; outW++ {
					gv := src[outH*g.wOut+outW]
					if gv == 0 {
						continue
					}
					hStart := outH*g.stride - g.padding
					wStart := outW*g.stride - g.padding
					for kh := 0; kh < g.kH; kh++ {
						y := hStart + kh
						if y < 0 || y >= g.h {
							continue
						}
						for kw := 0; kw < g.kW; kw++ {
							x := wStart + kw
							if x < 0 || x >= g.w {
								continue
							}
							dst[y*g.w+x] += gv * k[kh*g.kW+kw]
						}
					}
				}
			}
		}
	})

	return inputGrad
}

// Conv2DKernelBackward computes the gradient w.r.t. the kernel
// (correlation of the input with grad). Work is split per output channel.
func (cpu *CPUBackend) Conv2DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConvGeometry("conv2d_kernel_backward", input.Shape(), kernel.Shape(), stride, padding)
	kernelGrad := cpu.alloc("conv2d_kernel_backward", kernel.Shape())

	inputData := input.Data()
	gradData := grad.Data()
	kernelGradData := kernelGrad.Data()
	plane := g.h * g.w
	outPlane := g.hOut * g.wOut
	kernelPlane := g.kH * g.kW

	parallel.For(g.cOut, cpu.par, func(co int) {
		for b := 0; b < g.n; b++ {
			src := gradData[(b*g.cOut+co)*outPlane : (b*g.cOut+co+1)*outPlane]
			for ci := 0; ci < g.cIn; ci++ {
				img := inputData[(b*g.cIn+ci)*plane : (b*g.cIn+ci+1)*plane]
				dst := kernelGradData[(co*g.cIn+ci)*kernelPlane : (co*g.cIn+ci+1)*kernelPlane]

				for kh := 0; kh < g.kH; kh++ {
					for kw := 0; kw < g.kW; kw++ {
						var acc float32
						for outH := 0; outH < g.hOut; outH++ {
							y := outH*g.stride - g.padding + kh
							if y < 0 || y >= g.h {
								continue
							}
							for outW := 0; outW < g.wOut; outW++ {
								x := outW*g.stride - g.padding + kw
								if x < 0 || x >= g.w {
									continue
								}
								acc += src[outH*g.wOut+outW] * img[y*g.w+x]
							}
						}
						dst[kh*g.kW+kw] += acc
					}
				}
			}
		}
	})

	return kernelGrad
}
