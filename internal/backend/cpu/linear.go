package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/parallel"
	"github.com/born-ml/gradcam/internal/tensor"
)

// linearBlock is the number of input features one backward worker owns.
const linearBlock = 512

func linearDims(op string, xShape, wShape tensor.Shape) (n, in, out int) {
	if len(xShape) != 2 || len(wShape) != 2 {
		panic(fmt.Sprintf("%s: expected 2D input and weight, got %v and %v", op, xShape, wShape))
	}
	if xShape[1] != wShape[1] {
		panic(fmt.Sprintf("%s: input has %d features, weight expects %d", op, xShape[1], wShape[1]))
	}
	return xShape[0], xShape[1], wShape[0]
}

// Linear computes x @ weightᵀ.
//
// x is [N, in], weight is [out, in] (row per output feature, the layout
// checkpoints store), result is [N, out]. Rows of weight are read
// contiguously, so no transposed copy of the weight is ever made.
func (cpu *CPUBackend) Linear(x, weight *tensor.RawTensor) *tensor.RawTensor {
	n, in, out := linearDims("linear", x.Shape(), weight.Shape())
	result := cpu.alloc("linear", tensor.Shape{n, out})

	xd, wd, rd := x.Data(), weight.Data(), result.Data()
	parallel.For(out, cpu.par, func(o int) {
		row := wd[o*in : (o+1)*in]
		for b := 0; b < n; b++ {
			xr := xd[b*in : (b+1)*in]
			var sum float32
			for i, wv := range row {
				sum += wv * xr[i]
			}
			rd[b*out+o] = sum
		}
	})
	return result
}

// LinearInputBackward computes grad @ weight, the gradient w.r.t. x.
func (cpu *CPUBackend) LinearInputBackward(weight, grad *tensor.RawTensor) *tensor.RawTensor {
	wShape, gShape := weight.Shape(), grad.Shape()
	if len(gShape) != 2 || gShape[1] != wShape[0] {
		panic(fmt.Sprintf("linear_input_backward: grad %v does not match weight %v", gShape, wShape))
	}
	n, out, in := gShape[0], wShape[0], wShape[1]
	result := cpu.alloc("linear_input_backward", tensor.Shape{n, in})

	wd, gd, rd := weight.Data(), grad.Data(), result.Data()
	blocks := (in + linearBlock - 1) / linearBlock
	parallel.For(blocks, cpu.par, func(blk int) {
		lo, hi := blk*linearBlock, min((blk+1)*linearBlock, in)
		for b := 0; b < n; b++ {
			dst := rd[b*in+lo : b*in+hi]
			for o := 0; o < out; o++ {
				gv := gd[b*out+o]
				if gv == 0 {
					continue
				}
				row := wd[o*in+lo : o*in+hi]
				for i, wv := range row {
					dst[i] += gv * wv
				}
			}
		}
	})
	return result
}

// LinearWeightBackward computes gradᵀ @ x, the gradient w.r.t. weight.
func (cpu *CPUBackend) LinearWeightBackward(x, grad *tensor.RawTensor) *tensor.RawTensor {
	xShape, gShape := x.Shape(), grad.Shape()
	if len(gShape) != 2 || len(xShape) != 2 || gShape[0] != xShape[0] {
		panic(fmt.Sprintf("linear_weight_backward: grad %v does not match input %v", gShape, xShape))
	}
	n, in, out := xShape[0], xShape[1], gShape[1]
	result := cpu.alloc("linear_weight_backward", tensor.Shape{out, in})

	xd, gd, rd := x.Data(), grad.Data(), result.Data()
	parallel.For(out, cpu.par, func(o int) {
		dst := rd[o*in : (o+1)*in]
		for b := 0; b < n; b++ {
			gv := gd[b*out+o]
			if gv == 0 {
				continue
			}
			xr := xd[b*in : (b+1)*in]
			for i, xv := range xr {
				dst[i] += gv * xv
			}
		}
	})
	return result
}
