package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Sequential is an ordered container of named child modules.
//
// Modules are applied in order, with the output of each module becoming the
// input of the next:
//
//	output = module_n(...module_2(module_1(input)))
//
// Children created with NewSequential are named by their position ("0", "1",
// ...), which is how pretrained checkpoints address them.
type Sequential struct {
	children []Child
}

// NewSequential creates a container whose children are named by index.
func NewSequential(modules ...Module) *Sequential {
	children := make([]Child, len(modules))
	for i, m := range modules {
		children[i] = Child{Name: strconv.Itoa(i), Module: m}
	}
	return &Sequential{children: children}
}

// Forward runs every child in order.
func (s *Sequential) Forward(input *tensor.RawTensor) *tensor.RawTensor {
	output := input
	for _, c := range s.children {
		output = c.Module.Forward(output)
	}
	return output
}

// Parameters returns the parameters of all children in order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, c := range s.children {
		params = append(params, c.Module.Parameters()...)
	}
	return params
}

// Children returns the named children in execution order.
func (s *Sequential) Children() []Child {
	return s.children
}

// Len returns the number of children.
func (s *Sequential) Len() int {
	return len(s.children)
}

// Get returns the child registered under name.
func (s *Sequential) Get(name string) (Module, bool) {
	for _, c := range s.children {
		if c.Name == name {
			return c.Module, true
		}
	}
	return nil, false
}

// Replace returns a new container in which every child matched by match is
// swapped for build(child). Unmatched children are shared with s, names are
// preserved, and s itself is left unchanged.
//
//	guided := features.Replace(nn.IsReLU, func(nn.Module) nn.Module {
//	    return nn.NewGuidedReLU(backend)
//	})
func (s *Sequential) Replace(match func(Module) bool, build func(Module) Module) *Sequential {
	children := make([]Child, len(s.children))
	for i, c := range s.children {
		children[i] = c
		if match(c.Module) {
			children[i].Module = build(c.Module)
		}
	}
	return &Sequential{children: children}
}

// GuidedFeatures returns a copy of features in which every plain ReLU is
// replaced by a GuidedReLU recording on backend. Parameters are shared.
func GuidedFeatures(features *Sequential, backend tensor.Backend) *Sequential {
	return features.Replace(IsReLU, func(Module) Module {
		return NewGuidedReLU(backend)
	})
}

// IsReLU reports whether m is a plain rectifier.
func IsReLU(m Module) bool {
	_, ok := m.(*ReLU)
	return ok
}

func (s *Sequential) String() string {
	var b strings.Builder
	b.WriteString("Sequential(\n")
	for _, c := range s.children {
		fmt.Fprintf(&b, "  (%s): %v\n", c.Name, c.Module)
	}
	b.WriteString(")")
	return b.String()
}
