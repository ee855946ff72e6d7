package nn

import (
	"fmt"
	"sort"

	"github.com/born-ml/gradcam/internal/tensor"
)

// NamedParameters returns every parameter of m keyed by its dotted path,
// e.g. "features.0.weight" or "classifier.6.bias".
func NamedParameters(m Module) map[string]*Parameter {
	named := make(map[string]*Parameter)
	collect("", m, named)
	return named
}

func collect(prefix string, m Module, into map[string]*Parameter) {
	if c, ok := m.(Container); ok {
		for _, child := range c.Children() {
			collect(prefix+child.Name+".", child.Module, into)
		}
		return
	}
	for _, p := range m.Parameters() {
		into[prefix+p.Name()] = p
	}
}

// StateDict returns the parameter tensors of m keyed by dotted path.
// The tensors are shared with the module, not copied.
func StateDict(m Module) map[string]*tensor.RawTensor {
	named := NamedParameters(m)
	state := make(map[string]*tensor.RawTensor, len(named))
	for name, p := range named {
		state[name] = p.Tensor()
	}
	return state
}

// LoadStateDict copies tensors from state into the parameters of m.
//
// Every parameter must be present with a matching shape. When strict is true,
// entries of state that match no parameter are an error as well.
func LoadStateDict(m Module, state map[string]*tensor.RawTensor, strict bool) error {
	named := NamedParameters(m)
	for _, name := range sortedKeys(named) {
		p := named[name]
		src, ok := state[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingParameter, name)
		}
		dst := p.Tensor()
		if !src.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("%w: %s: expected %v, got %v", ErrShapeMismatch, name, dst.Shape(), src.Shape())
		}
		copy(dst.Data(), src.Data())
	}
	if strict {
		for _, name := range sortedKeys(state) {
			if _, ok := named[name]; !ok {
				return fmt.Errorf("%w: %s", ErrUnexpectedParameter, name)
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
