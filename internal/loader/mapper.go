package loader

import "strings"

// WeightMapper maps checkpoint tensor names to module parameter paths.
type WeightMapper interface {
	MapName(name string) string
}

// TorchvisionMapper strips the wrapper prefixes that training scripts add to
// torchvision state dicts:
//   - module.features.0.weight -> features.0.weight (DataParallel)
//   - model.classifier.6.bias  -> classifier.6.bias
type TorchvisionMapper struct{}

// MapName implements WeightMapper.
func (TorchvisionMapper) MapName(name string) string {
	for _, prefix := range []string{"module.", "model."} {
		name = strings.TrimPrefix(name, prefix)
	}
	return name
}
