package gradcam

import (
	"sort"

	"github.com/born-ml/gradcam/internal/tensor"
)

// Prediction is a class index with its logit.
type Prediction struct {
	Index int
	Score float32
}

// TopK returns the k highest logits in descending order. Equal scores keep
// ascending class order.
func TopK(logits *tensor.RawTensor, k int) []Prediction {
	data := logits.Data()
	preds := make([]Prediction, len(data))
	for i, v := range data {
		preds[i] = Prediction{Index: i, Score: v}
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})
	if k < len(preds) {
		preds = preds[:k]
	}
	return preds
}
