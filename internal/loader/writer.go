package loader

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/born-ml/gradcam/internal/tensor"
)

// WriteSafeTensors writes state as F32 tensors to path.
// Tensors are laid out in name order.
func WriteSafeTensors(path string, state map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(state)+1)
	if len(metadata) > 0 {
		header["__metadata__"] = metadata
	}
	var offset int64
	for _, name := range names {
		t := state[name]
		size := int64(4 * t.NumElements())
		header[name] = SafeTensorInfo{
			DType:       SafeTensorsF32,
			Shape:       []int(t.Shape()),
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	//nolint:gosec // G304: output path is user input.
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w := bufio.NewWriter(file)

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}

	var buf [4]byte
	for _, name := range names {
		for _, v := range state[name].Data() {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			if _, err := w.Write(buf[:]); err != nil {
				_ = file.Close()
				return fmt.Errorf("failed to write tensor %s: %w", name, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	return file.Close()
}
