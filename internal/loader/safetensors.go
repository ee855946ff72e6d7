package loader

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/gradcam/internal/nn"
	"github.com/born-ml/gradcam/internal/tensor"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// SafeTensorsDType represents a SafeTensors data type.
type SafeTensorsDType string

// Floating point dtypes the loader converts to float32.
const (
	SafeTensorsF16  SafeTensorsDType = "F16"
	SafeTensorsBF16 SafeTensorsDType = "BF16"
	SafeTensorsF32  SafeTensorsDType = "F32"
	SafeTensorsF64  SafeTensorsDType = "F64"
)

// Size returns the element size in bytes, or 0 for unsupported dtypes.
func (d SafeTensorsDType) Size() int {
	switch d {
	case SafeTensorsF16, SafeTensorsBF16:
		return 2
	case SafeTensorsF32:
		return 4
	case SafeTensorsF64:
		return 8
	default:
		return 0
	}
}

// SafeTensorInfo describes a tensor in SafeTensors format.
type SafeTensorInfo struct {
	DType       SafeTensorsDType `json:"dtype"`
	Shape       []int            `json:"shape"`
	DataOffsets [2]int64         `json:"data_offsets"` // [start, end]
}

// SafeTensorsHeader is the JSON header in SafeTensors format.
type SafeTensorsHeader struct {
	Metadata map[string]string
	Tensors  map[string]SafeTensorInfo
}

// UnmarshalJSON separates "__metadata__" from the tensor entries.
func (h *SafeTensorsHeader) UnmarshalJSON(data []byte) error {
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return err
	}

	if metadataRaw, ok := rawMap["__metadata__"]; ok {
		if err := json.Unmarshal(metadataRaw, &h.Metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	h.Tensors = make(map[string]SafeTensorInfo, len(rawMap))
	for key, value := range rawMap {
		if key == "__metadata__" {
			continue
		}
		var info SafeTensorInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("failed to unmarshal tensor %s: %w", key, err)
		}
		h.Tensors[key] = info
	}
	return nil
}

// SafeTensorsReader reads SafeTensors format files.
type SafeTensorsReader struct {
	file       *os.File
	header     SafeTensorsHeader
	dataOffset int64 // Offset where tensor data starts
}

// NewSafeTensorsReader opens path and parses its header.
func NewSafeTensorsReader(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: weights path is user input.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var headerSize uint64
	if err := binary.Read(file, binary.LittleEndian, &headerSize); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}

	if headerSize > 100*1024*1024 {
		_ = file.Close()
		return nil, fmt.Errorf("invalid header size: %d (too large)", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(file, headerBytes); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var header SafeTensorsHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	return &SafeTensorsReader{
		file:       file,
		header:     header,
		dataOffset: int64(8 + headerSize), //nolint:gosec // G115: bounded above.
	}, nil
}

// Close closes the SafeTensors file.
func (r *SafeTensorsReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (r *SafeTensorsReader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the sorted tensor names in the file.
func (r *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(r.header.Tensors))
	for name := range r.header.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *SafeTensorsReader) TensorInfo(name string) (*SafeTensorInfo, error) {
	info, ok := r.header.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingTensor, name)
	}
	return &info, nil
}

// ReadTensorData reads the raw bytes of a tensor.
func (r *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	start := r.dataOffset + info.DataOffsets[0]
	size := info.DataOffsets[1] - info.DataOffsets[0]
	if size < 0 {
		return nil, fmt.Errorf("invalid data offsets for tensor %s: [%d, %d]",
			name, info.DataOffsets[0], info.DataOffsets[1])
	}

	if _, err := r.file.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to tensor data: %w", err)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r.file, data); err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	return data, nil
}

// LoadTensor reads a tensor and converts it to a float32 CPU tensor.
func (r *SafeTensorsReader) LoadTensor(name string) (*tensor.RawTensor, error) {
	info, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}

	elemSize := info.DType.Size()
	if elemSize == 0 {
		return nil, fmt.Errorf("%w: %s has dtype %s", ErrUnsupportedDType, name, info.DType)
	}

	shape := tensor.Shape(info.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape for tensor %s: %w", name, err)
	}

	data, err := r.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements()*elemSize {
		return nil, fmt.Errorf("%w: %s has %d bytes for shape %v (%s)",
			ErrShapeMismatch, name, len(data), shape, info.DType)
	}

	raw, err := tensor.NewRaw(shape, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	decode(info.DType, data, raw.Data())
	return raw, nil
}

// LoadAll reads every tensor, renaming each through mapper when non-nil.
func (r *SafeTensorsReader) LoadAll(mapper WeightMapper) (map[string]*tensor.RawTensor, error) {
	state := make(map[string]*tensor.RawTensor, len(r.header.Tensors))
	for _, name := range r.TensorNames() {
		t, err := r.LoadTensor(name)
		if err != nil {
			return nil, err
		}
		key := name
		if mapper != nil {
			key = mapper.MapName(name)
		}
		state[key] = t
	}
	return state, nil
}

// LoadVGG fills the parameters of model from a torchvision-style checkpoint.
func LoadVGG(path string, model *nn.VGG) error {
	reader, err := NewSafeTensorsReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	state, err := reader.LoadAll(TorchvisionMapper{})
	if err != nil {
		return err
	}
	if err := nn.LoadStateDict(model, state, true); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func decode(dtype SafeTensorsDType, src []byte, dst []float32) {
	switch dtype {
	case SafeTensorsF32:
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
		}
	case SafeTensorsF64:
		for i := range dst {
			dst[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:])))
		}
	case SafeTensorsBF16:
		for i := range dst {
			dst[i] = math.Float32frombits(uint32(binary.LittleEndian.Uint16(src[2*i:])) << 16)
		}
	case SafeTensorsF16:
		for i := range dst {
			dst[i] = float16ToFloat32(binary.LittleEndian.Uint16(src[2*i:]))
		}
	}
}

// float16ToFloat32 converts IEEE 754 half precision to single precision.
func float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch {
	case exp == 0 && mant == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: normalize the mantissa.
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3ff
		return math.Float32frombits(sign | e<<23 | mant<<13)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | mant<<13)
	}
}
