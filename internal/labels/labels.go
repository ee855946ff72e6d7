// Package labels maps class indices to human readable names.
package labels

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrFormat is returned when a label file cannot be interpreted.
var ErrFormat = errors.New("labels: unrecognized format")

// Table is a class-index-to-name lookup. The zero value names every class
// "class N".
type Table struct {
	names []string
}

// New creates a table from names ordered by class index.
func New(names []string) *Table {
	return &Table{names: append([]string(nil), names...)}
}

// Name returns the name of class index, or "class N" when unknown.
func (t *Table) Name(index int) string {
	if t != nil && index >= 0 && index < len(t.names) && t.names[index] != "" {
		return t.names[index]
	}
	return "class " + strconv.Itoa(index)
}

// Len returns the number of named classes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Load reads a label file. Supported layouts:
//   - text: one name per line, line i names class i
//   - JSON array of names
//   - JSON object keyed by index, valued by a name or by
//     [synset, name] as in imagenet_class_index.json
func Load(path string) (*Table, error) {
	//nolint:gosec // G304: labels path is user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if strings.EqualFold(filepath.Ext(path), ".json") || bytes.HasPrefix(trimmed, []byte("[")) || bytes.HasPrefix(trimmed, []byte("{")) {
		return parseJSON(trimmed)
	}
	return parseText(data), nil
}

func parseText(data []byte) *Table {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		names = append(names, strings.TrimSpace(sc.Text()))
	}
	// Drop a trailing run of blank lines.
	for len(names) > 0 && names[len(names)-1] == "" {
		names = names[:len(names)-1]
	}
	return &Table{names: names}
}

func parseJSON(data []byte) (*Table, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return New(list), nil
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	names := make([]string, 0, len(keyed))
	for key, raw := range keyed {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%w: key %q is not a class index", ErrFormat, key)
		}
		name, err := decodeName(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: class %d: %w", ErrFormat, index, err)
		}
		for len(names) <= index {
			names = append(names, "")
		}
		names[index] = name
	}
	return &Table{names: names}, nil
}

func decodeName(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil
	}
	var pair []string
	if err := json.Unmarshal(raw, &pair); err != nil {
		return "", err
	}
	if len(pair) == 0 {
		return "", errors.New("empty entry")
	}
	return pair[len(pair)-1], nil
}
