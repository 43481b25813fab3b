package descriptors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/goccy/go-yaml"
)

// Entry is a single key/value pair in a Document.
type Entry struct {
	Key   string
	Value any
}

// Document is an ordered YAML or JSON mapping. Key order is preserved from
// the parsed source, survives merges, and is reproduced on write, so
// regenerating an unchanged descriptor never reorders a hand-edited file.
//
// Values are scalars (string, int64, float64, bool, nil), []any, or nested
// Documents. The Normalize function reduces decoder output to those shapes.
type Document []Entry

// Get returns the value for key and whether the key is present.
func (d Document) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// GetString returns the string value for key, or "" when the key is absent
// or holds a non-string.
func (d Document) GetString(key string) string {
	v, ok := d.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetDocument returns the nested Document for key.
func (d Document) GetDocument(key string) (Document, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(Document)
	return sub, ok
}

// GetArray returns the array value for key.
func (d Document) GetArray(key string) ([]any, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// Set replaces the value for key, or appends the pair when key is absent.
func (d *Document) Set(key string, value any) {
	for i, e := range *d {
		if e.Key == key {
			(*d)[i].Value = value
			return
		}
	}
	*d = append(*d, Entry{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	for i, e := range *d {
		if e.Key == key {
			*d = append((*d)[:i], (*d)[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the document's keys in order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for _, e := range d {
		keys = append(keys, e.Key)
	}
	return keys
}

// Schema returns the document's declared contract URL, if any.
func (d Document) Schema() string {
	return d.GetString("schema")
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, 0, len(d))
	for _, e := range d {
		out = append(out, Entry{Key: e.Key, Value: CloneValue(e.Value)})
	}
	return out
}

// CloneValue returns a deep copy of a document value.
func CloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Map returns the document as a plain nested map, losing key order. Useful
// for handing documents to libraries that expect map[string]any trees.
func (d Document) Map() map[string]any {
	out := make(map[string]any, len(d))
	for _, e := range d {
		out[e.Key] = plainValue(e.Value)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// Normalize reduces decoder output to the canonical Document value shapes:
// ordered maps become Documents, unordered maps become key-sorted Documents,
// and integer widths collapse to int64 so deep equality is stable across the
// YAML and JSON read paths.
func Normalize(v any) any {
	switch t := v.(type) {
	case Document:
		out := make(Document, 0, len(t))
		for _, e := range t {
			out = append(out, Entry{Key: e.Key, Value: Normalize(e.Value)})
		}
		return out
	case yaml.MapSlice:
		out := make(Document, 0, len(t))
		for _, item := range t {
			out = append(out, Entry{Key: fmt.Sprint(item.Key), Value: Normalize(item.Value)})
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Document, 0, len(t))
		for _, k := range keys {
			out = append(out, Entry{Key: k, Value: Normalize(t[k])})
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return float64(t)
		}
		return int64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// MarshalYAML implements yaml.InterfaceMarshaler, emitting entries in order.
func (d Document) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, len(d))
	for _, e := range d {
		ms = append(ms, yaml.MapItem{Key: e.Key, Value: e.Value})
	}
	return ms, nil
}

// UnmarshalYAML implements yaml.BytesUnmarshaler, decoding a mapping node
// with key order preserved. JSON input decodes through the same path since
// JSON is a YAML subset.
func (d *Document) UnmarshalYAML(b []byte) error {
	var ms yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(b, &ms, yaml.UseOrderedMap()); err != nil {
		return err
	}
	doc, ok := Normalize(ms).(Document)
	if !ok {
		return fmt.Errorf("expected a mapping, got %T", ms)
	}
	*d = doc
	return nil
}

// MarshalJSON emits the document as a JSON object with entries in order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		// Nested Documents hit this method again via the json.Marshaler
		// interface, keeping their order too.
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object with key order preserved.
func (d *Document) UnmarshalJSON(b []byte) error {
	return d.UnmarshalYAML(b)
}
