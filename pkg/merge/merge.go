// Package merge reconciles regenerated descriptor documents with their
// hand-edited files. The regenerated base decides which keys and which
// array elements exist; hand edits win every value they touched. Merging
// the same base twice is a fixed point, so an up-to-date file never
// rewrites.
package merge

import (
	"reflect"
	"slices"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
)

// Merger merges a regenerated base document with the hand-edited document
// read from disk.
type Merger interface {
	// Merge returns a new document; neither input is mutated.
	Merge(base, existing descriptors.Document) descriptors.Document
}

// Option configures a Merger.
type Option func(*merger)

// WithLookupKeys sets the keys that identify array elements across the two
// documents, in preference order.
func WithLookupKeys(keys ...string) Option {
	return func(m *merger) {
		if len(keys) > 0 {
			m.lookupKeys = keys
		}
	}
}

// WithFrozenPaths marks key paths whose arrays take their element set from
// the base alone: hand-added elements under a frozen path do not survive
// the merge. Paths name mapping keys only; arrays along the way are
// transparent.
func WithFrozenPaths(paths ...[]string) Option {
	return func(m *merger) {
		m.frozenPaths = append(m.frozenPaths, paths...)
	}
}

// New creates a Merger. Elements are matched by urn, then name, unless
// WithLookupKeys overrides that.
func New(opts ...Option) Merger {
	m := &merger{lookupKeys: []string{"urn", "name"}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Compile-time interface check
var _ Merger = (*merger)(nil)

// merger is the default implementation.
type merger struct {
	lookupKeys  []string
	frozenPaths [][]string
}

// Merge returns a new document; neither input is mutated.
func (m *merger) Merge(base, existing descriptors.Document) descriptors.Document {
	return m.mergeDocuments(base, existing, nil)
}

// mergeDocuments walks the base keys in order, merging values the existing
// document also carries, then appends existing-only keys in their order.
func (m *merger) mergeDocuments(base, existing descriptors.Document, path []string) descriptors.Document {
	merged := make(descriptors.Document, 0, len(base)+len(existing))

	for _, entry := range base {
		existingVal, ok := existing.Get(entry.Key)
		if !ok {
			merged = append(merged, descriptors.Entry{Key: entry.Key, Value: descriptors.CloneValue(entry.Value)})
			continue
		}
		childPath := append(slices.Clone(path), entry.Key)
		merged = append(merged, descriptors.Entry{Key: entry.Key, Value: m.mergeValues(entry.Value, existingVal, childPath)})
	}

	for _, entry := range existing {
		if base.Has(entry.Key) {
			continue
		}
		merged = append(merged, descriptors.Entry{Key: entry.Key, Value: descriptors.CloneValue(entry.Value)})
	}

	return merged
}

// mergeValues merges two values occupying the same key. Mappings and keyed
// arrays merge structurally; scalars and type conflicts keep the
// hand-edited value.
func (m *merger) mergeValues(base, existing any, path []string) any {
	if baseDoc, ok := base.(descriptors.Document); ok {
		if existingDoc, ok := existing.(descriptors.Document); ok {
			return m.mergeDocuments(baseDoc, existingDoc, path)
		}
	}
	if baseArr, ok := base.([]any); ok {
		if existingArr, ok := existing.([]any); ok {
			return m.mergeArrays(baseArr, existingArr, path)
		}
	}
	return descriptors.CloneValue(existing)
}

// mergeArrays merges element-wise when both arrays are keyed. Anything else
// is regenerated content: the base replaces the array wholesale.
func (m *merger) mergeArrays(base, existing []any, path []string) []any {
	if !m.keyed(base) || !m.keyed(existing) {
		return descriptors.CloneValue(base).([]any)
	}

	matched := make([]bool, len(existing))
	merged := make([]any, 0, len(base)+len(existing))

	for _, elem := range base {
		baseDoc := elem.(descriptors.Document)
		idx := m.findMatch(existing, m.matchValue(baseDoc))
		if idx < 0 {
			merged = append(merged, descriptors.CloneValue(elem))
			continue
		}
		matched[idx] = true
		merged = append(merged, m.mergeDocuments(baseDoc, existing[idx].(descriptors.Document), path))
	}

	if m.frozen(path) {
		return merged
	}

	// Hand-added elements survive, except exact duplicates of what the
	// merge already produced.
	for i, elem := range existing {
		if matched[i] || containsEqual(merged, elem) {
			continue
		}
		merged = append(merged, descriptors.CloneValue(elem))
	}

	return merged
}

// keyed reports whether every element is a mapping carrying at least one
// truthy lookup key.
func (m *merger) keyed(arr []any) bool {
	for _, elem := range arr {
		doc, ok := elem.(descriptors.Document)
		if !ok {
			return false
		}
		if m.matchValue(doc) == nil {
			return false
		}
	}
	return true
}

// matchValue returns the value of the first truthy lookup key of an element.
func (m *merger) matchValue(doc descriptors.Document) any {
	for _, key := range m.lookupKeys {
		if v, ok := doc.Get(key); ok && truthy(v) {
			return v
		}
	}
	return nil
}

// findMatch returns the index of the first existing element whose lookup
// keys carry the match value under any of them.
func (m *merger) findMatch(existing []any, match any) int {
	for i, elem := range existing {
		doc := elem.(descriptors.Document)
		for _, key := range m.lookupKeys {
			if v, ok := doc.Get(key); ok && reflect.DeepEqual(v, match) {
				return i
			}
		}
	}
	return -1
}

// frozen reports whether a key path takes its array elements from the base
// alone.
func (m *merger) frozen(path []string) bool {
	for _, fp := range m.frozenPaths {
		if slices.Equal(fp, path) {
			return true
		}
	}
	return false
}

// containsEqual reports whether any element of arr deep-equals v.
func containsEqual(arr []any, v any) bool {
	for _, elem := range arr {
		if reflect.DeepEqual(elem, v) {
			return true
		}
	}
	return false
}

// truthy reports whether a lookup key value identifies an element. Nil,
// empty strings, zeros, false, and empty collections do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case descriptors.Document:
		return len(val) > 0
	default:
		return true
	}
}
