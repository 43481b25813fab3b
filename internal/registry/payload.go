package registry

import (
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/integrity"
	"github.com/peterbourgon/mergemap"
)

// Payload holds descriptor documents grouped the way the registry expects
// them, keyed by path relative to the repository root.
type Payload struct {
	Dapis      map[string]map[string]any
	Teams      map[string]map[string]any
	Datastores map[string]map[string]any
	Purposes   map[string]map[string]any
}

// BuildPayload groups a run's reconciled documents for submission.
func BuildPayload(docs integrity.Snapshot) Payload {
	p := Payload{
		Dapis:      map[string]map[string]any{},
		Teams:      map[string]map[string]any{},
		Datastores: map[string]map[string]any{},
		Purposes:   map[string]map[string]any{},
	}
	for kind, files := range docs {
		collection := p.collection(kind)
		if collection == nil {
			continue
		}
		for path, doc := range files {
			collection[path] = doc.Map()
		}
	}
	return p
}

// Filter returns a payload holding only the documents whose path ends in
// one of the changed filenames. Suffix matching lets callers pass git
// paths relative to a different root.
func (p Payload) Filter(changed []string) Payload {
	return Payload{
		Dapis:      filterFiles(p.Dapis, changed),
		Teams:      filterFiles(p.Teams, changed),
		Datastores: filterFiles(p.Datastores, changed),
		Purposes:   filterFiles(p.Purposes, changed),
	}
}

// Count returns the number of documents across all collections.
func (p Payload) Count() int {
	return len(p.Dapis) + len(p.Teams) + len(p.Datastores) + len(p.Purposes)
}

// ApplySuggestions overlays the registry's suggested edits onto the local
// documents and returns what each file would become, keyed by path. A
// suggestion for a path the payload does not carry passes through whole.
// The payload itself is never mutated.
func (p Payload) ApplySuggestions(suggestions map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any, len(suggestions))
	for path, raw := range suggestions {
		suggested, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		base := p.lookup(path)
		if base == nil {
			out[path] = suggested
			continue
		}
		// mergemap mutates its first argument, so overlay onto a copy.
		out[path] = mergemap.Merge(deepCopy(base), suggested)
	}
	return out
}

// body returns the wire form. Empty collections serialize as {}, not null.
func (p Payload) body() map[string]any {
	return map[string]any{
		"dapis":      orEmpty(p.Dapis),
		"teams":      orEmpty(p.Teams),
		"datastores": orEmpty(p.Datastores),
		"purposes":   orEmpty(p.Purposes),
	}
}

func (p Payload) collection(kind descriptors.Kind) map[string]map[string]any {
	switch kind {
	case descriptors.KindDapi:
		return p.Dapis
	case descriptors.KindTeams:
		return p.Teams
	case descriptors.KindDatastores:
		return p.Datastores
	case descriptors.KindPurposes:
		return p.Purposes
	}
	return nil
}

func (p Payload) lookup(path string) map[string]any {
	for _, files := range []map[string]map[string]any{p.Dapis, p.Teams, p.Datastores, p.Purposes} {
		if doc, ok := files[path]; ok {
			return doc
		}
	}
	return nil
}

func filterFiles(files map[string]map[string]any, changed []string) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for path, doc := range files {
		for _, name := range changed {
			if name != "" && strings.HasSuffix(path, name) {
				out[path] = doc
				break
			}
		}
	}
	return out
}

func orEmpty(m map[string]map[string]any) map[string]map[string]any {
	if m == nil {
		return map[string]map[string]any{}
	}
	return m
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopy(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	}
	return v
}
