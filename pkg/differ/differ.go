package differ

import (
	"fmt"
	"sort"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/r3labs/diff/v2"
)

// Differ handles change detection between descriptor documents.
type Differ interface {
	// Compare reports the value changes between the document previously on
	// disk and the merged document replacing it. A nil existing document
	// means the file is being created.
	Compare(path string, kind descriptors.Kind, existing, merged descriptors.Document) (FileChange, error)
}

// differ is the default implementation of Differ.
type differ struct{}

// New creates a Differ.
func New() Differ {
	return &differ{}
}

// Compile-time interface check
var _ Differ = (*differ)(nil)

// Compare reports the value changes between two documents.
func (d *differ) Compare(path string, kind descriptors.Kind, existing, merged descriptors.Document) (FileChange, error) {
	change := FileChange{
		Path: path,
		Kind: kind,
		Type: ChangeTypeUpdate,
	}
	if existing == nil {
		change.Type = ChangeTypeAdd
	}

	changelog, err := diff.Diff(existing.Map(), merged.Map(),
		diff.DiscardComplexOrigin(), diff.AllowTypeMismatch(true))
	if err != nil {
		return change, fmt.Errorf("diffing %s: %w", path, err)
	}

	for _, c := range changelog {
		change.Changes = append(change.Changes, FieldChange{
			Path:     strings.Join(c.Path, "."),
			OldValue: formatValue(c.From),
			NewValue: formatValue(c.To),
			Type:     changeTypeFor(c.Type),
		})
	}

	// Map diffs come back in hash order; sorted output keeps run reports
	// stable.
	sort.Slice(change.Changes, func(i, j int) bool {
		return change.Changes[i].Path < change.Changes[j].Path
	})

	return change, nil
}

// changeTypeFor maps changelog entry types onto ChangeType.
func changeTypeFor(t string) ChangeType {
	switch t {
	case diff.CREATE:
		return ChangeTypeAdd
	case diff.DELETE:
		return ChangeTypeRemove
	default:
		return ChangeTypeUpdate
	}
}

// formatValue renders a changed value for display.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
