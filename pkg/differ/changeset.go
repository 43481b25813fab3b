// Package differ reports what an autoupdate run changed, per descriptor
// file and per field, so runs can explain their writes and CI can publish
// impact summaries.
package differ

import (
	"fmt"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a value or file was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a value or file was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a value was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific value within a document.
type FieldChange struct {
	Path     string     // Value path (e.g., "fields.0.data_type")
	OldValue string     // Previous value (string representation)
	NewValue string     // New value (string representation)
	Type     ChangeType // Type of change
}

// FileChange represents the changes one descriptor file picked up.
type FileChange struct {
	Path    string           // Root-relative file path
	Kind    descriptors.Kind // Descriptor kind of the file
	Type    ChangeType       // Add for new files, update otherwise
	Changes []FieldChange    // Detailed list of value changes
}

// HasChanges returns true if the file picked up any value changes.
func (f *FileChange) HasChanges() bool {
	return len(f.Changes) > 0
}

// Changeset collects the file changes of one run.
type Changeset struct {
	Files []FileChange
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	Created      int
	Updated      int
	FieldChanges int
	TotalChanges int
}

// Append records one file change.
func (c *Changeset) Append(change FileChange) {
	c.Files = append(c.Files, change)
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return len(c.Files) > 0
}

// Summary computes the summary statistics for the changeset.
func (c *Changeset) Summary() ChangesetSummary {
	var s ChangesetSummary
	for _, f := range c.Files {
		if f.Type == ChangeTypeAdd {
			s.Created++
		} else {
			s.Updated++
		}
		s.FieldChanges += len(f.Changes)
	}
	s.TotalChanges = s.Created + s.Updated
	return s
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if !c.HasChanges() {
		return "no changes detected"
	}

	var parts []string
	for _, kind := range descriptors.Kinds() {
		created, updated := 0, 0
		for _, f := range c.Files {
			if f.Kind != kind {
				continue
			}
			if f.Type == ChangeTypeAdd {
				created++
			} else {
				updated++
			}
		}
		if created+updated == 0 {
			continue
		}

		var kindParts []string
		if created > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d created", created))
		}
		if updated > 0 {
			kindParts = append(kindParts, fmt.Sprintf("%d updated", updated))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", kind, strings.Join(kindParts, ", ")))
	}

	return strings.Join(parts, "; ")
}
