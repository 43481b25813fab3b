// Package integrity cross-checks the URN references between descriptor
// kinds after every kind has been reconciled. Schema contracts only see one
// file at a time; this second pass verifies that a dataset's owner team,
// datastore bindings, and business purposes actually resolve against the
// sibling descriptor sets of the same run.
package integrity

import (
	"fmt"
	"sort"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

// Snapshot is the final reconciled document set of one run, keyed by kind
// and root-relative path. Callers hand over the post-merge state so the
// checks see what the descriptors will say once persisted, not what was on
// disk before the run.
type Snapshot map[descriptors.Kind]map[string]descriptors.Document

// Checker resolves dataset URN references against a Snapshot.
type Checker struct {
	checkPurposes bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithPurposeChecks controls whether business purpose references are
// verified. Runs that skip purposes validation altogether should skip
// these checks too, or every reference would be reported as dangling.
func WithPurposeChecks(enabled bool) Option {
	return func(c *Checker) {
		c.checkPurposes = enabled
	}
}

// New returns a Checker. All reference classes are verified by default.
func New(opts ...Option) *Checker {
	c := &Checker{checkPurposes: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check inspects every dataset descriptor in the snapshot and returns one
// violation per reference that does not resolve. Fields the schema already
// rejects as absent are left to the schema contract and skipped here.
func (c *Checker) Check(snap Snapshot) []error {
	teams := collectURNs(snap[descriptors.KindTeams], descriptors.KindTeams)
	stores := collectURNs(snap[descriptors.KindDatastores], descriptors.KindDatastores)
	purposes := collectURNs(snap[descriptors.KindPurposes], descriptors.KindPurposes)

	datasets := snap[descriptors.KindDapi]
	paths := make([]string, 0, len(datasets))
	for path := range datasets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var violations []error
	for _, path := range paths {
		violations = append(violations, c.checkDataset(path, datasets[path], teams, stores, purposes)...)
	}
	return violations
}

func (c *Checker) checkDataset(path string, doc descriptors.Document, teams, stores, purposes map[string]bool) []error {
	var violations []error
	dataset := doc.GetString("urn")

	if owner := doc.GetString("owner_team_urn"); owner != "" && !teams[owner] {
		violations = append(violations,
			errors.NewIntegrityError(path, dataset, "owner_team_urn", owner, descriptors.KindTeams.String()))
	}

	block, ok := doc.GetDocument("datastores")
	if !ok {
		return violations
	}
	for _, side := range []string{"producers", "consumers"} {
		entries, _ := block.GetArray(side)
		for i, elem := range entries {
			entry, ok := elem.(descriptors.Document)
			if !ok {
				continue
			}
			if urn := entry.GetString("urn"); urn != "" && !stores[urn] {
				field := fmt.Sprintf("datastores.%s[%d].urn", side, i)
				violations = append(violations,
					errors.NewIntegrityError(path, dataset, field, urn, descriptors.KindDatastores.String()))
			}
			if !c.checkPurposes {
				continue
			}
			refs, _ := entry.GetArray("business_purposes")
			for j, ref := range refs {
				urn, ok := ref.(string)
				if !ok || urn == "" || purposes[urn] {
					continue
				}
				field := fmt.Sprintf("datastores.%s[%d].business_purposes[%d]", side, i, j)
				violations = append(violations,
					errors.NewIntegrityError(path, dataset, field, urn, descriptors.KindPurposes.String()))
			}
		}
	}
	return violations
}

// collectURNs gathers the entity URNs declared across every document of one
// kind. Entries without a urn key contribute nothing; the schema contract
// reports those on their own file.
func collectURNs(docs map[string]descriptors.Document, kind descriptors.Kind) map[string]bool {
	urns := make(map[string]bool)
	for _, doc := range docs {
		entries, _ := doc.GetArray(kind.CollectionKey())
		for _, elem := range entries {
			entry, ok := elem.(descriptors.Document)
			if !ok {
				continue
			}
			if urn := entry.GetString("urn"); urn != "" {
				urns[urn] = true
			}
		}
	}
	return urns
}
