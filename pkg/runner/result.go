package runner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/differ"
	"github.com/WovenCollab/OpenDAPI/pkg/integrity"
	"github.com/WovenCollab/OpenDAPI/pkg/validators"
	"github.com/google/uuid"
)

// Result aggregates everything one run over a descriptor tree produced.
type Result struct {
	// Run metadata
	RunID      string // correlates logs, CI summaries, and registry calls
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration

	// Aggregate outcome
	Violations []error           // every violation, in validator order
	Written    []string          // root-relative paths persisted this run
	Warnings   []string          // non-violation conditions worth surfacing
	Changeset  *differ.Changeset // per-file change detail

	// Documents holds the final reconciled documents per kind, the same
	// set the integrity pass saw. Registry submissions are built from it.
	Documents integrity.Snapshot

	// Per-kind accounting
	Kinds map[descriptors.Kind]*KindResult
}

// KindResult is one descriptor kind's share of the run.
type KindResult struct {
	Kind       descriptors.Kind
	Files      int // documents reconciled or validated
	Written    int
	Violations int
}

// newResult seeds a Result for a starting run.
func newResult() *Result {
	return &Result{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Changeset: &differ.Changeset{},
		Documents: integrity.Snapshot{},
		Kinds:     make(map[descriptors.Kind]*KindResult),
	}
}

// absorb folds one validator pass into the aggregate.
func (r *Result) absorb(vres *validators.RunResult) {
	r.Violations = append(r.Violations, vres.Violations...)
	r.Written = append(r.Written, vres.Written...)
	for _, change := range vres.Changes {
		r.Changeset.Append(change)
	}

	docs := r.Documents[vres.Kind]
	if docs == nil {
		docs = make(map[string]descriptors.Document, len(vres.Documents))
		r.Documents[vres.Kind] = docs
	}
	for path, doc := range vres.Documents {
		docs[path] = doc
	}

	kr := r.Kinds[vres.Kind]
	if kr == nil {
		kr = &KindResult{Kind: vres.Kind}
		r.Kinds[vres.Kind] = kr
	}
	kr.Files += len(vres.Documents)
	kr.Written += len(vres.Written)
	kr.Violations += len(vres.Violations)
}

// IsSuccess reports whether the run found nothing wrong. Written files do
// not affect success; violations do.
func (r *Result) IsSuccess() bool {
	return len(r.Violations) == 0
}

// HasChanges reports whether any descriptor file picked up changes.
func (r *Result) HasChanges() bool {
	return r.Changeset != nil && r.Changeset.HasChanges()
}

// Finalize stamps the end of the run and puts the aggregates in a stable
// order. Run calls it; callers assembling a Result by hand should call it
// once everything is absorbed.
func (r *Result) Finalize() {
	r.FinishedAt = time.Now()
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	sort.Strings(r.Written)
}

// Summary returns a one-line human-readable account of the run.
func (r *Result) Summary() string {
	var parts []string
	if n := len(r.Violations); n > 0 {
		parts = append(parts, fmt.Sprintf("%d violations", n))
	}
	if n := len(r.Written); n > 0 {
		parts = append(parts, fmt.Sprintf("%d files written", n))
	}
	if len(parts) == 0 {
		return "all descriptors valid and up to date"
	}
	return strings.Join(parts, ", ")
}

// Summary returns a one-line account of the kind's share of the run.
func (kr *KindResult) Summary() string {
	return fmt.Sprintf("%s: %d files, %d written, %d violations",
		kr.Kind, kr.Files, kr.Written, kr.Violations)
}
