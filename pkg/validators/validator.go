// Package validators reconciles descriptor files against their generated
// desired state. One engine drives every descriptor kind; a Strategy
// supplies the kind-specific parts: which files should exist, what they
// should contain, and what must hold inside them beyond the schema
// contract. The engine merges hand-edits into the generated state, checks
// the result against its contract, and reports every violation it finds
// rather than stopping at the first.
package validators

import (
	"context"
	"sort"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/differ"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/merge"
	"github.com/WovenCollab/OpenDAPI/pkg/schemas"
	"github.com/WovenCollab/OpenDAPI/pkg/store"
	"github.com/rs/zerolog"
)

// Strategy supplies the kind-specific pieces of a validation run.
type Strategy interface {
	// Kind returns the descriptor kind the strategy reconciles.
	Kind() descriptors.Kind

	// BaseTemplate returns the generated desired state for the kind.
	BaseTemplate(ctx context.Context) (*Template, error)

	// ContentChecks runs semantic checks on a document that already passed
	// its schema contract.
	ContentChecks(path string, doc descriptors.Document) []error
}

// SetChecker is implemented by strategies whose content rules span the
// whole descriptor set rather than one file, e.g. parent team references.
// The engine calls it once per run with every reconciled document.
type SetChecker interface {
	SetChecks(docs map[string]descriptors.Document) []error
}

// Template is a strategy's desired state: one generated document per
// root-relative path, plus any violations hit while generating (e.g. a
// column type with no data_type mapping).
type Template struct {
	Docs       map[string]descriptors.Document
	Violations []error
}

// RunResult aggregates one validator pass over a descriptor kind.
// Documents holds the final reconciled document per path, including
// documents that were not persisted, so later passes can check references
// against the state this run settled on.
type RunResult struct {
	Kind       descriptors.Kind
	Violations []error
	Written    []string
	Changes    []differ.FileChange
	Documents  map[string]descriptors.Document
}

// Option configures a Validator.
type Option func(*Validator)

// WithPersist controls whether reconciled documents are written back.
// Persistence is off by default: the run only reports what is missing or
// stale, which is the CI posture.
func WithPersist(persist bool) Option {
	return func(v *Validator) {
		v.persist = persist
	}
}

// WithEnforceExistence makes a kind with no descriptor files at all a
// violation.
func WithEnforceExistence(enforce bool) Option {
	return func(v *Validator) {
		v.enforce = enforce
	}
}

// WithSeeding controls whether the strategy's template participates in the
// run. Without seeding the kind is validate-only: existing files are
// checked as written and existence is still enforced, but nothing is
// generated or merged. Seeding is on by default.
func WithSeeding(seed bool) Option {
	return func(v *Validator) {
		v.seed = seed
	}
}

// WithMerger overrides the kind's default merger.
func WithMerger(m merge.Merger) Option {
	return func(v *Validator) {
		if m != nil {
			v.merger = m
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(v *Validator) {
		v.log = log
	}
}

// Validator reconciles one descriptor kind against its generated state.
type Validator struct {
	strategy Strategy
	store    store.Store
	registry *schemas.Registry
	merger   merge.Merger
	differ   differ.Differ
	log      zerolog.Logger
	persist  bool
	enforce  bool
	seed     bool
}

// New returns a Validator for the strategy's kind. The store and registry
// are required; everything else has a usable default.
func New(strategy Strategy, st store.Store, registry *schemas.Registry, opts ...Option) (*Validator, error) {
	if strategy == nil {
		return nil, errors.NewConfigError("validators", "a strategy is required", nil)
	}
	if st == nil {
		return nil, errors.NewConfigError("validators", "a descriptor store is required", nil)
	}
	if registry == nil {
		return nil, errors.NewConfigError("validators", "a schema registry is required", nil)
	}

	v := &Validator{
		strategy: strategy,
		store:    st,
		registry: registry,
		merger:   defaultMerger(strategy.Kind()),
		differ:   differ.New(),
		log:      zerolog.Nop(),
		seed:     true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// defaultMerger returns the kind's merge configuration. Dataset fields are
// regenerated from the model on every run, so hand-added entries under
// "fields" do not survive.
func defaultMerger(kind descriptors.Kind) merge.Merger {
	if kind == descriptors.KindDapi {
		return merge.New(merge.WithFrozenPaths([]string{"fields"}))
	}
	return merge.New()
}

// Run reconciles the kind: generates the desired state, merges hand-edits
// back in, validates contracts and content, and either persists the result
// or reports the drift. The error return is reserved for configuration and
// infrastructure failures; ordinary validation failures come back as
// violations inside the RunResult.
func (v *Validator) Run(ctx context.Context) (*RunResult, error) {
	kind := v.strategy.Kind()
	result := &RunResult{
		Kind:      kind,
		Documents: map[string]descriptors.Document{},
	}

	tpl := &Template{}
	if v.seed {
		var err error
		tpl, err = v.strategy.BaseTemplate(ctx)
		if err != nil {
			return nil, err
		}
		result.Violations = append(result.Violations, tpl.Violations...)
	}

	paths := make([]string, 0, len(tpl.Docs))
	for path := range tpl.Docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		final, err := v.reconcile(ctx, path, tpl.Docs[path], result)
		if err != nil {
			return nil, err
		}
		if final != nil {
			result.Documents[path] = final
		}
	}

	files, err := v.store.Walk(kind)
	if err != nil {
		return nil, err
	}
	if v.enforce && len(files) == 0 && len(tpl.Docs) == 0 {
		result.Violations = append(result.Violations, errors.NewMissingFileError(kind.String(), ""))
	}

	// Files the template does not know about are validated as they were
	// written.
	for _, file := range files {
		if _, ok := tpl.Docs[file]; ok {
			continue
		}
		doc, err := v.store.Read(file)
		if err != nil {
			if !errors.IsViolation(err) {
				return nil, err
			}
			result.Violations = append(result.Violations, err)
			continue
		}
		v.validateDoc(ctx, file, doc, result)
		result.Documents[file] = doc
	}

	if checker, ok := v.strategy.(SetChecker); ok {
		result.Violations = append(result.Violations, checker.SetChecks(result.Documents)...)
	}

	v.log.Debug().
		Str("kind", kind.String()).
		Int("violations", len(result.Violations)).
		Int("written", len(result.Written)).
		Msg("validator pass finished")

	return result, nil
}

// reconcile merges one template path with whatever is on disk, validates
// the outcome, and persists it when persistence is on and the content
// moved. It returns the final document, or nil when the existing file
// could not even be parsed.
func (v *Validator) reconcile(ctx context.Context, path string, base descriptors.Document, result *RunResult) (descriptors.Document, error) {
	kind := v.strategy.Kind()

	var existing descriptors.Document
	if v.store.Exists(path) {
		doc, err := v.store.Read(path)
		if err != nil {
			if !errors.IsViolation(err) {
				return nil, err
			}
			result.Violations = append(result.Violations, err)
			return nil, nil
		}
		existing = doc
	}

	merged := base
	if existing != nil {
		merged = v.merger.Merge(base, existing)
	}

	v.validateDoc(ctx, path, merged, result)

	change, err := v.differ.Compare(path, kind, existing, merged)
	if err != nil {
		return nil, err
	}

	if !v.persist {
		if existing == nil {
			result.Violations = append(result.Violations, errors.NewMissingFileError(kind.String(), path))
		} else if change.HasChanges() {
			result.Violations = append(result.Violations, errors.NewOutOfDateError(kind.String(), path))
		}
		return merged, nil
	}

	if existing != nil && !change.HasChanges() {
		return merged, nil
	}

	if err := v.store.Write(path, merged); err != nil {
		return nil, err
	}
	v.log.Info().
		Str("kind", kind.String()).
		Str("path", path).
		Int("changes", len(change.Changes)).
		Msg("descriptor updated")
	result.Written = append(result.Written, path)
	result.Changes = append(result.Changes, change)
	return merged, nil
}

// validateDoc checks one document against its declared contract and, when
// the shape holds, the strategy's content rules.
func (v *Validator) validateDoc(ctx context.Context, path string, doc descriptors.Document, result *RunResult) {
	url := doc.Schema()
	if url == "" {
		result.Violations = append(result.Violations, errors.NewSchemaError(path, "/schema", "missing schema declaration"))
		return
	}

	contract, err := v.registry.Contract(ctx, url)
	if err != nil {
		result.Violations = append(result.Violations, errors.NewSchemaError(path, "/schema", err.Error()))
		return
	}

	if violations := contract.Validate(path, doc); len(violations) > 0 {
		result.Violations = append(result.Violations, violations...)
		return
	}

	result.Violations = append(result.Violations, v.strategy.ContentChecks(path, doc)...)
}
