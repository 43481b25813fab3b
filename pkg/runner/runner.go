// Package runner executes the per-kind validators in order, aggregates
// what they found into a single Result, and finishes with the referential
// integrity pass over the reconciled documents.
package runner

import (
	"context"
	"fmt"

	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/integrity"
	"github.com/WovenCollab/OpenDAPI/pkg/validators"
	"github.com/rs/zerolog"
)

// Runner drives one pass over a descriptor tree.
type Runner struct {
	validators []*validators.Validator
	integrity  *integrity.Checker
	log        zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithIntegrity replaces the referential integrity checker. A nil checker
// disables the pass.
func WithIntegrity(checker *integrity.Checker) Option {
	return func(r *Runner) {
		r.integrity = checker
	}
}

// WithLogger sets the runner's logger. Runs are silent by default.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// New returns a Runner executing the validators in the order given.
func New(vals []*validators.Validator, opts ...Option) (*Runner, error) {
	if len(vals) == 0 {
		return nil, errors.NewConfigError("runner", "at least one validator is required", nil)
	}
	r := &Runner{
		validators: vals,
		integrity:  integrity.New(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes every validator in order, continuing past violations, then
// cross-checks URN references over the final reconciled documents. The
// error return is reserved for configuration and infrastructure failures;
// a run that only found violations still returns a Result.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := newResult()

	for _, v := range r.validators {
		vres, err := v.Run(ctx)
		if err != nil {
			return nil, err
		}
		result.absorb(vres)

		r.log.Debug().
			Str("kind", vres.Kind.String()).
			Int("files", len(vres.Documents)).
			Int("written", len(vres.Written)).
			Int("violations", len(vres.Violations)).
			Msg("validator finished")
	}

	if r.integrity != nil {
		result.Violations = append(result.Violations, r.integrity.Check(result.Documents)...)
		if n := parseFailures(result.Violations); n > 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not parse %d descriptor files; referential integrity checks may be incomplete", n))
		}
	}

	result.Finalize()
	r.log.Info().
		Str("run_id", result.RunID).
		Dur("duration", result.Duration).
		Int("violations", len(result.Violations)).
		Int("written", len(result.Written)).
		Msg("run finished")

	return result, nil
}

// parseFailures counts the violations that are unreadable descriptors.
func parseFailures(violations []error) int {
	n := 0
	for _, v := range violations {
		if errors.IsParseError(v) {
			n++
		}
	}
	return n
}
