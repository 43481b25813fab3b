package opendapi

import (
	"context"

	"github.com/WovenCollab/OpenDAPI/pkg/integrity"
	"github.com/WovenCollab/OpenDAPI/pkg/runner"
	"github.com/WovenCollab/OpenDAPI/pkg/validators"
)

// Run reconciles the descriptor tree against the configured sources.
func (c *client) Run(ctx context.Context) (*runner.Result, error) {
	return c.run(ctx, c.opts.autoupdate)
}

// Validate checks the descriptor tree without writing anything.
func (c *client) Validate(ctx context.Context) (*runner.Result, error) {
	return c.run(ctx, false)
}

// run assembles the per-kind validators and executes one pass.
func (c *client) run(ctx context.Context, persist bool) (*runner.Result, error) {
	// Step 0: set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: assemble the ordered validator list
	r, err := c.assemble(persist)
	if err != nil {
		return nil, err
	}

	// Step 2: run every kind, then the referential integrity pass
	c.opts.log.Debug().
		Bool("persist", persist).
		Int("adapters", len(c.opts.adapters)).
		Str("root", c.store.Root()).
		Msg("starting descriptor pass")
	return r.Run(ctx)
}

// assemble builds the per-kind validators in their fixed order: teams,
// datastores, purposes when enabled, datasets last so ownership and
// binding targets reconcile before the files referring to them.
func (c *client) assemble(persist bool) (*runner.Runner, error) {
	o := c.opts

	var vals []*validators.Validator
	add := func(strategy validators.Strategy, seed, enforce bool) error {
		v, err := validators.New(strategy, c.store, c.registry,
			validators.WithPersist(persist),
			validators.WithEnforceExistence(enforce),
			validators.WithSeeding(seed),
			validators.WithLogger(o.log))
		if err != nil {
			return err
		}
		vals = append(vals, v)
		return nil
	}

	if err := add(validators.NewTeams(o.org, o.seedTeams...), o.seedTeamsSet, o.enforce); err != nil {
		return nil, err
	}
	if err := add(validators.NewDatastores(o.org, o.seedDatastores...), o.seedStoresSet, o.enforce); err != nil {
		return nil, err
	}
	if o.purposesEnabled {
		if err := add(validators.NewPurposes(o.org, o.seedPurposes...), o.seedPurposesSet, o.enforce); err != nil {
			return nil, err
		}
	}

	// Dataset existence is only enforced when something introspects; a
	// tree without adapters still validates the dataset files it has.
	sources := o.sources()
	if err := add(validators.NewDatasetSources(sources...), true, o.enforce && len(sources) > 0); err != nil {
		return nil, err
	}

	checker := integrity.New(integrity.WithPurposeChecks(o.purposesEnabled))
	return runner.New(vals, runner.WithIntegrity(checker), runner.WithLogger(o.log))
}
