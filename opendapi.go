// Package opendapi keeps machine-checkable data descriptors in sync with
// the live data models they describe. A descriptor tree holds four kinds
// of YAML or JSON files: datasets (one per table or collection), teams,
// datastores, and business purposes. Each run regenerates the descriptors
// from the configured sources, folds human edits back into the generated
// state, validates every file against its embedded schema contract, and
// cross-checks the URN references between kinds.
//
// Hand edits win: a regenerated descriptor is three-way merged with the
// file on disk, so filled-in descriptions, ownership, and classification
// survive every run while structural facts (fields, types, nullability)
// track the live model.
//
// Example usage:
//
//	// adapter is any introspect.Adapter, e.g. the postgres or mongo
//	// adapter the opendapi command wires from its config.
//	client, err := opendapi.New(
//	    opendapi.WithRoot("/path/to/repo"),
//	    opendapi.WithOrganization(opendapi.Organization{
//	        Name:        "Acme",
//	        EmailDomain: "acme.com",
//	    }),
//	    opendapi.WithSeedTeams("Identity", "Growth"),
//	    opendapi.WithAdapter(adapter),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Reconcile and persist, then inspect the outcome.
//	result, err := client.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, violation := range result.Violations {
//	    fmt.Println(violation)
//	}
//
//	// CI posture: validate only, nothing is written.
//	result, err = client.Validate(ctx)
package opendapi

import (
	"context"

	"github.com/WovenCollab/OpenDAPI/pkg/logging"
	"github.com/WovenCollab/OpenDAPI/pkg/runner"
	"github.com/WovenCollab/OpenDAPI/pkg/schemas"
	"github.com/WovenCollab/OpenDAPI/pkg/store"
	"github.com/WovenCollab/OpenDAPI/pkg/validators"
)

// Organization names the owner of a descriptor tree; see
// validators.Organization for the field semantics.
type Organization = validators.Organization

// Datastore seeds one datastores descriptor entry; see
// validators.Datastore.
type Datastore = validators.Datastore

// Client drives descriptor reconciliation for one repository tree.
type Client interface {
	// Run reconciles every configured descriptor kind against the live
	// data models, persisting regenerated files when autoupdate is on,
	// and reports violations, written paths, and per-file changes.
	Run(ctx context.Context) (*runner.Result, error)

	// Validate performs the same pass without writing anything; a file
	// that would change is reported as out of date instead.
	Validate(ctx context.Context) (*runner.Result, error)
}

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// client is the internal implementation of the Client interface.
type client struct {
	opts     *options
	store    store.Store
	registry *schemas.Registry
}

// New creates a new Client instance with the given options. WithRoot and
// WithOrganization are required; everything else has a usable default.
func New(opts ...Option) (Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if !o.logSet {
		o.log = *logging.Default()
	}
	// The client's datasets directory is the single source of placement
	// truth, including for the organization's own descriptor files.
	o.org.DatasetsDir = o.datasetsDir

	st, err := store.New(o.root)
	if err != nil {
		return nil, err
	}

	var registryOpts []schemas.Option
	if o.httpClient != nil {
		registryOpts = append(registryOpts, schemas.WithHTTPClient(o.httpClient))
	}
	registry, err := schemas.NewRegistry(registryOpts...)
	if err != nil {
		return nil, err
	}

	return &client{opts: o, store: st, registry: registry}, nil
}
