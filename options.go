package opendapi

import (
	"net/http"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
	"github.com/WovenCollab/OpenDAPI/pkg/naming"
	"github.com/WovenCollab/OpenDAPI/pkg/validators"
	"github.com/rs/zerolog"
)

// Option is a function that configures a Client instance.
type Option func(*options) error

// options collects the client configuration.
type options struct {
	root        string
	datasetsDir string
	org         Organization

	seedTeams       []string
	seedTeamsSet    bool
	seedDatastores  []Datastore
	seedStoresSet   bool
	seedPurposes    []string
	seedPurposesSet bool
	purposesEnabled bool

	adapters []introspect.Adapter
	names    naming.Strategy

	autoupdate bool
	enforce    bool

	log        zerolog.Logger
	logSet     bool
	httpClient *http.Client
}

// defaultOptions returns the baseline configuration: descriptors under
// "dapis", autoupdate on, existence enforced, purposes off.
func defaultOptions() *options {
	return &options{
		datasetsDir: constants.DefaultDatasetsDir,
		autoupdate:  true,
		enforce:     true,
	}
}

// WithRoot sets the repository root the descriptor tree lives under. The
// root is required and never discovered from the working directory.
func WithRoot(root string) Option {
	return func(o *options) error {
		o.root = root
		return nil
	}
}

// WithDatasetsDir sets the root-relative directory holding descriptors.
// Defaults to "dapis".
func WithDatasetsDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.NewValidationError("datasets_dir", dir, "must not be empty")
		}
		o.datasetsDir = dir
		return nil
	}
}

// WithOrganization sets the organization owning the descriptor tree. The
// name is required; it seeds URN prefixes, descriptor file names, and team
// emails. The organization's datasets directory is managed by the client,
// use WithDatasetsDir.
func WithOrganization(org Organization) Option {
	return func(o *options) error {
		o.org = org
		return nil
	}
}

// WithSeedTeams turns on teams seeding: the run generates and maintains
// the organization's teams descriptor, with one team entry per name given.
// Without this option the teams file is only validated, never generated.
func WithSeedTeams(names ...string) Option {
	return func(o *options) error {
		o.seedTeams = names
		o.seedTeamsSet = true
		return nil
	}
}

// WithSeedDatastores turns on datastores seeding with one entry per
// datastore given. Without this option the datastores file is only
// validated, never generated.
func WithSeedDatastores(stores ...Datastore) Option {
	return func(o *options) error {
		o.seedDatastores = stores
		o.seedStoresSet = true
		return nil
	}
}

// WithSeedPurposes turns on purposes seeding with one entry per name
// given, and implies WithPurposesEnabled(true).
func WithSeedPurposes(names ...string) Option {
	return func(o *options) error {
		o.seedPurposes = names
		o.seedPurposesSet = true
		o.purposesEnabled = true
		return nil
	}
}

// WithPurposesEnabled controls whether business purposes are validated at
// all. Off by default; when off, purpose references in datasets are not
// cross-checked either.
func WithPurposesEnabled(enabled bool) Option {
	return func(o *options) error {
		o.purposesEnabled = enabled
		return nil
	}
}

// WithAdapter registers one or more introspection adapters. Every table
// an adapter reports generates a dataset descriptor. With more than one
// adapter, each adapter's descriptors land in a subdirectory named after
// its ID unless WithNaming overrides placement.
func WithAdapter(adapters ...introspect.Adapter) Option {
	return func(o *options) error {
		for _, adapter := range adapters {
			if adapter == nil {
				return errors.NewValidationError("adapter", nil, "must not be nil")
			}
			o.adapters = append(o.adapters, adapter)
		}
		return nil
	}
}

// WithNaming replaces the default naming strategy for every adapter.
func WithNaming(names naming.Strategy) Option {
	return func(o *options) error {
		o.names = names
		return nil
	}
}

// WithAutoupdate controls whether Run persists regenerated descriptors.
// On by default; with autoupdate off Run behaves like Validate and stale
// files surface as out-of-date violations.
func WithAutoupdate(enabled bool) Option {
	return func(o *options) error {
		o.autoupdate = enabled
		return nil
	}
}

// WithEnforceExistence controls whether a kind with no descriptor file at
// all is a violation. On by default.
func WithEnforceExistence(enforce bool) Option {
	return func(o *options) error {
		o.enforce = enforce
		return nil
	}
}

// WithLogger sets the client's logger. Defaults to the package-wide
// logging default.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) error {
		o.log = log
		o.logSet = true
		return nil
	}
}

// WithHTTPClient sets the HTTP client used to fetch schema contracts that
// are not embedded.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) error {
		if client == nil {
			return errors.NewValidationError("http_client", nil, "must not be nil")
		}
		o.httpClient = client
		return nil
	}
}

// validate checks the assembled configuration.
func (o *options) validate() error {
	if o.root == "" {
		return errors.NewValidationError("root", o.root, "a repository root is required")
	}
	if o.org.Name == "" {
		return errors.NewValidationError("organization", o.org.Name, "an organization name is required")
	}
	return nil
}

// sources pairs every adapter with its naming strategy.
func (o *options) sources() []validators.DatasetSource {
	sources := make([]validators.DatasetSource, 0, len(o.adapters))
	for _, adapter := range o.adapters {
		names := o.names
		if names == nil {
			nameOpts := []naming.Option{naming.WithDatasetsDir(o.datasetsDir)}
			if len(o.adapters) > 1 {
				nameOpts = append(nameOpts, naming.WithSource(adapter.ID()))
			}
			names = naming.New(o.org.Name, nameOpts...)
		}
		sources = append(sources, validators.DatasetSource{Adapter: adapter, Naming: names})
	}
	return sources
}
