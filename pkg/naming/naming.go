// Package naming decides the identity of generated dataset descriptors:
// their URNs, owning team, datastore bindings, and file locations. The
// dataset validator asks a Strategy once per introspected table and builds
// descriptor templates from the answers, so organizations with their own
// conventions plug in a custom Strategy without touching the merge engine.
package naming

import (
	"path"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
)

// Binding ties a dataset to one datastore, recording the identifier the
// datastore knows the data by.
type Binding struct {
	URN        descriptors.URN
	Identifier string
	Namespace  string
	Purposes   []descriptors.URN
}

// Bindings lists the datastores producing and consuming a dataset.
type Bindings struct {
	Producers []Binding
	Consumers []Binding
}

// Strategy names the generated parts of a dataset descriptor. Strategies
// must be deterministic: the same table always yields the same answers, so
// a rerun with no model change rewrites nothing.
type Strategy interface {
	// URN returns the dataset URN for a table.
	URN(table introspect.Table) descriptors.URN

	// OwnerTeam returns the URN of the team owning the table's dataset.
	OwnerTeam(table introspect.Table) descriptors.URN

	// Datastores returns the datastore bindings of the table's dataset.
	Datastores(table introspect.Table) Bindings

	// Location returns the root-relative descriptor file path for the
	// table.
	Location(table introspect.Table) string
}

// defaultOwnerTeam names generated datasets' owner until a human assigns
// one. It never resolves against a teams descriptor, so the integrity pass
// keeps flagging the dataset until ownership is settled.
const defaultOwnerTeam = "placeholder"

// Option configures the default strategy.
type Option func(*strategy)

// WithDatasetsDir overrides the directory generated descriptors live under,
// relative to the repository root.
func WithDatasetsDir(dir string) Option {
	return func(s *strategy) {
		if dir != "" {
			s.datasetsDir = dir
		}
	}
}

// WithSource groups generated descriptors under a subdirectory of the
// datasets directory, typically the introspection adapter ID.
func WithSource(source string) Option {
	return func(s *strategy) {
		s.source = Segment(source)
	}
}

// WithOwnerTeam names the team owning every generated dataset. The name is
// a team name within the organization, not a full URN.
func WithOwnerTeam(team string) Option {
	return func(s *strategy) {
		if team != "" {
			s.ownerTeam = Segment(team)
		}
	}
}

// WithProducer records a datastore as a producer of every generated
// dataset, bound to the table's own identifier and namespace.
func WithProducer(name string) Option {
	return func(s *strategy) {
		if name != "" {
			s.producers = append(s.producers, Segment(name))
		}
	}
}

// WithConsumer records a datastore as a consumer of every generated
// dataset. Consumer identifiers are uppercased, the way warehouses
// conventionally name replicated tables.
func WithConsumer(name string) Option {
	return func(s *strategy) {
		if name != "" {
			s.consumers = append(s.consumers, Segment(name))
		}
	}
}

// New returns a Strategy deriving every name from the organization:
// datasets become "{org}.dapis.{table}" owned by "{org}.teams.{team}",
// bound to "{org}.datastores.{name}" entries, and live at
// "{datasetsDir}/{source}/{table}.dapi.yaml".
func New(organization string, opts ...Option) Strategy {
	s := &strategy{
		organization: Segment(organization),
		datasetsDir:  constants.DefaultDatasetsDir,
		ownerTeam:    defaultOwnerTeam,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type strategy struct {
	organization string
	datasetsDir  string
	source       string
	ownerTeam    string
	producers    []string
	consumers    []string
}

var _ Strategy = (*strategy)(nil)

func (s *strategy) URN(table introspect.Table) descriptors.URN {
	return descriptors.JoinURN(s.organization, descriptors.KindDapi.URNSegment(), Segment(table.Identifier))
}

func (s *strategy) OwnerTeam(_ introspect.Table) descriptors.URN {
	return descriptors.JoinURN(s.organization, descriptors.KindTeams.URNSegment(), s.ownerTeam)
}

func (s *strategy) Datastores(table introspect.Table) Bindings {
	var b Bindings
	for _, name := range s.producers {
		b.Producers = append(b.Producers, Binding{
			URN:        s.datastoreURN(name),
			Identifier: table.Identifier,
			Namespace:  table.Namespace,
		})
	}
	for _, name := range s.consumers {
		b.Consumers = append(b.Consumers, Binding{
			URN:        s.datastoreURN(name),
			Identifier: strings.ToUpper(table.Identifier),
			Namespace:  strings.ToUpper(table.Namespace),
		})
	}
	return b
}

func (s *strategy) Location(table introspect.Table) string {
	name := Segment(table.Identifier) + constants.DapiSuffix + constants.YAMLSuffix
	return path.Join(s.datasetsDir, s.source, name)
}

func (s *strategy) datastoreURN(name string) descriptors.URN {
	return descriptors.JoinURN(s.organization, descriptors.KindDatastores.URNSegment(), name)
}

// Segment normalizes a free-form name into a URN- and path-safe segment:
// lowercased, with interior runs of anything outside [a-z0-9_] collapsed
// into one underscore.
func Segment(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
