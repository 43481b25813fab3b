package validators

import (
	"context"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
)

// Datastore seeds one entry in the generated datastores descriptor.
type Datastore struct {
	Name string
	Type string
}

// DatastoresStrategy generates the organization's datastores descriptor.
// Hosts and credentials are seeded as placeholders for a human to settle;
// the credential prefix convention is enforced by the schema contract.
type DatastoresStrategy struct {
	org  Organization
	seed []Datastore
}

var _ Strategy = (*DatastoresStrategy)(nil)

// NewDatastores returns a datastores strategy seeding one entry per
// datastore.
func NewDatastores(org Organization, seed ...Datastore) *DatastoresStrategy {
	return &DatastoresStrategy{org: org, seed: seed}
}

// Kind implements Strategy.
func (s *DatastoresStrategy) Kind() descriptors.Kind {
	return descriptors.KindDatastores
}

// BaseTemplate implements Strategy.
func (s *DatastoresStrategy) BaseTemplate(_ context.Context) (*Template, error) {
	stores := make([]any, 0, len(s.seed))
	for _, ds := range s.seed {
		prod := descriptors.Document{}
		prod.Set("location", constants.PlaceholderText)
		prod.Set("username", constants.PlaintextCredentialPrefix+constants.PlaceholderText)
		prod.Set("password", constants.PlaintextCredentialPrefix+constants.PlaceholderText)

		host := descriptors.Document{}
		host.Set("env_prod", prod)

		entry := descriptors.Document{}
		entry.Set("urn", s.org.datastoreURN(ds.Name).String())
		entry.Set("type", ds.Type)
		entry.Set("host", host)
		stores = append(stores, entry)
	}

	doc := descriptors.Document{}
	doc.Set(constants.SchemaKey, descriptors.KindDatastores.SchemaURL())
	doc.Set("datastores", stores)

	return &Template{
		Docs: map[string]descriptors.Document{
			s.org.descriptorPath(descriptors.KindDatastores): doc,
		},
	}, nil
}

// ContentChecks implements Strategy. The schema contract carries all
// datastore content rules.
func (s *DatastoresStrategy) ContentChecks(string, descriptors.Document) []error {
	return nil
}
