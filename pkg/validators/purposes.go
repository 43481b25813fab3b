package validators

import (
	"context"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
)

// PurposesStrategy generates the organization's business purposes
// descriptor.
type PurposesStrategy struct {
	org  Organization
	seed []string
}

var _ Strategy = (*PurposesStrategy)(nil)

// NewPurposes returns a purposes strategy seeding one entry per purpose
// name.
func NewPurposes(org Organization, seed ...string) *PurposesStrategy {
	return &PurposesStrategy{org: org, seed: seed}
}

// Kind implements Strategy.
func (s *PurposesStrategy) Kind() descriptors.Kind {
	return descriptors.KindPurposes
}

// BaseTemplate implements Strategy.
func (s *PurposesStrategy) BaseTemplate(_ context.Context) (*Template, error) {
	purposes := make([]any, 0, len(s.seed))
	for _, name := range s.seed {
		entry := descriptors.Document{}
		entry.Set("urn", s.org.purposeURN(name).String())
		entry.Set("description", constants.PlaceholderText)
		purposes = append(purposes, entry)
	}

	doc := descriptors.Document{}
	doc.Set(constants.SchemaKey, descriptors.KindPurposes.SchemaURL())
	doc.Set("business_purposes", purposes)

	return &Template{
		Docs: map[string]descriptors.Document{
			s.org.descriptorPath(descriptors.KindPurposes): doc,
		},
	}, nil
}

// ContentChecks implements Strategy.
func (s *PurposesStrategy) ContentChecks(string, descriptors.Document) []error {
	return nil
}
