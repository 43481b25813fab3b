package validators

import (
	"context"
	"fmt"
	"sort"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

// TeamsStrategy generates the organization's teams descriptor and checks
// that parent team references stay within the known teams.
type TeamsStrategy struct {
	org  Organization
	seed []string
}

var (
	_ Strategy   = (*TeamsStrategy)(nil)
	_ SetChecker = (*TeamsStrategy)(nil)
)

// NewTeams returns a teams strategy seeding one team entry per name.
func NewTeams(org Organization, seed ...string) *TeamsStrategy {
	return &TeamsStrategy{org: org, seed: seed}
}

// Kind implements Strategy.
func (s *TeamsStrategy) Kind() descriptors.Kind {
	return descriptors.KindTeams
}

// BaseTemplate implements Strategy. Seeded teams get a placeholder domain
// and a group email derived from the organization's email domain.
func (s *TeamsStrategy) BaseTemplate(_ context.Context) (*Template, error) {
	teams := make([]any, 0, len(s.seed))
	for _, name := range s.seed {
		team := descriptors.Document{}
		team.Set("urn", s.org.teamURN(name).String())
		team.Set("name", name)
		team.Set("domain", constants.PlaceholderText)
		team.Set("email", s.org.teamEmail(name))
		teams = append(teams, team)
	}

	org := descriptors.Document{}
	org.Set("name", s.org.Name)
	org.Set("slack_teams", anyStrings(s.org.Slack))

	doc := descriptors.Document{}
	doc.Set(constants.SchemaKey, descriptors.KindTeams.SchemaURL())
	doc.Set("organization", org)
	doc.Set("teams", teams)

	return &Template{
		Docs: map[string]descriptors.Document{
			s.org.descriptorPath(descriptors.KindTeams): doc,
		},
	}, nil
}

// ContentChecks implements Strategy. Per-file team rules are fully covered
// by the schema contract; the cross-file rules live in SetChecks.
func (s *TeamsStrategy) ContentChecks(string, descriptors.Document) []error {
	return nil
}

// SetChecks verifies every parent_team_urn resolves to a team declared in
// some teams descriptor.
func (s *TeamsStrategy) SetChecks(docs map[string]descriptors.Document) []error {
	known := map[string]bool{}
	for _, doc := range docs {
		entries, _ := doc.GetArray("teams")
		for _, elem := range entries {
			if team, ok := elem.(descriptors.Document); ok {
				if urn := team.GetString("urn"); urn != "" {
					known[urn] = true
				}
			}
		}
	}

	paths := make([]string, 0, len(docs))
	for path := range docs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var violations []error
	for _, path := range paths {
		entries, _ := docs[path].GetArray("teams")
		for i, elem := range entries {
			team, ok := elem.(descriptors.Document)
			if !ok {
				continue
			}
			parent := team.GetString("parent_team_urn")
			if parent == "" || known[parent] {
				continue
			}
			violations = append(violations, errors.NewSchemaError(
				path,
				fmt.Sprintf("/teams/%d/parent_team_urn", i),
				fmt.Sprintf("parent team %q is not a declared team", parent),
			))
		}
	}
	return violations
}
