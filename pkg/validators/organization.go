package validators

import (
	"path"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/naming"
)

// Organization seeds the descriptor templates generated for a repository.
type Organization struct {
	// Name is the display name, e.g. "Acme Inc". Its normalized form is
	// the first segment of every generated URN.
	Name string

	// EmailDomain builds team email addresses, e.g. "acme.com".
	EmailDomain string

	// Slack lists the slack team IDs recorded on the organization block of
	// the teams descriptor.
	Slack []string

	// DatasetsDir is the root-relative directory generated descriptors are
	// written under. Empty means constants.DefaultDatasetsDir.
	DatasetsDir string
}

// Segment returns the organization's URN segment, e.g. "acme_inc".
func (o Organization) Segment() string {
	return naming.Segment(o.Name)
}

// Dir returns the datasets directory, defaulted.
func (o Organization) Dir() string {
	if o.DatasetsDir == "" {
		return constants.DefaultDatasetsDir
	}
	return o.DatasetsDir
}

// descriptorPath returns the organization's seeded descriptor path for a
// kind, e.g. "dapis/acme.teams.yaml".
func (o Organization) descriptorPath(kind descriptors.Kind) string {
	return path.Join(o.Dir(), o.Segment()+kind.Suffix()+constants.YAMLSuffix)
}

func (o Organization) teamURN(name string) descriptors.URN {
	return descriptors.JoinURN(o.Segment(), descriptors.KindTeams.URNSegment(), naming.Segment(name))
}

func (o Organization) datastoreURN(name string) descriptors.URN {
	return descriptors.JoinURN(o.Segment(), descriptors.KindDatastores.URNSegment(), naming.Segment(name))
}

func (o Organization) purposeURN(name string) descriptors.URN {
	return descriptors.JoinURN(o.Segment(), descriptors.KindPurposes.URNSegment(), naming.Segment(name))
}

func (o Organization) teamEmail(name string) string {
	return "grp." + naming.Segment(name) + "@" + strings.ToLower(o.EmailDomain)
}

// anyStrings widens a string slice to the element type descriptor arrays
// carry after parsing.
func anyStrings(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
