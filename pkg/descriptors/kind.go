package descriptors

import (
	"slices"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
)

// Kind identifies a descriptor family. Each kind owns a file suffix, a schema
// entity, and (except for datasets) a required top-level collection key.
type Kind string

const (
	// KindTeams represents team descriptors (who owns datasets).
	KindTeams Kind = "teams"

	// KindDatastores represents datastore descriptors (where data lives).
	KindDatastores Kind = "datastores"

	// KindPurposes represents business purpose descriptors (why data is used).
	KindPurposes Kind = "purposes"

	// KindDapi represents dataset descriptors (the data itself).
	KindDapi Kind = "dapi"
)

// Kinds returns all descriptor kinds in validation order.
func Kinds() []Kind {
	return []Kind{KindTeams, KindDatastores, KindPurposes, KindDapi}
}

// String returns the string representation of a kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the Kind is one of the defined constants.
func (k Kind) IsValid() bool {
	return slices.Contains(Kinds(), k)
}

// Suffix returns the kind marker that precedes the format suffix in a
// descriptor file name, e.g. ".teams" in "acme.teams.yaml".
func (k Kind) Suffix() string {
	switch k {
	case KindTeams:
		return constants.TeamsSuffix
	case KindDatastores:
		return constants.DatastoresSuffix
	case KindPurposes:
		return constants.PurposesSuffix
	case KindDapi:
		return constants.DapiSuffix
	default:
		return ""
	}
}

// FileSuffixes returns every file suffix that marks a file as holding this
// kind, one per supported serialization format.
func (k Kind) FileSuffixes() []string {
	kindSuffix := k.Suffix()
	if kindSuffix == "" {
		return nil
	}
	return []string{
		kindSuffix + constants.YAMLSuffix,
		kindSuffix + constants.YMLSuffix,
		kindSuffix + constants.JSONSuffix,
	}
}

// Entity returns the schema entity name used in contract URLs.
func (k Kind) Entity() string {
	return string(k)
}

// URNSegment returns the middle segment of URNs naming entities of this
// kind, e.g. "dapis" in "acme.dapis.users".
func (k Kind) URNSegment() string {
	if k == KindDapi {
		return "dapis"
	}
	return string(k)
}

// CollectionKey returns the required top-level key holding the kind's entity
// list. Dataset descriptors are a single entity per file and have none.
func (k Kind) CollectionKey() string {
	switch k {
	case KindTeams:
		return "teams"
	case KindDatastores:
		return "datastores"
	case KindPurposes:
		return "business_purposes"
	default:
		return ""
	}
}

// SchemaURL returns the contract URL this toolchain generates for the kind.
func (k Kind) SchemaURL() string {
	return constants.SchemaBaseURL + "spec/" + constants.SchemaVersion + "/" + k.Entity() + ".json"
}

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", false
	}
	return k, true
}

// KindFromPath reports the kind a descriptor file path belongs to, matching
// on the kind and format suffix pair.
func KindFromPath(path string) (Kind, bool) {
	for _, k := range Kinds() {
		for _, suffix := range k.FileSuffixes() {
			if strings.HasSuffix(path, suffix) {
				return k, true
			}
		}
	}
	return "", false
}
