package descriptors

import (
	"regexp"
	"strings"
)

// URN is a dot-delimited identifier naming an entity across descriptor
// files, e.g. "acme.teams.data_platform" or "acme.dapis.users".
type URN string

var urnPattern = regexp.MustCompile(`^(\w+\.)+\w+$`)

// String returns the string representation of a URN.
func (u URN) String() string {
	return string(u)
}

// IsValid reports whether the URN has at least two dot-delimited word
// segments.
func (u URN) IsValid() bool {
	return urnPattern.MatchString(string(u))
}

// Segments returns the URN's dot-delimited parts.
func (u URN) Segments() []string {
	if u == "" {
		return nil
	}
	return strings.Split(string(u), ".")
}

// JoinURN assembles a URN from segments.
func JoinURN(segments ...string) URN {
	return URN(strings.Join(segments, "."))
}
