package descriptors

import "slices"

// ShareStatus declares how mature a dataset field's contract is for
// downstream consumers.
type ShareStatus string

const (
	// ShareStatusUnstable means the field may change without notice.
	ShareStatusUnstable ShareStatus = "unstable"

	// ShareStatusStable means the field is safe to build on.
	ShareStatusStable ShareStatus = "stable"

	// ShareStatusDeprecated means the field is scheduled for removal.
	ShareStatusDeprecated ShareStatus = "deprecated"
)

// ShareStatuses returns all share statuses.
func ShareStatuses() []ShareStatus {
	return []ShareStatus{ShareStatusUnstable, ShareStatusStable, ShareStatusDeprecated}
}

// String returns the string representation of a share status.
func (s ShareStatus) String() string {
	return string(s)
}

// IsValid returns true if the ShareStatus is one of the defined constants.
func (s ShareStatus) IsValid() bool {
	return slices.Contains(ShareStatuses(), s)
}
