// Package constants provides shared constants used throughout the OpenDAPI codebase.
// This includes timeouts, file permissions, descriptor suffixes, and other
// configuration values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the descriptor registry
	DefaultHTTPTimeout = 30 * time.Second

	// SchemaFetchTimeout is the timeout for fetching a JSON Schema referenced by a descriptor
	SchemaFetchTimeout = 2 * time.Second

	// IntrospectTimeout is the timeout for introspecting a single datastore
	IntrospectTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like API keys (rw-------)
	SecureFilePermissions = 0600
)

// Descriptor file suffix constants. A descriptor file name is
// <base><KindSuffix><FormatSuffix>, e.g. acme.teams.yaml or users.dapi.json.
const (
	// TeamsSuffix marks files holding team descriptors
	TeamsSuffix = ".teams"

	// DatastoresSuffix marks files holding datastore descriptors
	DatastoresSuffix = ".datastores"

	// PurposesSuffix marks files holding business purpose descriptors
	PurposesSuffix = ".purposes"

	// DapiSuffix marks files holding dataset descriptors
	DapiSuffix = ".dapi"
)

// Descriptor format suffix constants
const (
	// YAMLSuffix is the primary serialization format suffix
	YAMLSuffix = ".yaml"

	// YMLSuffix is the alternate YAML suffix
	YMLSuffix = ".yml"

	// JSONSuffix is the JSON serialization format suffix
	JSONSuffix = ".json"
)

// Schema constants
const (
	// SchemaKey is the top-level key every descriptor uses to declare its contract
	SchemaKey = "schema"

	// SchemaBaseURL is the prefix every descriptor schema URL must carry
	SchemaBaseURL = "https://opendapi.org/"

	// SchemaVersion is the descriptor schema version this toolchain generates
	SchemaVersion = "0-0-1"
)

// Template constants
const (
	// PlaceholderText seeds free-text descriptor values that a human must fill in
	PlaceholderText = "placeholder text"

	// PlaintextCredentialPrefix tags credential values stored unencrypted in a descriptor
	PlaintextCredentialPrefix = "plaintext:"

	// DefaultShareStatus is the sharing maturity seeded into generated dataset fields
	DefaultShareStatus = "unstable"
)

// Registry constants
const (
	// DefaultRegistryEndpoint is the hosted descriptor registry
	DefaultRegistryEndpoint = "https://api.wovencollab.com"

	// RegistryAPIKeyHeader carries the registry credential on each request
	RegistryAPIKeyHeader = "X-DAPI-Server-API-Key"
)

// Path constants
const (
	// DefaultConfigFile is the repository-level configuration file name
	DefaultConfigFile = "opendapi.yaml"

	// DefaultDatasetsDir is the directory dataset descriptors are written under,
	// relative to the repository root
	DefaultDatasetsDir = "dapis"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)

// Error messages
const (
	// ErrMsgUnknownKind is the standard error message for unrecognized descriptor kinds
	ErrMsgUnknownKind = "unknown descriptor kind"

	// ErrMsgTimeout is the standard error message for timeouts
	ErrMsgTimeout = "operation timed out"
)
