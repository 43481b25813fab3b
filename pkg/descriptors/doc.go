// Package descriptors provides the shared vocabulary of the OpenDAPI system:
// descriptor kinds and their file suffixes, the ordered Document representation
// of a descriptor file, URNs, and the data type and share status enums used by
// dataset fields.
//
// The package is referenced by the store, merger, validators, and integrity
// checker, and carries no dependencies beyond the YAML codec so it can sit at
// the bottom of the import graph.
package descriptors
