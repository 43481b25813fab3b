// Package schemas resolves and applies the JSON Schema contracts that
// descriptor documents declare through their schema field. Contracts ship
// embedded in the binary; unknown contract URLs on the opendapi.org host are
// fetched once and cached for the life of the registry.
package schemas

import (
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Contract wraps one compiled JSON Schema document.
type Contract struct {
	url    string
	schema *gojsonschema.Schema
}

// NewContract compiles a JSON Schema document fetched from or embedded for
// the given contract URL.
func NewContract(url string, document []byte) (*Contract, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, errors.NewConfigError("schemas", "invalid schema document "+url, err)
	}
	return &Contract{url: url, schema: schema}, nil
}

// URL returns the contract URL this schema was loaded for.
func (c *Contract) URL() string {
	return c.url
}

// Validate checks a document against the contract and returns one
// SchemaError per failure, pointing into the document. The document is
// never mutated.
func (c *Contract) Validate(file string, doc descriptors.Document) []error {
	result, err := c.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []error{errors.NewSchemaError(file, "", err.Error())}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]error, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, errors.NewSchemaError(file, pointerFor(re.Field()), re.Description()))
	}
	return violations
}

// pointerFor converts gojsonschema's dotted field path into a JSON-pointer
// style location.
func pointerFor(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	return "/" + strings.ReplaceAll(field, ".", "/")
}
