package validators

import (
	"context"
	"fmt"
	"reflect"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
	"github.com/WovenCollab/OpenDAPI/pkg/naming"
)

// DatasetSource pairs one introspection adapter with the naming strategy
// that places its tables.
type DatasetSource struct {
	Adapter introspect.Adapter
	Naming  naming.Strategy
}

// DatasetStrategy generates one dataset descriptor per introspected table.
// Identity decisions (URNs, owning team, datastore bindings, file
// locations) come from each source's naming strategy; this strategy only
// assembles documents and checks dataset content rules.
type DatasetStrategy struct {
	sources []DatasetSource
}

var _ Strategy = (*DatasetStrategy)(nil)

// NewDataset returns a dataset strategy reading tables from the adapter
// and naming their descriptors with names.
func NewDataset(adapter introspect.Adapter, names naming.Strategy) *DatasetStrategy {
	return NewDatasetSources(DatasetSource{Adapter: adapter, Naming: names})
}

// NewDatasetSources returns a dataset strategy drawing tables from several
// adapters in one pass. All sources share one descriptor kind, so a run
// never validates the same file twice; tables from different sources may
// even share a location and combine under the same rules as same-source
// tables. With no sources the template is empty and existing dataset
// files are validated as written.
func NewDatasetSources(sources ...DatasetSource) *DatasetStrategy {
	return &DatasetStrategy{sources: sources}
}

// Kind implements Strategy.
func (s *DatasetStrategy) Kind() descriptors.Kind {
	return descriptors.KindDapi
}

// BaseTemplate implements Strategy. A column whose type has no data_type
// mapping is reported as a violation and its table is skipped; the other
// tables still generate. Tables naming the same location have their field
// lists merged by field name, and disagreements between them are reported
// rather than silently resolved.
func (s *DatasetStrategy) BaseTemplate(ctx context.Context) (*Template, error) {
	tpl := &Template{Docs: map[string]descriptors.Document{}}
	for _, source := range s.sources {
		if source.Adapter == nil {
			return nil, errors.NewConfigError("validators", "the dataset strategy requires an introspection adapter", nil)
		}
		if source.Naming == nil {
			return nil, errors.NewConfigError("validators", "the dataset strategy requires a naming strategy", nil)
		}

		tables, err := source.Adapter.Tables(ctx)
		if err != nil {
			return nil, err
		}

		for _, table := range tables {
			doc, violations := build(source.Naming, table)
			tpl.Violations = append(tpl.Violations, violations...)
			if doc == nil {
				continue
			}

			location := source.Naming.Location(table)
			current, shared := tpl.Docs[location]
			if !shared {
				tpl.Docs[location] = doc
				continue
			}
			combined, conflicts := combineTableDocs(location, current, doc)
			tpl.Violations = append(tpl.Violations, conflicts...)
			tpl.Docs[location] = combined
		}
	}
	return tpl, nil
}

// build assembles the descriptor for one table. It returns nil and the
// offending columns when any column type cannot be mapped.
func build(names naming.Strategy, table introspect.Table) (descriptors.Document, []error) {
	var violations []error
	fields := make([]any, 0, len(table.Columns))
	primary := []any{}
	for _, col := range table.Columns {
		dataType, ok := descriptors.DataTypeFor(col.Type)
		if !ok {
			violations = append(violations, errors.NewTypeKindError(table.Identifier, col.Name, col.Type))
			continue
		}

		field := descriptors.Document{}
		field.Set("name", col.Name)
		field.Set("data_type", dataType.String())
		field.Set("description", constants.PlaceholderText)
		field.Set("is_nullable", col.Nullable)
		field.Set("is_pii", false)
		field.Set("share_status", constants.DefaultShareStatus)
		fields = append(fields, field)

		if col.PrimaryKey {
			primary = append(primary, col.Name)
		}
	}
	if len(violations) > 0 {
		return nil, violations
	}

	doc := descriptors.Document{}
	doc.Set(constants.SchemaKey, descriptors.KindDapi.SchemaURL())
	doc.Set("urn", names.URN(table).String())
	doc.Set("type", "entity")
	doc.Set("description", constants.PlaceholderText)
	doc.Set("owner_team_urn", names.OwnerTeam(table).String())
	doc.Set("datastores", bindingsDoc(names.Datastores(table)))
	doc.Set("fields", fields)
	doc.Set("primary_key", primary)
	doc.Set("tags", []any{})
	return doc, nil
}

// ContentChecks implements Strategy: a dataset declares at least one
// field, and every primary key element is a declared field name.
func (s *DatasetStrategy) ContentChecks(path string, doc descriptors.Document) []error {
	var violations []error

	fields, _ := doc.GetArray("fields")
	if len(fields) == 0 {
		violations = append(violations, errors.NewSchemaError(path, "/fields", "a dataset declares at least one field"))
	}

	names := make(map[string]bool, len(fields))
	for _, elem := range fields {
		if field, ok := elem.(descriptors.Document); ok {
			names[field.GetString("name")] = true
		}
	}

	primary, _ := doc.GetArray("primary_key")
	for i, elem := range primary {
		key, ok := elem.(string)
		if !ok || names[key] {
			continue
		}
		violations = append(violations, errors.NewSchemaError(
			path,
			fmt.Sprintf("/primary_key/%d", i),
			fmt.Sprintf("primary key element %q is not a declared field", key),
		))
	}
	return violations
}

// bindingsDoc renders naming bindings into the descriptor's datastores
// block.
func bindingsDoc(b naming.Bindings) descriptors.Document {
	doc := descriptors.Document{}
	doc.Set("producers", bindingEntries(b.Producers))
	doc.Set("consumers", bindingEntries(b.Consumers))
	return doc
}

func bindingEntries(bindings []naming.Binding) []any {
	entries := make([]any, 0, len(bindings))
	for _, b := range bindings {
		data := descriptors.Document{}
		data.Set("identifier", b.Identifier)
		data.Set("namespace", b.Namespace)

		entry := descriptors.Document{}
		entry.Set("urn", b.URN.String())
		entry.Set("data", data)
		if len(b.Purposes) > 0 {
			purposes := make([]any, 0, len(b.Purposes))
			for _, p := range b.Purposes {
				purposes = append(purposes, p.String())
			}
			entry.Set("business_purposes", purposes)
		}
		entries = append(entries, entry)
	}
	return entries
}

// combineTableDocs folds a second table's document into the one already
// generated for the same location. Field lists merge by name; everything
// the tables disagree on is a violation, with the first table's value
// kept.
func combineTableDocs(location string, current, incoming descriptors.Document) (descriptors.Document, []error) {
	var violations []error
	combined := current.Clone()

	for _, key := range []string{constants.SchemaKey, "urn", "type", "description", "owner_team_urn"} {
		cur := combined.GetString(key)
		inc := incoming.GetString(key)
		if cur != inc {
			violations = append(violations, errors.NewSchemaError(
				location,
				"/"+key,
				fmt.Sprintf("tables sharing this descriptor disagree on %s: %q vs %q", key, cur, inc),
			))
		}
	}

	curStores, _ := combined.GetDocument("datastores")
	incStores, _ := incoming.GetDocument("datastores")
	for _, side := range []string{"producers", "consumers"} {
		cur, _ := curStores.GetArray(side)
		inc, _ := incStores.GetArray(side)
		for _, elem := range inc {
			entry, ok := elem.(descriptors.Document)
			if !ok {
				continue
			}
			if indexByKey(cur, "urn", entry.GetString("urn")) < 0 {
				cur = append(cur, descriptors.CloneValue(entry))
			}
		}
		curStores.Set(side, cur)
	}
	combined.Set("datastores", curStores)

	curFields, _ := combined.GetArray("fields")
	incFields, _ := incoming.GetArray("fields")
	for _, elem := range incFields {
		field, ok := elem.(descriptors.Document)
		if !ok {
			continue
		}
		name := field.GetString("name")
		idx := indexByKey(curFields, "name", name)
		if idx < 0 {
			curFields = append(curFields, descriptors.CloneValue(field))
			continue
		}
		if !reflect.DeepEqual(curFields[idx], field) {
			violations = append(violations, errors.NewSchemaError(
				location,
				fmt.Sprintf("/fields/%d", idx),
				fmt.Sprintf("field %q is declared with conflicting metadata by multiple tables", name),
			))
		}
	}
	combined.Set("fields", curFields)

	curPrimary, _ := combined.GetArray("primary_key")
	incPrimary, _ := incoming.GetArray("primary_key")
	for _, elem := range incPrimary {
		if !containsValue(curPrimary, elem) {
			curPrimary = append(curPrimary, elem)
		}
	}
	combined.Set("primary_key", curPrimary)

	curTags, _ := combined.GetArray("tags")
	incTags, _ := incoming.GetArray("tags")
	for _, elem := range incTags {
		if !containsValue(curTags, elem) {
			curTags = append(curTags, elem)
		}
	}
	combined.Set("tags", curTags)

	return combined, violations
}

func indexByKey(entries []any, key, value string) int {
	for i, elem := range entries {
		if doc, ok := elem.(descriptors.Document); ok && doc.GetString(key) == value {
			return i
		}
	}
	return -1
}

func containsValue(arr []any, v any) bool {
	for _, elem := range arr {
		if reflect.DeepEqual(elem, v) {
			return true
		}
	}
	return false
}
