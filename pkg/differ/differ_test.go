package differ

import (
	"strings"
	"testing"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/goccy/go-yaml"
)

func doc(t *testing.T, src string) descriptors.Document {
	t.Helper()
	var d descriptors.Document
	if err := yaml.Unmarshal([]byte(src), &d); err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return d
}

func TestCompareCreatedFile(t *testing.T) {
	merged := doc(t, `
schema: https://opendapi.org/spec/0-0-1/dapi.json
urn: acme.dapis.users
description: placeholder text
`)

	change, err := New().Compare("dapis/users.dapi.yaml", descriptors.KindDapi, nil, merged)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if change.Type != ChangeTypeAdd {
		t.Errorf("Type = %q, want %q", change.Type, ChangeTypeAdd)
	}
	if !change.HasChanges() {
		t.Fatal("HasChanges() = false for a created file")
	}
	for _, fc := range change.Changes {
		if fc.Type != ChangeTypeAdd {
			t.Errorf("change %s Type = %q, want %q", fc.Path, fc.Type, ChangeTypeAdd)
		}
	}
}

func TestCompareScalarUpdate(t *testing.T) {
	existing := doc(t, `
description: old wording
owner_team_urn: acme.teams.identity
`)
	merged := doc(t, `
description: new wording
owner_team_urn: acme.teams.identity
`)

	change, err := New().Compare("dapis/users.dapi.yaml", descriptors.KindDapi, existing, merged)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if change.Type != ChangeTypeUpdate {
		t.Errorf("Type = %q, want %q", change.Type, ChangeTypeUpdate)
	}
	if len(change.Changes) != 1 {
		t.Fatalf("Changes = %v, want exactly one", change.Changes)
	}
	fc := change.Changes[0]
	if fc.Path != "description" || fc.OldValue != "old wording" || fc.NewValue != "new wording" {
		t.Errorf("change = %+v, want description old->new", fc)
	}
	if fc.Type != ChangeTypeUpdate {
		t.Errorf("change Type = %q, want %q", fc.Type, ChangeTypeUpdate)
	}
}

func TestCompareRemovedKey(t *testing.T) {
	existing := doc(t, "description: kept\nstale_note: remove me\n")
	merged := doc(t, "description: kept\n")

	change, err := New().Compare("dapis/users.dapi.yaml", descriptors.KindDapi, existing, merged)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if len(change.Changes) != 1 {
		t.Fatalf("Changes = %v, want exactly one", change.Changes)
	}
	if got := change.Changes[0].Type; got != ChangeTypeRemove {
		t.Errorf("change Type = %q, want %q", got, ChangeTypeRemove)
	}
}

func TestCompareIdenticalDocuments(t *testing.T) {
	existing := doc(t, `
urn: acme.dapis.users
fields:
- name: id
  data_type: integer
`)

	change, err := New().Compare("dapis/users.dapi.yaml", descriptors.KindDapi, existing, existing.Clone())
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if change.HasChanges() {
		t.Errorf("HasChanges() = true for identical documents: %+v", change.Changes)
	}
}

func TestCompareSortsChanges(t *testing.T) {
	existing := doc(t, "zulu: 1\nalpha: 1\nmike: 1\n")
	merged := doc(t, "zulu: 2\nalpha: 2\nmike: 2\n")

	change, err := New().Compare("x.teams.yaml", descriptors.KindTeams, existing, merged)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	var paths []string
	for _, fc := range change.Changes {
		paths = append(paths, fc.Path)
	}
	for i := 1; i < len(paths); i++ {
		if paths[i-1] > paths[i] {
			t.Fatalf("changes not sorted: %v", paths)
		}
	}
}

func TestChangesetSummaryAndString(t *testing.T) {
	cs := &Changeset{}
	if cs.HasChanges() {
		t.Error("empty changeset HasChanges() = true")
	}
	if got := cs.String(); got != "no changes detected" {
		t.Errorf("String() = %q", got)
	}

	cs.Append(FileChange{
		Path: "dapis/users.dapi.yaml",
		Kind: descriptors.KindDapi,
		Type: ChangeTypeAdd,
		Changes: []FieldChange{
			{Path: "urn", Type: ChangeTypeAdd, NewValue: "acme.dapis.users"},
			{Path: "description", Type: ChangeTypeAdd, NewValue: "placeholder text"},
		},
	})
	cs.Append(FileChange{
		Path:    "dapis/acme.teams.yaml",
		Kind:    descriptors.KindTeams,
		Type:    ChangeTypeUpdate,
		Changes: []FieldChange{{Path: "teams.0.email", Type: ChangeTypeUpdate}},
	})

	summary := cs.Summary()
	if summary.Created != 1 || summary.Updated != 1 || summary.TotalChanges != 2 {
		t.Errorf("Summary() = %+v, want 1 created, 1 updated", summary)
	}
	if summary.FieldChanges != 3 {
		t.Errorf("Summary().FieldChanges = %d, want 3", summary.FieldChanges)
	}

	rendered := cs.String()
	if !strings.Contains(rendered, "teams: 1 updated") || !strings.Contains(rendered, "dapi: 1 created") {
		t.Errorf("String() = %q", rendered)
	}
}
