package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/google/go-cmp/cmp"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func sampleDoc() descriptors.Document {
	return descriptors.Document{
		{Key: "urn", Value: "acme.dapis.users"},
		{Key: "fields", Value: []any{
			descriptors.Document{
				{Key: "name", Value: "id"},
				{Key: "data_type", Value: "integer"},
			},
		}},
		{Key: "primary_key", Value: []any{"id"}},
	}
}

func TestWriteReadYAML(t *testing.T) {
	s := newTestStore(t)
	doc := sampleDoc()

	if err := s.Write("dapis/users.dapi.yaml", doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := s.Read("dapis/users.dapi.yaml")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// Key order survives serialization: urn was written first, not
	// alphabetically.
	raw, err := os.ReadFile(filepath.Join(s.Root(), "dapis", "users.dapi.yaml"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if want := "urn: acme.dapis.users\n"; len(raw) < len(want) || string(raw[:len(want)]) != want {
		t.Errorf("serialized YAML starts with %q, want prefix %q", raw, want)
	}
}

func TestWriteReadYML(t *testing.T) {
	s := newTestStore(t)
	doc := sampleDoc()

	if err := s.Write("dapis/users.dapi.yml", doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := s.Read("dapis/users.dapi.yml")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSONIndented(t *testing.T) {
	s := newTestStore(t)
	doc := sampleDoc()

	if err := s.Write("dapis/users.dapi.json", doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(s.Root(), "dapis", "users.dapi.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := `{
  "urn": "acme.dapis.users",
  "fields": [
    {
      "name": "id",
      "data_type": "integer"
    }
  ],
  "primary_key": [
    "id"
  ]
}
`
	if string(raw) != want {
		t.Errorf("serialized JSON = %q, want %q", raw, want)
	}

	got, err := s.Read("dapis/users.dapi.json")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPreservesAuthoredOrder(t *testing.T) {
	s := newTestStore(t)
	raw := "zulu: 1\nalpha: 2\nmiddle:\n  yankee: a\n  bravo: b\n"
	if err := os.WriteFile(filepath.Join(s.Root(), "acme.teams.yaml"), []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	doc, err := s.Read("acme.teams.yaml")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]string{"zulu", "alpha", "middle"}, doc.Keys()); diff != "" {
		t.Errorf("top-level key order mismatch (-want +got):\n%s", diff)
	}
	nested, ok := doc.GetDocument("middle")
	if !ok {
		t.Fatal("GetDocument(middle) missing")
	}
	if diff := cmp.Diff([]string{"yankee", "bravo"}, nested.Keys()); diff != "" {
		t.Errorf("nested key order mismatch (-want +got):\n%s", diff)
	}
}

func TestReadParseErrors(t *testing.T) {
	s := newTestStore(t)

	malformed := "key: [unclosed\n"
	if err := os.WriteFile(filepath.Join(s.Root(), "bad.dapi.yaml"), []byte(malformed), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := s.Read("bad.dapi.yaml"); !errors.IsParseError(err) {
		t.Errorf("Read(malformed) error = %v, want ParseError", err)
	}

	// A top-level sequence is not a descriptor document.
	sequence := "- one\n- two\n"
	if err := os.WriteFile(filepath.Join(s.Root(), "list.dapi.yaml"), []byte(sequence), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := s.Read("list.dapi.yaml"); !errors.IsParseError(err) {
		t.Errorf("Read(sequence) error = %v, want ParseError", err)
	}
}

func TestUnsupportedExtension(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Read("users.dapi.toml"); !errors.IsParseError(err) {
		t.Errorf("Read(.toml) error = %v, want ParseError", err)
	}
	if err := s.Write("users.dapi.toml", sampleDoc()); !errors.IsParseError(err) {
		t.Errorf("Write(.toml) error = %v, want ParseError", err)
	}
}

func TestExists(t *testing.T) {
	s := newTestStore(t)

	if s.Exists("dapis/users.dapi.yaml") {
		t.Error("Exists() = true before write")
	}
	if err := s.Write("dapis/users.dapi.yaml", sampleDoc()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !s.Exists("dapis/users.dapi.yaml") {
		t.Error("Exists() = false after write")
	}
	// Directories are not descriptor files.
	if s.Exists("dapis") {
		t.Error("Exists(directory) = true")
	}
}

func TestWalk(t *testing.T) {
	s := newTestStore(t)
	files := []string{
		"dapis/acme.teams.yaml",
		"dapis/users.dapi.yaml",
		"dapis/orders.dapi.json",
		"service/api/events.dapi.yml",
	}
	for _, path := range files {
		if err := s.Write(path, sampleDoc()); err != nil {
			t.Fatalf("Write(%s) error = %v", path, err)
		}
	}

	// Files inside dot-directories and files with foreign suffixes are
	// invisible to Walk.
	hidden := filepath.Join(s.Root(), ".git", "stash.dapi.yaml")
	if err := os.MkdirAll(filepath.Dir(hidden), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(hidden, []byte("urn: x\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	dapis, err := s.Walk(descriptors.KindDapi)
	if err != nil {
		t.Fatalf("Walk(dapi) error = %v", err)
	}
	wantDapis := []string{
		"dapis/orders.dapi.json",
		"dapis/users.dapi.yaml",
		"service/api/events.dapi.yml",
	}
	if diff := cmp.Diff(wantDapis, dapis); diff != "" {
		t.Errorf("Walk(dapi) mismatch (-want +got):\n%s", diff)
	}

	teams, err := s.Walk(descriptors.KindTeams)
	if err != nil {
		t.Fatalf("Walk(teams) error = %v", err)
	}
	if diff := cmp.Diff([]string{"dapis/acme.teams.yaml"}, teams); diff != "" {
		t.Errorf("Walk(teams) mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsBadRoots(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("New(missing) succeeded")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := New(file); !errors.IsConfigError(err) {
		t.Errorf("New(file) error = %v, want ConfigError", err)
	}
}
