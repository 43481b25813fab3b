package postgres

import "testing"

func TestNewDefaults(t *testing.T) {
	a := New("host=localhost dbname=app", "")
	if a.schema != "public" {
		t.Errorf("schema = %q, want %q", a.schema, "public")
	}
	if got := a.ID(); got != "postgres" {
		t.Errorf("ID() = %q, want %q", got, "postgres")
	}
}

func TestNewExplicitSchema(t *testing.T) {
	a := New("host=localhost dbname=app", "analytics")
	if a.schema != "analytics" {
		t.Errorf("schema = %q, want %q", a.schema, "analytics")
	}
}
