package naming

import (
	"testing"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
	"github.com/google/go-cmp/cmp"
)

var usersTable = introspect.Table{
	Identifier: "users",
	Namespace:  "public",
	Columns: []introspect.Column{
		{Name: "id", Type: "bigint", PrimaryKey: true},
		{Name: "email", Type: "text"},
	},
}

func TestDefaultURNs(t *testing.T) {
	s := New("Acme Inc")

	if got, want := s.URN(usersTable), descriptors.URN("acme_inc.dapis.users"); got != want {
		t.Errorf("URN = %q, want %q", got, want)
	}
	if got, want := s.OwnerTeam(usersTable), descriptors.URN("acme_inc.teams.placeholder"); got != want {
		t.Errorf("OwnerTeam = %q, want %q", got, want)
	}
	if !s.URN(usersTable).IsValid() || !s.OwnerTeam(usersTable).IsValid() {
		t.Errorf("generated URNs must satisfy the descriptor URN shape")
	}
}

func TestOwnerTeamOption(t *testing.T) {
	s := New("acme", WithOwnerTeam("Data Platform"))

	if got, want := s.OwnerTeam(usersTable), descriptors.URN("acme.teams.data_platform"); got != want {
		t.Errorf("OwnerTeam = %q, want %q", got, want)
	}
}

func TestDatastoreBindings(t *testing.T) {
	s := New("acme", WithProducer("pg_main"), WithConsumer("warehouse"))

	want := Bindings{
		Producers: []Binding{{
			URN:        "acme.datastores.pg_main",
			Identifier: "users",
			Namespace:  "public",
		}},
		Consumers: []Binding{{
			URN:        "acme.datastores.warehouse",
			Identifier: "USERS",
			Namespace:  "PUBLIC",
		}},
	}
	if diff := cmp.Diff(want, s.Datastores(usersTable)); diff != "" {
		t.Errorf("Datastores mismatch (-want +got):\n%s", diff)
	}
}

func TestDatastoresEmptyWithoutConfiguration(t *testing.T) {
	s := New("acme")

	got := s.Datastores(usersTable)
	if len(got.Producers) != 0 || len(got.Consumers) != 0 {
		t.Errorf("Datastores = %+v, want no bindings", got)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name string
		s    Strategy
		want string
	}{
		{"defaults", New("acme"), "dapis/users.dapi.yaml"},
		{"source subdir", New("acme", WithSource("postgres")), "dapis/postgres/users.dapi.yaml"},
		{"custom dir", New("acme", WithDatasetsDir("descriptors/data")), "descriptors/data/users.dapi.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Location(usersTable); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "users"},
		{"Acme Inc", "acme_inc"},
		{"Acme Inc.", "acme_inc"},
		{"order-items", "order_items"},
		{"userProfiles", "userprofiles"},
		{"  Data Platform  ", "data_platform"},
		{"a..b", "a_b"},
		{"audit_log_2024", "audit_log_2024"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Segment(tt.in); got != tt.want {
			t.Errorf("Segment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
