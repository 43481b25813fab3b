package descriptors_test

import (
	"testing"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
)

func TestDataTypeFor(t *testing.T) {
	tests := []struct {
		typeName string
		want     descriptors.DataType
		ok       bool
	}{
		// Postgres information_schema vocabulary
		{"character varying", descriptors.DataTypeString, true},
		{"varchar(255)", descriptors.DataTypeString, true},
		{"text", descriptors.DataTypeString, true},
		{"uuid", descriptors.DataTypeString, true},
		{"integer", descriptors.DataTypeInteger, true},
		{"bigint", descriptors.DataTypeInteger, true},
		{"numeric(10,2)", descriptors.DataTypeNumber, true},
		{"double precision", descriptors.DataTypeFloat, true},
		{"boolean", descriptors.DataTypeBoolean, true},
		{"timestamp with time zone", descriptors.DataTypeTimestamp, true},
		{"date", descriptors.DataTypeDate, true},
		{"bytea", descriptors.DataTypeBinary, true},
		{"jsonb", descriptors.DataTypeJSON, true},
		{"ARRAY", descriptors.DataTypeArray, true},
		{"_text", descriptors.DataTypeArray, true},
		{"text[]", descriptors.DataTypeArray, true},

		// BSON vocabulary
		{"objectId", descriptors.DataTypeString, true},
		{"long", descriptors.DataTypeInteger, true},
		{"double", descriptors.DataTypeFloat, true},
		{"bool", descriptors.DataTypeBoolean, true},
		{"binData", descriptors.DataTypeBinary, true},
		{"object", descriptors.DataTypeObject, true},
		{"null", descriptors.DataTypeNull, true},

		// Case and whitespace are normalized
		{"  TEXT  ", descriptors.DataTypeString, true},

		// Unsupported type kinds
		{"geography", "", false},
		{"tsvector", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, ok := descriptors.DataTypeFor(tt.typeName)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DataTypeFor(%q) = (%q, %v), want (%q, %v)",
					tt.typeName, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDataTypeIsValid(t *testing.T) {
	for _, dt := range descriptors.DataTypes() {
		if !dt.IsValid() {
			t.Errorf("DataType %q should be valid", dt)
		}
	}
	if descriptors.DataType("geography").IsValid() {
		t.Errorf("Unknown data type should be invalid")
	}
}

func TestShareStatusIsValid(t *testing.T) {
	for _, s := range descriptors.ShareStatuses() {
		if !s.IsValid() {
			t.Errorf("ShareStatus %q should be valid", s)
		}
	}
	if descriptors.ShareStatus("retired").IsValid() {
		t.Errorf("Unknown share status should be invalid")
	}
}

func TestURN(t *testing.T) {
	tests := []struct {
		urn   descriptors.URN
		valid bool
	}{
		{"acme.teams.data_platform", true},
		{"acme.dapis.users", true},
		{"a.b", true},
		{"acme", false},
		{"acme.", false},
		{".teams", false},
		{"acme..teams", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.urn.IsValid(); got != tt.valid {
			t.Errorf("URN(%q).IsValid() = %v, want %v", tt.urn, got, tt.valid)
		}
	}

	if got := descriptors.JoinURN("acme", "purposes", "marketing"); got != "acme.purposes.marketing" {
		t.Errorf("JoinURN = %q", got)
	}

	segs := descriptors.URN("acme.teams.core").Segments()
	if len(segs) != 3 || segs[2] != "core" {
		t.Errorf("Segments = %v", segs)
	}
}
