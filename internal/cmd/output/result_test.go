package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/runner"
)

func testResult() *runner.Result {
	return &runner.Result{
		RunID:    "run-1",
		Duration: 1500 * time.Millisecond,
		Violations: []error{
			errors.NewMissingFileError("teams", ""),
			errors.NewSchemaError("dapis/users.dapi.yaml", "/fields/0/data_type", "value must be one of the declared types"),
			errors.NewIntegrityError("dapis/users.dapi.yaml", "acme.dapis.users", "owner_team_urn", "acme.teams.placeholder", "teams"),
		},
		Written:  []string{"dapis/users.dapi.yaml"},
		Warnings: []string{"datastore pg_main has no datasets"},
		Kinds: map[descriptors.Kind]*runner.KindResult{
			descriptors.KindDapi:  {Kind: descriptors.KindDapi, Files: 1, Written: 1, Violations: 2},
			descriptors.KindTeams: {Kind: descriptors.KindTeams, Violations: 1},
		},
	}
}

// TestParseFormat tests format string validation.
func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "JSON", "yaml", "wide", ""} {
		format, err := ParseFormat(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, strings.ToLower(valid), string(format))
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

// TestDetectFormat tests that an explicit format wins over detection.
func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
	assert.Equal(t, FormatWide, DetectFormat("wide"))
}

// TestBuildReport tests flattening a run result.
func TestBuildReport(t *testing.T) {
	report := BuildReport(testResult())

	assert.Equal(t, "run-1", report.RunID)
	assert.False(t, report.Success)
	assert.Equal(t, int64(1500), report.DurationMS)
	assert.Equal(t, []string{"dapis/users.dapi.yaml"}, report.Written)

	require.Len(t, report.Violations, 3)
	assert.Equal(t, ViolationItem{
		Type: "missing_file", Kind: "teams",
		Message: "no descriptor files for this kind",
	}, report.Violations[0])
	assert.Equal(t, "schema", report.Violations[1].Type)
	assert.Equal(t, "dapis/users.dapi.yaml", report.Violations[1].File)
	assert.Contains(t, report.Violations[1].Message, "at /fields/0/data_type")
	assert.Equal(t, "integrity", report.Violations[2].Type)
	assert.Contains(t, report.Violations[2].Message, `"acme.teams.placeholder"`)

	// kinds come out in validation order
	require.Len(t, report.Kinds, 2)
	assert.Equal(t, "teams", report.Kinds[0].Kind)
	assert.Equal(t, "dapi", report.Kinds[1].Kind)
	assert.Equal(t, 1, report.Kinds[1].Written)
}

// TestFormatResult_JSON tests the machine-readable path end to end.
func TestFormatResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatResult(&buf, testResult(), FormatJSON))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "run-1", report.RunID)
	assert.Len(t, report.Violations, 3)
}

// TestFormatResult_Table tests the human-readable path.
func TestFormatResult_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatResult(&buf, testResult(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "VIOLATION", "violations table header")
	assert.Contains(t, out, "acme.teams.placeholder")
	assert.Contains(t, out, "warning: datastore pg_main has no datasets")
	assert.Contains(t, out, "wrote dapis/users.dapi.yaml")
	assert.Contains(t, out, "3 violations, 1 files written")
	assert.NotContains(t, out, "FILES", "kind accounting is wide-only")

	buf.Reset()
	require.NoError(t, FormatResult(&buf, testResult(), FormatWide))
	wide := buf.String()
	assert.Contains(t, wide, "FILES")
	assert.Contains(t, wide, "Teams")
}

// TestFormatResult_CleanRun tests output for a run with nothing to report.
func TestFormatResult_CleanRun(t *testing.T) {
	res := &runner.Result{RunID: "run-2"}

	var buf bytes.Buffer
	require.NoError(t, FormatResult(&buf, res, FormatTable))
	assert.Equal(t, "all descriptors valid and up to date\n", buf.String())
}

// TestYAMLFormatter tests YAML encoding of a report.
func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatResult(&buf, testResult(), FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "run_id: run-1")
	assert.Contains(t, out, "success: false")
}
