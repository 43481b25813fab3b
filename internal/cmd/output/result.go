package output

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/WovenCollab/OpenDAPI/pkg/descriptors"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/runner"
)

// Report is the serializable account of one run, used for JSON and YAML
// output.
type Report struct {
	RunID      string          `json:"run_id" yaml:"run_id"`
	Success    bool            `json:"success" yaml:"success"`
	Summary    string          `json:"summary" yaml:"summary"`
	DurationMS int64           `json:"duration_ms" yaml:"duration_ms"`
	Violations []ViolationItem `json:"violations" yaml:"violations"`
	Written    []string        `json:"written,omitempty" yaml:"written,omitempty"`
	Warnings   []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Kinds      []KindItem      `json:"kinds" yaml:"kinds"`
}

// ViolationItem is one violation, broken out for machine consumers.
type ViolationItem struct {
	Type    string `json:"type" yaml:"type"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// KindItem is one descriptor kind's accounting.
type KindItem struct {
	Kind       string `json:"kind" yaml:"kind"`
	Files      int    `json:"files" yaml:"files"`
	Written    int    `json:"written" yaml:"written"`
	Violations int    `json:"violations" yaml:"violations"`
}

// BuildReport flattens a run result into its serializable form.
func BuildReport(res *runner.Result) Report {
	report := Report{
		RunID:      res.RunID,
		Success:    res.IsSuccess(),
		Summary:    res.Summary(),
		DurationMS: res.Duration.Milliseconds(),
		Written:    res.Written,
		Warnings:   res.Warnings,
	}
	for _, violation := range res.Violations {
		report.Violations = append(report.Violations, violationItem(violation))
	}
	for _, kind := range descriptors.Kinds() {
		if kr, ok := res.Kinds[kind]; ok {
			report.Kinds = append(report.Kinds, KindItem{
				Kind:       string(kr.Kind),
				Files:      kr.Files,
				Written:    kr.Written,
				Violations: kr.Violations,
			})
		}
	}
	return report
}

// FormatResult writes a run's outcome in the requested format. Table
// output prints the violations table plus a one-line summary; wide adds
// the per-kind accounting.
func FormatResult(w io.Writer, res *runner.Result, format Format) error {
	switch format {
	case FormatJSON, FormatYAML:
		return NewFormatter(format).Format(w, BuildReport(res))
	}

	formatter := NewFormatter(format)
	if len(res.Violations) > 0 {
		if err := formatter.Format(w, ViolationsToTableData(res.Violations)); err != nil {
			return err
		}
	}
	if format == FormatWide && len(res.Kinds) > 0 {
		if err := formatter.Format(w, KindsToTableData(res)); err != nil {
			return err
		}
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, path := range res.Written {
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	_, err := fmt.Fprintln(w, res.Summary())
	return err
}

// ViolationsToTableData renders violations as a table.
func ViolationsToTableData(violations []error) Data {
	caser := cases.Title(language.English)
	rows := make([][]string, 0, len(violations))
	for _, violation := range violations {
		item := violationItem(violation)
		rows = append(rows, []string{
			caser.String(item.Type),
			item.Kind,
			item.File,
			item.Message,
		})
	}
	return Data{
		Headers: []string{"Violation", "Kind", "File", "Detail"},
		Rows:    rows,
	}
}

// KindsToTableData renders the per-kind accounting as a table.
func KindsToTableData(res *runner.Result) Data {
	caser := cases.Title(language.English)
	var rows [][]string
	for _, kind := range descriptors.Kinds() {
		kr, ok := res.Kinds[kind]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			caser.String(string(kr.Kind)),
			strconv.Itoa(kr.Files),
			strconv.Itoa(kr.Written),
			strconv.Itoa(kr.Violations),
		})
	}
	return Data{
		Headers: []string{"Kind", "Files", "Written", "Violations"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, AlignRight, AlignRight, AlignRight,
		},
	}
}

// violationItem breaks a violation into its type, location, and a detail
// message that does not repeat the location.
func violationItem(err error) ViolationItem {
	var schema *errors.SchemaError
	if errors.As(err, &schema) {
		detail := schema.Message
		if schema.Pointer != "" {
			detail = fmt.Sprintf("%s at %s", schema.Message, schema.Pointer)
		}
		return ViolationItem{Type: "schema", File: schema.File, Message: detail}
	}

	var missing *errors.MissingFileError
	if errors.As(err, &missing) {
		detail := "required descriptor file missing"
		if missing.File == "" {
			detail = "no descriptor files for this kind"
		}
		return ViolationItem{Type: "missing_file", Kind: missing.Kind, File: missing.File, Message: detail}
	}

	var stale *errors.OutOfDateError
	if errors.As(err, &stale) {
		return ViolationItem{
			Type: "out_of_date", Kind: stale.Kind, File: stale.File,
			Message: "content differs from the generated state",
		}
	}

	var integrity *errors.IntegrityError
	if errors.As(err, &integrity) {
		return ViolationItem{
			Type: "integrity", File: integrity.File,
			Message: fmt.Sprintf("%s %q of %s not found in %s",
				integrity.Field, integrity.MissingURN, integrity.Dataset, integrity.TargetKind),
		}
	}

	var typeKind *errors.TypeKindError
	if errors.As(err, &typeKind) {
		return ViolationItem{
			Type:    "type_kind",
			Message: fmt.Sprintf("no data type mapping for %q on %s.%s", typeKind.TypeName, typeKind.Table, typeKind.Column),
		}
	}

	var parse *errors.ParseError
	if errors.As(err, &parse) {
		return ViolationItem{Type: "parse", File: parse.File, Message: parse.Message}
	}

	return ViolationItem{Type: "violation", Message: err.Error()}
}
