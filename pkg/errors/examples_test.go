package errors_test

import (
	"fmt"

	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

// Example demonstrates basic violation creation and checking.
func Example() {
	// Create a schema violation
	err := &errors.SchemaError{
		File:    "dapis/users.dapi.yaml",
		Pointer: "/fields/2/data_type",
		Message: "must be one of the allowed data types",
	}

	// Check error class
	if errors.IsViolation(err) {
		fmt.Println("reportable violation")
	}

	// Output: reportable violation
}

// Example_missingFile shows kind-level and file-level missing descriptors.
func Example_missingFile() {
	fileLevel := errors.NewMissingFileError("dapi", "dapis/users.dapi.yaml")
	kindLevel := errors.NewMissingFileError("teams", "")

	fmt.Println(fileLevel.Error())
	fmt.Println(kindLevel.Error())

	// Output:
	// required dapi descriptor missing: dapis/users.dapi.yaml
	// no teams descriptor files found
}

// Example_integrity demonstrates a broken URN reference.
func Example_integrity() {
	err := errors.NewIntegrityError(
		"dapis/users.dapi.yaml",
		"acme.dapis.users",
		"owner_team_urn",
		"acme.teams.ghosts",
		"teams",
	)

	fmt.Println(err.Error())

	// Output: referential integrity violation in dapis/users.dapi.yaml: owner_team_urn "acme.teams.ghosts" of dataset acme.dapis.users not found in teams
}

// Example_fatalVersusViolation shows the split the runner relies on.
func Example_fatalVersusViolation() {
	report := func(err error) {
		if errors.IsViolation(err) {
			fmt.Println("collect:", err)
			return
		}
		fmt.Println("abort:", err)
	}

	report(errors.NewOutOfDateError("dapi", "dapis/users.dapi.yaml"))
	report(errors.NewConfigError("runner", "no validators configured", nil))

	// Output:
	// collect: dapi descriptor dapis/users.dapi.yaml is not up to date; run the autoupdate locally and commit the result
	// abort: configuration error in runner: no validators configured
}

// Example_errorWrapping demonstrates error wrapping patterns.
func Example_errorWrapping() {
	// Original error
	originalErr := fmt.Errorf("connection refused")

	// Wrap with IO error
	ioErr := errors.WrapIO("fetch", "https://opendapi.org/spec/0-0-1/dapi.json", originalErr)

	var target *errors.IOError
	if errors.As(ioErr, &target) {
		fmt.Println("IO failure during", target.Operation)
	}

	// Output: IO failure during fetch
}

// Example_validationError shows caller input validation errors.
func Example_validationError() {
	org := ""
	if org == "" {
		err := &errors.ValidationError{
			Field:   "organization",
			Value:   org,
			Message: "organization name cannot be empty",
		}
		fmt.Println(err.Error())
	}

	// Output: validation failed for field organization: organization name cannot be empty
}
