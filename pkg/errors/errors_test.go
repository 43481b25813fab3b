package errors_test

import (
	"errors"
	"testing"

	pkgerrors "github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestSchemaError(t *testing.T) {
	t.Run("with pointer", func(t *testing.T) {
		err := &pkgerrors.SchemaError{
			File:    "dapis/users.dapi.yaml",
			Pointer: "/fields/0/data_type",
			Message: "value must be one of the allowed data types",
		}
		assert.Contains(t, err.Error(), "dapis/users.dapi.yaml")
		assert.Contains(t, err.Error(), "/fields/0/data_type")
		assert.Contains(t, err.Error(), "allowed data types")
		assert.True(t, errors.Is(err, pkgerrors.ErrViolation))
	})

	t.Run("without pointer", func(t *testing.T) {
		err := pkgerrors.NewSchemaError("acme.teams.yaml", "", "missing schema key")
		assert.Equal(t, "schema violation in acme.teams.yaml: missing schema key", err.Error())
		assert.True(t, pkgerrors.IsSchemaError(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewSchemaError("acme.purposes.yaml", "/business_purposes", "required")
		wrapped := errors.Join(errors.New("validation pass failed"), base)
		assert.True(t, pkgerrors.IsSchemaError(wrapped))
		assert.True(t, pkgerrors.IsViolation(wrapped))
	})
}

func TestMissingFileError(t *testing.T) {
	t.Run("specific file", func(t *testing.T) {
		err := &pkgerrors.MissingFileError{
			Kind: "teams",
			File: "dapis/acme.teams.yaml",
		}
		assert.Equal(t, "required teams descriptor missing: dapis/acme.teams.yaml", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrViolation))
	})

	t.Run("kind level", func(t *testing.T) {
		err := pkgerrors.NewMissingFileError("datastores", "")
		assert.Equal(t, "no datastores descriptor files found", err.Error())
		assert.True(t, pkgerrors.IsMissingFile(err))
	})
}

func TestIntegrityError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IntegrityError{
			File:       "dapis/users.dapi.yaml",
			Dataset:    "acme.dapis.users",
			Field:      "owner_team_urn",
			MissingURN: "acme.teams.ghosts",
			TargetKind: "teams",
		}
		assert.Contains(t, err.Error(), "dapis/users.dapi.yaml")
		assert.Contains(t, err.Error(), "owner_team_urn")
		assert.Contains(t, err.Error(), "acme.teams.ghosts")
		assert.Contains(t, err.Error(), "acme.dapis.users")
		assert.True(t, errors.Is(err, pkgerrors.ErrViolation))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewIntegrityError(
			"dapis/orders.dapi.yaml", "acme.dapis.orders",
			"datastores.producers", "acme.datastores.legacy", "datastores")
		assert.True(t, pkgerrors.IsIntegrityError(err))
		assert.Contains(t, err.Error(), "datastores")
	})
}

func TestTypeKindError(t *testing.T) {
	err := pkgerrors.NewTypeKindError("users", "location", "geography")
	assert.Equal(t, `unsupported type kind "geography" for column users.location`, err.Error())
	assert.True(t, pkgerrors.IsTypeKindError(err))
	assert.True(t, pkgerrors.IsViolation(err))
}

func TestOutOfDateError(t *testing.T) {
	err := pkgerrors.NewOutOfDateError("dapi", "dapis/users.dapi.yaml")
	assert.Contains(t, err.Error(), "dapis/users.dapi.yaml")
	assert.Contains(t, err.Error(), "not up to date")
	assert.True(t, pkgerrors.IsOutOfDate(err))
	assert.True(t, errors.Is(err, pkgerrors.ErrViolation))
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "yaml",
			File:    "dapis/users.dapi.yaml",
			Line:    10,
			Column:  5,
			Message: "unexpected token",
		}
		assert.Contains(t, err.Error(), "yaml")
		assert.Contains(t, err.Error(), "dapis/users.dapi.yaml")
		assert.Contains(t, err.Error(), "10:5")
		assert.Contains(t, err.Error(), "unexpected token")
	})

	t.Run("with file only", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "json",
			File:    "acme.datastores.json",
			Message: "invalid character",
		}
		assert.Contains(t, err.Error(), "json")
		assert.Contains(t, err.Error(), "acme.datastores.json")
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "yaml",
			Message: "syntax error",
		}
		assert.Contains(t, err.Error(), "yaml parse error")
		assert.Contains(t, err.Error(), "syntax error")
	})

	t.Run("parse failures are violations", func(t *testing.T) {
		err := pkgerrors.NewParseError("yaml", "bad.teams.yaml", "bad indentation", nil)
		assert.True(t, pkgerrors.IsViolation(err))
		assert.True(t, pkgerrors.IsParseError(err))
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("EOF")
		err := pkgerrors.NewParseError("json", "doc.dapi.json", "unexpected end", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapParse("yaml", "doc.dapi.yaml", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "yaml", parseErr.Format)
		assert.Equal(t, "doc.dapi.yaml", parseErr.File)
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "kind",
			Message: "unknown descriptor kind",
		}
		assert.Equal(t, "validation failed for field kind: unknown descriptor kind", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid options",
		}
		assert.Equal(t, "validation failed: invalid options", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("root", "/does/not/exist", "directory does not exist")
		assert.Contains(t, err.Error(), "root")
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("not a violation", func(t *testing.T) {
		err := pkgerrors.NewValidationError("org", "", "cannot be empty")
		assert.False(t, pkgerrors.IsViolation(err))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "registry",
			Message:   "api_key cannot be empty",
		}
		assert.Contains(t, err.Error(), "registry")
		assert.Contains(t, err.Error(), "api_key")
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewConfigError("runner", "no validators configured", nil)
		assert.Contains(t, err.Error(), "runner")
		assert.Contains(t, err.Error(), "no validators configured")
	})

	t.Run("fatal not a violation", func(t *testing.T) {
		err := pkgerrors.NewConfigError("schemas", "schema URL must start with https://opendapi.org/", nil)
		assert.False(t, pkgerrors.IsViolation(err))
		assert.True(t, pkgerrors.IsConfigError(err))
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "dapis/users.dapi.yaml",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "read")
		assert.Contains(t, err.Error(), "dapis/users.dapi.yaml")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "dapis/orders.dapi.yaml", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("network error")
		err := pkgerrors.WrapIO("fetch", "https://opendapi.org/spec/0-0-1/dapi.json", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "fetch", ioErr.Operation)
		assert.Equal(t, "https://opendapi.org/spec/0-0-1/dapi.json", ioErr.Path)
	})
}

func TestRegistryError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.RegistryError{
			Endpoint:   "https://api.wovencollab.com/v1/registry/validate",
			StatusCode: 502,
			Message:    "bad gateway",
		}
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "bad gateway")
		assert.True(t, errors.Is(err, pkgerrors.ErrRegistryUnavailable))
	})

	t.Run("client error is not unavailable", func(t *testing.T) {
		err := pkgerrors.NewRegistryError("https://api.wovencollab.com/v1/registry/register", 400, "bad request")
		assert.False(t, errors.Is(err, pkgerrors.ErrRegistryUnavailable))
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		err := pkgerrors.WrapRegistry("https://api.wovencollab.com/v1/registry/stats", 0, baseErr)
		regErr, ok := err.(*pkgerrors.RegistryError)
		require.True(t, ok)
		assert.Equal(t, baseErr, regErr.Unwrap())

		assert.Nil(t, pkgerrors.WrapRegistry("endpoint", 200, nil))
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		err1 := pkgerrors.ErrNotFound
		err2 := errors.New("not found")

		assert.True(t, pkgerrors.IsNotFound(err1))
		assert.False(t, pkgerrors.IsNotFound(err2))
	})

	t.Run("IsViolation distinguishes fatal from reportable", func(t *testing.T) {
		violations := []error{
			pkgerrors.NewSchemaError("f", "", "m"),
			pkgerrors.NewMissingFileError("teams", ""),
			pkgerrors.NewIntegrityError("f", "d", "owner_team_urn", "urn", "teams"),
			pkgerrors.NewTypeKindError("t", "c", "geometry"),
			pkgerrors.NewOutOfDateError("dapi", "f"),
			pkgerrors.NewParseError("yaml", "f", "m", nil),
		}
		for _, err := range violations {
			assert.True(t, pkgerrors.IsViolation(err), "expected violation: %v", err)
		}

		fatal := []error{
			pkgerrors.NewConfigError("c", "m", nil),
			pkgerrors.NewIOError("read", "p", errors.New("boom")),
			pkgerrors.NewRegistryError("e", 500, "m"),
		}
		for _, err := range fatal {
			assert.False(t, pkgerrors.IsViolation(err), "expected fatal: %v", err)
		}
	})

	t.Run("IsTimeout", func(t *testing.T) {
		assert.True(t, pkgerrors.IsTimeout(pkgerrors.ErrTimeout))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("organization", errors.New("too short"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "organization")
		assert.Contains(t, err.Error(), "too short")

		// nil error returns nil
		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "dapis/file.yaml", errors.New("disk full"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "write")
		assert.Contains(t, err.Error(), "dapis/file.yaml")

		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("WrapParse", func(t *testing.T) {
		err := pkgerrors.WrapParse("json", "config.json", errors.New("invalid syntax"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "json")
		assert.Contains(t, err.Error(), "config.json")

		assert.Nil(t, pkgerrors.WrapParse("yaml", "file.yaml", nil))
	})
}

func TestErrorChaining(t *testing.T) {
	t.Run("multiple wrapping", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		ioErr := pkgerrors.WrapIO("connect", "api.wovencollab.com", baseErr)
		regErr := &pkgerrors.RegistryError{
			Endpoint: "https://api.wovencollab.com/v1/registry/validate",
			Message:  "failed to connect",
			Err:      ioErr,
		}

		assert.Equal(t, ioErr, regErr.Unwrap())

		// errors.As should work through the chain
		var targetIOErr *pkgerrors.IOError
		assert.True(t, errors.As(regErr, &targetIOErr))
		assert.Equal(t, "connect", targetIOErr.Operation)
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrViolation", pkgerrors.ErrViolation},
		{"ErrRegistryUnavailable", pkgerrors.ErrRegistryUnavailable},
		{"ErrTimeout", pkgerrors.ErrTimeout},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
