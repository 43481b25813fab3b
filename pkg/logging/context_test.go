package logging_test

import (
	"context"
	"testing"

	"github.com/WovenCollab/OpenDAPI/pkg/logging"
	"github.com/stretchr/testify/assert"
)

func TestContextFunctions(t *testing.T) {
	t.Run("WithKind adds kind to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithKind(ctx, "teams")

		// Extract logger and verify it has the kind field
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithFile adds file to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithFile(ctx, "dapis/users.dapi.yaml")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithOperation adds operation to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithOperation(ctx, "autoupdate")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithDatastore adds datastore to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithDatastore(ctx, "acme.datastores.main")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithFields adds custom fields to context", func(t *testing.T) {
		ctx := context.Background()
		fields := map[string]interface{}{
			"org":    "acme",
			"run_id": "abc-def",
		}
		ctx = logging.WithFields(ctx, fields)

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithRunID stores and exposes the run ID", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithRunID(ctx, "4f1c0de2")

		assert.Equal(t, "4f1c0de2", logging.RunID(ctx))
		assert.Equal(t, "", logging.RunID(context.Background()))
	})

	t.Run("FromContext returns logger from context", func(t *testing.T) {
		ctx := context.Background()

		// First call should return the default logger
		logger1 := logging.FromContext(ctx)
		assert.NotNil(t, logger1)

		// Add kind and get logger again
		ctx = logging.WithKind(ctx, "datastores")
		logger2 := logging.FromContext(ctx)
		assert.NotNil(t, logger2)
	})

	t.Run("Ctx extracts logger from context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithKind(ctx, "purposes")

		logger := logging.Ctx(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("chaining context functions", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithKind(ctx, "dapi")
		ctx = logging.WithFile(ctx, "dapis/orders.dapi.yaml")
		ctx = logging.WithOperation(ctx, "validate")
		ctx = logging.WithDatastore(ctx, "acme.datastores.main")

		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})
}
