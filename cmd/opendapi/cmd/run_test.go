package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	opendapi "github.com/WovenCollab/OpenDAPI"
	"github.com/WovenCollab/OpenDAPI/internal/config"
)

// projectYAML is a small but complete project: one seeded team and one
// static source with a single table.
const projectYAML = `
organization:
  name: Acme
  email_domain: acme.com
teams:
  seed: [Identity]
sources:
  static:
    - name: warehouse
      tables:
        - identifier: invoices
          namespace: public
          columns:
            - name: id
              type: string
              primary_key: true
            - name: amount
              type: decimal
              nullable: true
`

// newProject writes projectYAML into a fresh working directory and loads
// it the way the commands do.
func newProject(t *testing.T) *config.Config {
	t.Helper()
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("opendapi.yaml", []byte(projectYAML), 0o644))
	cfg, err := loadProject()
	require.NoError(t, err)
	return cfg
}

func TestClientOptions_FullRun(t *testing.T) {
	cfg := newProject(t)

	client, err := opendapi.New(clientOptions(cfg)...)
	require.NoError(t, err)

	result, err := client.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"dapis/acme.teams.yaml", "dapis/invoices.dapi.yaml"}, result.Written)
	// The unseeded datastores kind is reported missing, and the generated
	// dataset still carries the placeholder owner.
	assert.Len(t, result.Violations, 2)
}

func TestCIPayload(t *testing.T) {
	cfg := newProject(t)

	client, err := opendapi.New(clientOptions(cfg)...)
	require.NoError(t, err)
	_, err = client.Run(context.Background())
	require.NoError(t, err)

	payload, err := ciPayload(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, payload.Count())
	assert.Contains(t, payload.Teams, "dapis/acme.teams.yaml")
	assert.Contains(t, payload.Dapis, "dapis/invoices.dapi.yaml")
}
