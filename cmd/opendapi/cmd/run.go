package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	opendapi "github.com/WovenCollab/OpenDAPI"
	"github.com/WovenCollab/OpenDAPI/internal/cmd/output"
	"github.com/WovenCollab/OpenDAPI/internal/config"
	"github.com/WovenCollab/OpenDAPI/internal/introspect/mongo"
	"github.com/WovenCollab/OpenDAPI/internal/introspect/postgres"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile descriptors against the configured data models",
	Long: heredoc.Doc(`
		Run introspects every configured source, regenerates the descriptor
		files, folds hand edits back into the generated state, and writes
		the result. Violations that survive reconciliation are reported and
		the command exits nonzero.
	`),
	Example: heredoc.Doc(`
		$ opendapi run
		$ opendapi run --config infra/opendapi.yaml
		$ opendapi run -o json | jq .violations
	`),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}

	client, err := opendapi.New(clientOptions(cfg)...)
	if err != nil {
		return err
	}

	result, err := client.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := output.FormatResult(os.Stdout, result, output.Format(outputFormat)); err != nil {
		return err
	}
	if !result.IsSuccess() {
		return fmt.Errorf("%d descriptor violations", len(result.Violations))
	}
	return nil
}

// clientOptions converts the repository configuration into facade options,
// wiring one introspection adapter per configured source. The source name
// becomes the adapter ID so two sources of the same kind keep separate
// dataset directories.
func clientOptions(cfg *config.Config) []opendapi.Option {
	opts := baseOptions(cfg)

	var adapters []introspect.Adapter
	for _, pg := range cfg.Sources.Postgres {
		adapters = append(adapters, introspect.Named(pg.Name, postgres.New(pg.ResolveDSN(), pg.Schema)))
	}
	for _, mg := range cfg.Sources.Mongo {
		adapters = append(adapters, introspect.Named(mg.Name, mongo.New(mg.ResolveURI(), mg.Database)))
	}
	adapters = append(adapters, staticAdapters(cfg)...)

	if len(adapters) > 0 {
		opts = append(opts, opendapi.WithAdapter(adapters...))
	}
	return opts
}

// baseOptions carries everything but the introspection sources.
func baseOptions(cfg *config.Config) []opendapi.Option {
	opts := []opendapi.Option{
		opendapi.WithRoot(cfg.Root),
		opendapi.WithDatasetsDir(cfg.DatasetsDir),
		opendapi.WithOrganization(opendapi.Organization{
			Name:        cfg.Organization.Name,
			EmailDomain: cfg.Organization.EmailDomain,
			Slack:       cfg.Organization.Slack,
		}),
		opendapi.WithAutoupdate(cfg.Autoupdate),
		opendapi.WithEnforceExistence(cfg.EnforceExistence),
	}

	if cfg.Teams.Seeded {
		opts = append(opts, opendapi.WithSeedTeams(cfg.Teams.Seed...))
	}
	if cfg.Datastores.Seeded {
		seeds := make([]opendapi.Datastore, 0, len(cfg.Datastores.Seed))
		for _, ds := range cfg.Datastores.Seed {
			seeds = append(seeds, opendapi.Datastore{Name: ds.Name, Type: ds.Type})
		}
		opts = append(opts, opendapi.WithSeedDatastores(seeds...))
	}
	if cfg.Purposes.Enabled {
		opts = append(opts, opendapi.WithPurposesEnabled(true))
	}
	if cfg.Purposes.Seeded {
		opts = append(opts, opendapi.WithSeedPurposes(cfg.Purposes.Seed...))
	}
	return opts
}

// staticAdapters builds the adapters for the table models declared inline
// in the config file.
func staticAdapters(cfg *config.Config) []introspect.Adapter {
	var adapters []introspect.Adapter
	for _, st := range cfg.Sources.Static {
		adapters = append(adapters, introspect.NewStatic(st.Name, st.Models()))
	}
	return adapters
}
