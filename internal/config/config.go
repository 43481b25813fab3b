// Package config loads the opendapi command's project configuration:
// opendapi.yaml at the repository root, .env files, and environment
// overrides, with flags > environment > .env > config file > defaults.
//
// A full config file looks like:
//
//	organization:
//	  name: Acme Inc
//	  email_domain: acme.com
//	root: .
//	datasets_dir: dapis
//	teams:
//	  seed: [Identity, Growth]
//	datastores:
//	  seed:
//	    - name: pg_main
//	      type: postgres
//	purposes:
//	  enabled: true
//	  seed: [Analytics]
//	sources:
//	  postgres:
//	    - name: app
//	      dsn_env: APP_PG_DSN
//	      schema: public
//	registry:
//	  host: https://api.wovencollab.com
//	  mainline_branch: main
//
// Seeding a kind is opting in: a seed key that is present, even with an
// empty list, turns generation on for that kind; an absent key leaves the
// kind validate-only.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	"github.com/WovenCollab/OpenDAPI/pkg/introspect"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds one repository's descriptor configuration.
type Config struct {
	Root        string `mapstructure:"root"`
	DatasetsDir string `mapstructure:"datasets_dir"`

	Organization Organization `mapstructure:"organization"`
	Teams        Teams        `mapstructure:"teams"`
	Datastores   Datastores   `mapstructure:"datastores"`
	Purposes     Purposes     `mapstructure:"purposes"`

	Autoupdate       bool `mapstructure:"autoupdate"`
	EnforceExistence bool `mapstructure:"enforce_existence"`

	Sources  Sources  `mapstructure:"sources"`
	Registry Registry `mapstructure:"registry"`

	// ConfigFile is the file the values came from, empty when running on
	// defaults and environment alone.
	ConfigFile string `mapstructure:"-"`

	// Logging configuration, environment-only.
	LogLevel  string `mapstructure:"-"`
	LogFormat string `mapstructure:"-"`
}

// Organization identifies the descriptor tree owner.
type Organization struct {
	Name        string   `mapstructure:"name"`
	EmailDomain string   `mapstructure:"email_domain"`
	Slack       []string `mapstructure:"slack_teams"`
}

// Teams configures teams descriptor seeding.
type Teams struct {
	Seed []string `mapstructure:"seed"`

	// Seeded reports whether the seed key was present at all.
	Seeded bool `mapstructure:"-"`
}

// Datastore seeds one datastores descriptor entry.
type Datastore struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// Datastores configures datastores descriptor seeding.
type Datastores struct {
	Seed   []Datastore `mapstructure:"seed"`
	Seeded bool        `mapstructure:"-"`
}

// Purposes configures business purpose validation and seeding. Seeding
// implies enabling.
type Purposes struct {
	Enabled bool     `mapstructure:"enabled"`
	Seed    []string `mapstructure:"seed"`
	Seeded  bool     `mapstructure:"-"`
}

// Sources lists the data models descriptors are generated from.
type Sources struct {
	Postgres []Postgres `mapstructure:"postgres"`
	Mongo    []Mongo    `mapstructure:"mongo"`
	Static   []Static   `mapstructure:"static"`
}

// Postgres introspects one PostgreSQL schema. The DSN is given inline or
// as the name of an environment variable holding it.
type Postgres struct {
	Name   string `mapstructure:"name"`
	DSN    string `mapstructure:"dsn"`
	DSNEnv string `mapstructure:"dsn_env"`
	Schema string `mapstructure:"schema"`
}

// ResolveDSN returns the inline DSN, or the value of the configured
// environment variable.
func (p Postgres) ResolveDSN() string {
	if p.DSN != "" {
		return p.DSN
	}
	return os.Getenv(p.DSNEnv)
}

// Mongo introspects one MongoDB database.
type Mongo struct {
	Name     string `mapstructure:"name"`
	URI      string `mapstructure:"uri"`
	URIEnv   string `mapstructure:"uri_env"`
	Database string `mapstructure:"database"`
}

// ResolveURI returns the inline URI, or the value of the configured
// environment variable.
func (m Mongo) ResolveURI() string {
	if m.URI != "" {
		return m.URI
	}
	return os.Getenv(m.URIEnv)
}

// Static declares tables inline, for trees without a live database.
type Static struct {
	Name   string        `mapstructure:"name"`
	Tables []StaticTable `mapstructure:"tables"`
}

// StaticTable declares one table of a static source.
type StaticTable struct {
	Identifier string         `mapstructure:"identifier"`
	Namespace  string         `mapstructure:"namespace"`
	Columns    []StaticColumn `mapstructure:"columns"`
}

// StaticColumn declares one column of a static table.
type StaticColumn struct {
	Name       string `mapstructure:"name"`
	Type       string `mapstructure:"type"`
	Nullable   bool   `mapstructure:"nullable"`
	PrimaryKey bool   `mapstructure:"primary_key"`
}

// Models converts the inline declarations into introspection tables.
func (s Static) Models() []introspect.Table {
	tables := make([]introspect.Table, 0, len(s.Tables))
	for _, tbl := range s.Tables {
		columns := make([]introspect.Column, 0, len(tbl.Columns))
		for _, col := range tbl.Columns {
			columns = append(columns, introspect.Column{
				Name:       col.Name,
				Type:       col.Type,
				Nullable:   col.Nullable,
				PrimaryKey: col.PrimaryKey,
			})
		}
		tables = append(tables, introspect.Table{
			Identifier: tbl.Identifier,
			Namespace:  tbl.Namespace,
			Columns:    columns,
		})
	}
	return tables
}

// Registry configures the hosted descriptor registry used by the ci
// command.
type Registry struct {
	Host            string `mapstructure:"host"`
	APIKey          string `mapstructure:"api_key"`
	MainlineBranch  string `mapstructure:"mainline_branch"`
	RegisterOnMerge bool   `mapstructure:"register_on_merge"`
	SuggestChanges  bool   `mapstructure:"suggest_changes"`
}

// Load reads the configuration: .env files first, then the config file
// (the given path, or opendapi.yaml found in the working directory), then
// environment overrides on top. A missing default config file is fine; a
// missing explicit one is not.
func Load(file string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)
	bindKeys(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(constants.DefaultConfigFile, constants.YAMLSuffix))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "could not read configuration", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config", "could not parse configuration", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.Teams.Seeded = v.IsSet("teams.seed")
	cfg.Datastores.Seeded = v.IsSet("datastores.seed")
	cfg.Purposes.Seeded = v.IsSet("purposes.seed")
	if cfg.Purposes.Seeded {
		cfg.Purposes.Enabled = true
	}
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", "auto")

	return cfg, nil
}

// Validate checks the loaded configuration before a run.
func (c *Config) Validate() error {
	if c.Organization.Name == "" {
		return errors.NewValidationError("organization.name", c.Organization.Name, "an organization name is required")
	}
	for i, pg := range c.Sources.Postgres {
		if pg.ResolveDSN() == "" {
			return errors.NewValidationError(
				fmt.Sprintf("sources.postgres[%d]", i), pg.Name, "a dsn or dsn_env is required")
		}
	}
	for i, mg := range c.Sources.Mongo {
		if mg.ResolveURI() == "" || mg.Database == "" {
			return errors.NewValidationError(
				fmt.Sprintf("sources.mongo[%d]", i), mg.Name, "a uri (or uri_env) and a database are required")
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("datasets_dir", constants.DefaultDatasetsDir)
	v.SetDefault("autoupdate", true)
	v.SetDefault("enforce_existence", true)
	v.SetDefault("purposes.enabled", false)
	v.SetDefault("registry.host", constants.DefaultRegistryEndpoint)
	v.SetDefault("registry.mainline_branch", "main")
	v.SetDefault("registry.register_on_merge", true)
	v.SetDefault("registry.suggest_changes", true)
}

// bindKeys binds the scalar keys to their environment names so values
// reach Unmarshal even when no config file registered them.
func bindKeys(v *viper.Viper) {
	keys := []string{
		"root",
		"datasets_dir",
		"organization.name",
		"organization.email_domain",
		"autoupdate",
		"enforce_existence",
		"purposes.enabled",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	// The registry keys also answer to the environment names the hosted
	// CI action has always used.
	_ = v.BindEnv("registry.host", "REGISTRY_HOST", "DAPI_SERVER_HOST")
	_ = v.BindEnv("registry.api_key", "REGISTRY_API_KEY", "DAPI_SERVER_API_KEY")
	_ = v.BindEnv("registry.mainline_branch", "REGISTRY_MAINLINE_BRANCH", "MAINLINE_BRANCH_NAME")
	_ = v.BindEnv("registry.register_on_merge", "REGISTRY_REGISTER_ON_MERGE", "REGISTER_ON_MERGE_TO_MAINLINE")
	_ = v.BindEnv("registry.suggest_changes", "REGISTRY_SUGGEST_CHANGES", "SUGGEST_CHANGES")
}

// loadEnvFiles loads environment variables from .env files. Load never
// overrides variables that are already set, so the local file is loaded
// first and wins.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default
// if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
