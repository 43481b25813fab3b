package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

var (
	initOrgName     string
	initEmailDomain string
	initForce       bool
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold an opendapi.yaml and the CI workflow",
	Long: heredoc.Doc(`
		Init writes a starter opendapi.yaml to the working directory and a
		GitHub Actions workflow that runs "opendapi ci" on pushes and pull
		requests. Values missing from the flags are prompted for. Existing
		files are left alone unless --force is given.
	`),
	Example: heredoc.Doc(`
		$ opendapi init
		$ opendapi init --organization "Acme Inc" --email-domain acme.com
	`),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initOrgName, "organization", "", "organization name recorded in the config")
	initCmd.Flags().StringVar(&initEmailDomain, "email-domain", "", "domain for generated team email addresses")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite files that already exist")
}

func runInit(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	name, err := ask(reader, out, initOrgName, "Organization name: ")
	if err != nil {
		return err
	}
	if name == "" {
		return errors.NewConfigError("init", "an organization name is required", nil)
	}
	domain, err := ask(reader, out, initEmailDomain, "Email domain (e.g. acme.com): ")
	if err != nil {
		return err
	}

	files := []struct {
		path    string
		content string
	}{
		{constants.DefaultConfigFile, configTemplate(name, domain)},
		{filepath.Join(".github", "workflows", "opendapi_ci.yml"), workflowTemplate},
	}
	for _, f := range files {
		if err := writeScaffold(f.path, f.content, initForce); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", f.path)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, `Add sources to opendapi.yaml, then run "opendapi run" to generate the first descriptors.`)
	return nil
}

// ask prompts for a value when the flag did not provide one.
func ask(reader *bufio.Reader, out io.Writer, current, prompt string) (string, error) {
	if current != "" {
		return current, nil
	}
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.WrapIO("read", "stdin", err)
	}
	return strings.TrimSpace(line), nil
}

// writeScaffold writes one file, refusing to clobber unless forced.
func writeScaffold(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.NewConfigError("init", path+" already exists (use --force to overwrite)", nil)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// configTemplate renders the starter project configuration.
func configTemplate(name, domain string) string {
	return heredoc.Docf(`
		# OpenDAPI project configuration. Every key can be overridden with an
		# environment variable, e.g. ORGANIZATION_NAME or DAPI_SERVER_API_KEY.
		organization:
		  name: %q
		  email_domain: %q

		# Where dataset descriptors live, relative to this file.
		datasets_dir: dapis

		# Teams seeded on the first run; edit the generated descriptor after.
		#teams:
		#  seed: [Platform, Analytics]

		# Data sources to introspect on every run.
		#sources:
		#  postgres:
		#    - name: main
		#      dsn_env: DATABASE_URL
		#  mongo:
		#    - name: analytics
		#      uri_env: MONGO_URI
		#      database: analytics

		# Hosted registry used by the ci command. The API key comes from the
		# DAPI_SERVER_API_KEY environment variable, never from this file.
		registry:
		  mainline_branch: main
	`, name, domain)
}

// workflowTemplate is the GitHub Actions workflow the ci command expects
// to run under. Impact analysis diffs commits, so the checkout keeps the
// full history.
var workflowTemplate = heredoc.Doc(`
	name: OpenDAPI CI

	on:
	  push:
	    branches: [main]
	  pull_request:

	jobs:
	  opendapi-ci:
	    runs-on: ubuntu-latest
	    steps:
	      - uses: actions/checkout@v4
	        with:
	          fetch-depth: 0
	      - uses: actions/setup-go@v5
	        with:
	          go-version: stable
	      - name: Run OpenDAPI CI
	        run: go run github.com/WovenCollab/OpenDAPI/cmd/opendapi@latest ci
	        env:
	          DAPI_SERVER_API_KEY: ${{ secrets.DAPI_SERVER_API_KEY }}
`)
