package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	opendapi "github.com/WovenCollab/OpenDAPI"
	"github.com/WovenCollab/OpenDAPI/internal/cmd/output"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check descriptors without writing anything",
	Long: heredoc.Doc(`
		Validate performs the same reconciliation pass as run but never
		touches the tree: a file whose content differs from the generated
		state is reported as out of date instead of rewritten.
	`),
	Example: heredoc.Doc(`
		$ opendapi validate
		$ opendapi validate -o json
	`),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProject()
	if err != nil {
		return err
	}

	client, err := opendapi.New(clientOptions(cfg)...)
	if err != nil {
		return err
	}

	result, err := client.Validate(cmd.Context())
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
