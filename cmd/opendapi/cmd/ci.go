package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	opendapi "github.com/WovenCollab/OpenDAPI"
	"github.com/WovenCollab/OpenDAPI/internal/config"
	"github.com/WovenCollab/OpenDAPI/internal/registry"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

// ciCmd represents the ci command.
var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Validate, register, and analyze descriptors with the registry",
	Long: heredoc.Doc(`
		Ci submits the descriptor tree to the hosted registry from a GitHub
		Actions run. The registry validates every file, registers the tree
		on pushes to the mainline branch, and reports the impact and stats
		of the files the triggering change touched. Step summaries land on
		the job summary page when GITHUB_STEP_SUMMARY is set.

		The GitHub context is read from GITHUB_EVENT_NAME and
		GITHUB_EVENT_PATH; push and pull_request events are supported.
	`),
	Example: heredoc.Doc(`
		$ opendapi ci
		$ DAPI_SERVER_API_KEY=... opendapi ci --config infra/opendapi.yaml
	`),
	RunE: runCI,
}

func init() {
	rootCmd.AddCommand(ciCmd)
}

func runCI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadProject()
	if err != nil {
		return err
	}
	event, err := triggerEvent()
	if err != nil {
		return err
	}
	client, err := registry.New(registry.Config{
		Host:               cfg.Registry.Host,
		APIKey:             cfg.Registry.APIKey,
		MainlineBranch:     cfg.Registry.MainlineBranch,
		RegisterOnMainline: cfg.Registry.RegisterOnMerge,
		SuggestChanges:     cfg.Registry.SuggestChanges,
	})
	if err != nil {
		return err
	}

	summary := registry.NewSummary(os.Stdout)
	if err := summary.Title("OpenDAPI CI"); err != nil {
		return err
	}
	if err := summary.Write("Here we will validate, register, and analyze the impact of changes to OpenDAPI files."); err != nil {
		return err
	}

	payload, err := ciPayload(ctx, cfg)
	if err != nil {
		return err
	}

	if err := summary.Step(1, "Validating OpenDAPI files..."); err != nil {
		return err
	}
	resp, err := client.Validate(ctx, payload)
	if err != nil {
		return err
	}
	if err := summary.Response(resp); err != nil {
		return err
	}
	failed := resp.Failed()
	if suggestions := resp.Suggestions(); len(suggestions) > 0 {
		suggested := payload.ApplySuggestions(suggestions)
		paths := make([]string, 0, len(suggested))
		for path := range suggested {
			paths = append(paths, path)
		}
		if err := summary.Suggestions(paths); err != nil {
			return err
		}
	}

	if err := summary.Step(2, "Registering..."); err != nil {
		return err
	}
	if client.ShouldRegister(event) {
		resp, err = client.Register(ctx, payload, event.AfterSHA)
		if err != nil {
			return err
		}
		if err := summary.Response(resp); err != nil {
			return err
		}
		failed = failed || resp.Failed()
	} else if err := summary.Write("Registration skipped because the conditions weren't met"); err != nil {
		return err
	}

	// Impact and stats only look at the files the change touched.
	changed, err := registry.ChangedFilenames(ctx, cfg.Root, event.BeforeSHA, event.AfterSHA)
	if err != nil {
		return err
	}
	subset := payload.Filter(changed)

	if err := summary.Step(3, "Analyzing impact of changes..."); err != nil {
		return err
	}
	resp, err = client.Impact(ctx, subset)
	if err != nil {
		return err
	}
	if err := summary.Response(resp); err != nil {
		return err
	}
	failed = failed || resp.Failed()

	if err := summary.Step(4, "Retrieving stats..."); err != nil {
		return err
	}
	resp, err = client.Stats(ctx, subset)
	if err != nil {
		return err
	}
	if err := summary.Response(resp); err != nil {
		return err
	}
	failed = failed || resp.Failed()

	if failed {
		return errors.New("the descriptor registry reported failures")
	}
	return nil
}

// ciPayload reconciles the descriptor tree in memory and groups the
// documents for submission. The registry owns validation in CI, so
// nothing is written or enforced locally, and live database sources are
// left alone; static sources are config and stay available.
func ciPayload(ctx context.Context, cfg *config.Config) (registry.Payload, error) {
	opts := baseOptions(cfg)
	if static := staticAdapters(cfg); len(static) > 0 {
		opts = append(opts, opendapi.WithAdapter(static...))
	}
	opts = append(opts, opendapi.WithEnforceExistence(false))

	client, err := opendapi.New(opts...)
	if err != nil {
		return registry.Payload{}, err
	}
	result, err := client.Validate(ctx)
	if err != nil {
		return registry.Payload{}, err
	}
	return registry.BuildPayload(result.Documents), nil
}

// githubEvent is the slice of the GitHub webhook payload the ci flow needs.
type githubEvent struct {
	Before      string `json:"before"`
	After       string `json:"after"`
	Ref         string `json:"ref"`
	PullRequest struct {
		Base struct {
			SHA string `json:"sha"`
		} `json:"base"`
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
}

// triggerEvent rebuilds the change trigger from the GitHub Actions
// environment. Pushes compare the before and after commits on the pushed
// ref; pull requests compare the base and head of the proposed merge.
func triggerEvent() (registry.TriggerEvent, error) {
	name := os.Getenv("GITHUB_EVENT_NAME")
	if name != "push" && name != "pull_request" {
		return registry.TriggerEvent{}, errors.NewConfigError("ci",
			fmt.Sprintf("unsupported event type %q", name), nil)
	}

	path := os.Getenv("GITHUB_EVENT_PATH")
	raw, err := os.ReadFile(path)
	if err != nil {
		return registry.TriggerEvent{}, errors.WrapIO("read", path, err)
	}
	var event githubEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return registry.TriggerEvent{}, errors.WrapParse("json", path, err)
	}

	trigger := registry.TriggerEvent{Type: name}
	switch name {
	case "push":
		trigger.BeforeSHA = event.Before
		trigger.AfterSHA = event.After
		trigger.Ref = event.Ref
	case "pull_request":
		trigger.BeforeSHA = event.PullRequest.Base.SHA
		trigger.AfterSHA = event.PullRequest.Head.SHA
	}
	return trigger, nil
}
