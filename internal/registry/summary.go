package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/constants"
	"github.com/WovenCollab/OpenDAPI/pkg/errors"
	md "github.com/nao1215/markdown"
)

// Summary mirrors CI progress to a writer and, when the environment
// provides one, appends the same markdown to the GitHub step summary file.
type Summary struct {
	out io.Writer
}

// NewSummary returns a Summary writing to out, or stdout when out is nil.
func NewSummary(out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{out: out}
}

// Title writes the top-level heading.
func (s *Summary) Title(text string) error {
	return s.render(func(m *md.Markdown) *md.Markdown {
		return m.H1(text)
	})
}

// Step writes one numbered step heading.
func (s *Summary) Step(n int, title string) error {
	return s.render(func(m *md.Markdown) *md.Markdown {
		return m.H2(fmt.Sprintf("Step %d: %s", n, title))
	})
}

// Response reports one registry answer: the failure text when the
// registry flagged one, then the markdown account, then the structured
// body as a fenced JSON block.
func (s *Summary) Response(resp *Response) error {
	if resp == nil {
		return nil
	}
	if resp.Failed() && resp.Text != "" {
		if err := s.Write(resp.Text); err != nil {
			return err
		}
	}
	if resp.Markdown != "" {
		if err := s.Write(resp.Markdown); err != nil {
			return err
		}
	}
	if len(resp.JSON) == 0 {
		return nil
	}

	pretty, err := json.MarshalIndent(resp.JSON, "", "  ")
	if err != nil {
		return errors.NewIOError("encode", "step summary", err)
	}
	return s.render(func(m *md.Markdown) *md.Markdown {
		return m.CodeBlocks(md.SyntaxHighlight("json"), string(pretty))
	})
}

// Suggestions lists the descriptor files the registry proposed edits for.
func (s *Summary) Suggestions(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return s.render(func(m *md.Markdown) *md.Markdown {
		return m.PlainText("The registry suggests edits to these descriptor files:").
			LF().
			BulletList(sorted...)
	})
}

// Write prints one message and mirrors it to the file GITHUB_STEP_SUMMARY
// names, when set.
func (s *Summary) Write(message string) error {
	fmt.Fprintln(s.out, message)

	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.NewIOError("append", path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s\n\n", message); err != nil {
		return errors.NewIOError("append", path, err)
	}
	return nil
}

// render builds one markdown fragment and writes it out.
func (s *Summary) render(build func(*md.Markdown) *md.Markdown) error {
	var buf strings.Builder
	if err := build(md.NewMarkdown(&buf)).Build(); err != nil {
		return err
	}
	return s.Write(strings.TrimRight(buf.String(), "\n"))
}
