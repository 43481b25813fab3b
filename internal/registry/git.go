package registry

import (
	"context"
	"os/exec"
	"strings"

	"github.com/WovenCollab/OpenDAPI/pkg/errors"
)

// ChangedFilenames lists the files git reports as changed between two
// commits, relative to the repository at dir.
func ChangedFilenames(ctx context.Context, dir, before, after string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-only", before, after)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.NewIOError("git diff", dir, err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
