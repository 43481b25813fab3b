// Package main provides the entry point for the opendapi CLI tool.
package main

import (
	"github.com/WovenCollab/OpenDAPI/cmd/opendapi/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
