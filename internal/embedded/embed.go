// Package embedded holds the descriptor schema contracts compiled into the
// binary, one JSON Schema document per descriptor kind and spec version.
package embedded

import (
	"embed"
)

// FS embeds the contract documents under spec/<version>/<entity>.json at
// build time.
//
//go:embed spec
var FS embed.FS
