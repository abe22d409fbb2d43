package docs

import "embed"

// FS contains long-form Markdown docs bundled with the chronify binary.
//
//go:embed index.yaml guide
var FS embed.FS
