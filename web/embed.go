package web

import "embed"

// Templates embeds HTML templates rendered into PDF documents.
//
//go:embed templates/**/*.html
var Templates embed.FS
