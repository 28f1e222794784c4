package templates

import "embed"

// FS holds the page templates rendered by handlers.PageHandler
//
//go:embed *.html
var FS embed.FS
