// Package appfs exposes the repository's embedded assets: SQL migrations
// consumed by goose at startup and from the admin CLI.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
