// Package migrations embeds the goose SQL migrations so the API server, the
// inventoryctl CLI and the integration tests all apply the same schema.
package migrations

import "embed"

// FS holds every *.sql migration, rooted at ".".
//
//go:embed *.sql
var FS embed.FS
