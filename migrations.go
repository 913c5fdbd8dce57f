// Package bookkeeper holds assets shared by the binaries of the module.
package bookkeeper

import "embed"

// Migrations contains the goose SQL migrations of the service schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
