// Package main provides a CLI for rendering and running predql query
// documents.
//
// The CLI supports:
//   - render: Print the SQL and bound values for a query document
//   - exec: Run a query document against the configured database
//   - config show: Print the effective configuration
//   - version: Print build information
//
// Models, dialect and database settings come from predql.yaml, which is
// discovered by walking up from the working directory. Every setting can
// be overridden with a PREDQL_ environment variable, e.g. PREDQL_DATABASE_URL.
//
// Usage:
//
//	predql [flags] <command>
package main

import (
	"github.com/zoobzio/predql/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cli.ExitWithError(err)
	}
}
