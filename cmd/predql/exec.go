package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/zoobzio/predql/driver"
	"github.com/zoobzio/predql/internal/cli"
	"github.com/zoobzio/predql/querydoc"
)

func newExecCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <query-file>",
		Short: "Run a query document against the database",
		Long: `Run a YAML or JSON query document against database.url.
SELECT, COUNT and statements with RETURNING print their rows as YAML;
other statements print the number of affected rows.`,
		Example: `  # Run against the configured database
  predql exec queries/deactivate.yaml

  # Override the connection through the environment
  PREDQL_DATABASE_BACKEND=sqlite PREDQL_DATABASE_URL=app.db predql exec q.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return cli.GeneralError("reading query document", err)
			}
			q, err := querydoc.Parse(data)
			if err != nil {
				return cli.RenderError("parsing query document", err)
			}

			backend := a.cfg.ResolvedBackend()
			if backend == "" || a.cfg.Database.URL == "" {
				return cli.ConfigError("database.backend and database.url are required", nil)
			}
			s, err := a.cfg.Schema()
			if err != nil {
				return cli.ConfigError("building schema", err)
			}
			b, err := querydoc.Build(q, s)
			if err != nil {
				return cli.RenderError("building query", err)
			}

			db, err := driver.Open(backend, a.cfg.Database.URL, s,
				driver.WithLogger(a.logger),
				driver.WithSlowThreshold(a.cfg.Database.SlowThreshold))
			if err != nil {
				return cli.DBConnectError("opening database", err)
			}
			defer func() { _ = db.Close() }()

			ctx := cmd.Context()
			if err := db.Ping(ctx); err != nil {
				return cli.DBConnectError("connecting to database", err)
			}
			defer func() { a.logger.Info("finished", "stats", db.Stats().Snapshot().String()) }()

			if returnsRows(q) {
				rows, err := db.All(ctx, b)
				if err != nil {
					return cli.GeneralError("running query", err)
				}
				out, err := yaml.Marshal(rows)
				if err != nil {
					return cli.GeneralError("encoding rows", err)
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			res, err := db.Exec(ctx, b)
			if err != nil {
				return cli.GeneralError("running statement", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return cli.GeneralError("reading affected rows", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rows affected: %d\n", n)
			return err
		},
	}
	return cmd
}

func returnsRows(q *querydoc.Query) bool {
	switch strings.ToLower(q.Operation) {
	case "select", "count":
		return true
	}
	return len(q.Returning) > 0
}
