package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/zoobzio/predql/internal/cli"
	"github.com/zoobzio/predql/querydoc"
)

// renderOutput is the printed form of a rendered statement.
type renderOutput struct {
	SQL    string `json:"sql"`
	Values []any  `json:"values"`
}

func newRenderCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render <query-file>",
		Short: "Render a query document to SQL",
		Long: `Render a YAML or JSON query document to SQL and its bound values.
Pass "-" to read the document from stdin.`,
		Example: `  # Render with the configured dialect
  predql render queries/active_users.yaml

  # Render for SQL Server, printing JSON
  predql render -d mssql --format json queries/active_users.yaml`,
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

			s, d, err := a.schemaAndDialect()
			if err != nil {
				return err
			}
			result, err := querydoc.Render(q, s, d, a.cfg.RenderOptions()...)
			if err != nil {
				return cli.RenderError("rendering query", err)
			}
			a.logger.Debug("rendered", "dialect", d.Name(), "values", len(result.Values))

			out := renderOutput{SQL: result.SQL, Values: result.Values}
			var b []byte
			switch format {
			case "yaml":
				b, err = yaml.Marshal(out)
			case "json":
				b, err = json.MarshalIndent(out, "", "  ")
				b = append(b, '\n')
			case "sql":
				b = []byte(result.SQL + "\n")
			default:
				return cli.GeneralError(fmt.Sprintf("unknown format %q", format), nil)
			}
			if err != nil {
				return cli.GeneralError("encoding output", err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or sql")
	return cmd
}
