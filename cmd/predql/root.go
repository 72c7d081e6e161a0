package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zoobzio/predql"
	"github.com/zoobzio/predql/internal/cli"
)

// app is the state shared by every command, set during PersistentPreRunE.
type app struct {
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile string
	dialect string
	quiet   bool
}

// Command group IDs
const (
	groupQuery   = "query"
	groupUtility = "utility"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "predql",
		Short: "Render and run SQL from query documents",
		Long: `predql - SQL predicate renderer

predql turns YAML or JSON query documents into parameterized SQL for
PostgreSQL, MariaDB, SQL Server and SQLite, binding every value as a
placeholder in the order it appears.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
				return nil
			}
			return a.load(cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: auto-discover predql.yaml)")
	root.PersistentFlags().StringVarP(&a.dialect, "dialect", "d", "", "dialect override (standard, postgres, mariadb, mssql, sqlite)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")

	root.AddGroup(
		&cobra.Group{ID: groupQuery, Title: "Query:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	renderCmd := newRenderCmd(a)
	execCmd := newExecCmd(a)
	renderCmd.GroupID = groupQuery
	execCmd.GroupID = groupQuery
	root.AddCommand(renderCmd, execCmd)

	configCmd := newConfigCmd(a)
	versionCmd := newVersionCmd()
	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	root.AddCommand(configCmd, versionCmd)

	return root
}

// load reads the configuration and builds the logger.
func (a *app) load(logOut io.Writer) error {
	cfg, path, err := cli.LoadConfig(a.cfgFile)
	if err != nil {
		return cli.ConfigError("loading configuration", err)
	}
	if a.dialect != "" {
		cfg.Dialect = a.dialect
	}
	if a.quiet {
		cfg.Log.Level = "error"
	}

	logger, err := cfg.Logger(logOut)
	if err != nil {
		return cli.ConfigError("configuring logger", err)
	}

	a.cfg, a.configPath, a.logger = cfg, path, logger
	return nil
}

// schemaAndDialect resolves what every query command needs.
func (a *app) schemaAndDialect() (*predql.Schema, predql.Dialect, error) {
	s, err := a.cfg.Schema()
	if err != nil {
		return nil, nil, cli.ConfigError("building schema", err)
	}
	d, err := a.cfg.ResolveDialect()
	if err != nil {
		return nil, nil, cli.ConfigError("resolving dialect", err)
	}
	return s, d, nil
}

// readInput reads a file argument, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}
