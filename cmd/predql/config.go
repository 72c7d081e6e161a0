package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/zoobzio/predql/driver"
)

func newConfigCmd(a *app) *cobra.Command {
	var showSource bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, and environment variables.`,
		Example: `  # Show effective configuration
  predql config show

  # Show configuration with source file path
  predql config show --source`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if showSource {
				if a.configPath != "" {
					fmt.Fprintf(w, "Config file: %s\n\n", a.configPath)
				} else {
					fmt.Fprintln(w, "Config file: (none, using defaults)")
					fmt.Fprintln(w)
				}
			}

			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = w.Write(out)
			return err
		},
	}
	showCmd.Flags().BoolVar(&showSource, "source", false, "show config file source")

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "List supported database backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range driver.Backends() {
				b, _ := driver.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s driver=%s dialect=%s\n", name, b.Driver, b.Dialect.Name())
			}
			return nil
		},
	}

	configCmd.AddCommand(showCmd, backendsCmd)
	return configCmd
}
