/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/apilens/internal/config"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set ApiLens configuration values",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value of a configuration key",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key and persist it",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		scope := config.ScopeGlobal
		if configLocal {
			scope = config.ScopeLocal
		}
		return cfg.SaveScope(scope)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every configuration key and its effective value",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if JSON() {
			return PrintJSON(cfg.All())
		}
		for _, key := range config.ValidKeys() {
			v, _ := cfg.Get(key)
			fmt.Fprintf(out, "%s=%s\n", key, v)
		}
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().BoolVar(&configLocal, "local", false, "operate on .apilens/config.yaml instead of the global config")
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}
