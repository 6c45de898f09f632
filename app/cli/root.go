// Package cli is the inkpot command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"inkpot/app/config"
	"inkpot/app/logx"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

type ctxKey string

const configKey ctxKey = "config"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command. Configuration is resolved once in
// PersistentPreRunE and handed to subcommands through the context.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "inkpot",
		Short:         "Inkpot, a small Markdown blog front end",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(v); err != nil {
				return err
			}
			cfg := config.FromViper(v)
			logx.Init(cfg.LogLevel, cfg.LogFormat)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml|json)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newExcerptCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newVersionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getConfig(cmd *cobra.Command) config.Config {
	cfg, ok := cmd.Context().Value(configKey).(config.Config)
	if !ok {
		fmt.Fprintln(os.Stderr, "internal error: config not loaded")
		os.Exit(1)
	}
	return cfg
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkpot version %s\n", Version)
		},
	}
}
