package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inkpot/app/config"
)

func newCleanCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every post, comment and tag from the embedded store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd)
			if cfg.Backend != config.BackendBadger {
				return errors.New("clean only works with the badger backend")
			}
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to clean the database? This cannot be undone. [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.TrimSpace(answer); a != "y" && a != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled")
					return nil
				}
			}
			be, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.close()
			if err := be.clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
