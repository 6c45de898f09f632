package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"inkpot/app/markdown"
)

// readSource reads the file named by args[0], or stdin when args is empty
// or "-".
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newPreviewCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render Markdown to HTML with the live-preview rules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			out := markdown.Preview(src)
			if full {
				if out, err = markdown.NewRenderer().Render(src); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "use the full CommonMark renderer of the read view")
	return cmd
}

func newExcerptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "excerpt [file]",
		Short: "Print the generated excerpt of a Markdown document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), markdown.Excerpt(src))
			return nil
		},
	}
}
