package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(c *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetPath := configFileName
			if len(args) == 1 {
				targetPath = args[0]
			}

			// Refuses to overwrite an existing file
			if err := c.config.SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", targetPath)
			return nil
		},
	}
}
