package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List uploaded objects",
		Long: `List the objects stored at the configured upload target, optionally
restricted to names starting with prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}

			store, _, err := rootOpts.Config.BlobStore(ctx)
			if err != nil {
				return err
			}
			names, err := store.List(ctx, prefix)
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
