package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users", "u"},
		Short:   "User operations",
		Long:    `Operations on the authenticated Linear user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When invoked without subcommand, default to me
			return runUserMe(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "me",
		Short: "Show the authenticated user's profile",
		Long: `Retrieve the profile of the user the cached token belongs to.

The profile is fetched live from the API, so this also confirms the
token is still accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserMe(cmd.Context())
		},
	})

	return cmd
}

func runUserMe(ctx context.Context) error {
	client, err := clientFromContext(ctx)
	if err != nil {
		return err
	}

	user, err := client.Viewer(ctx)
	if err != nil {
		return wrapAPIError(ctx, err)
	}

	printer := printerForContext(ctx)
	return printer.Print(ctx, user)
}
