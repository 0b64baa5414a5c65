package cmd

import (
	"github.com/spf13/cobra"

	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
	"github.com/salmonumbrella/linear-cli/internal/linear"
)

func newIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issue",
		Aliases: []string{"issues", "is"},
		Short:   "Manage Linear issues",
		Long:    `List and create issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When invoked without subcommand, default to list
			listCmd := newIssueListCmd("list")
			listCmd.SetContext(cmd.Context())
			return listCmd.RunE(listCmd, args)
		},
	}

	cmd.AddCommand(newIssueListCmd("list"))
	cmd.AddCommand(newIssueCreateCmd("create <title>"))

	return cmd
}

func newIssueListCmd(use string) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   use,
		Short: "List issues",
		Long: `List issues visible to the authenticated user.

With --project the listing is filtered to a single project. The project
can be given by ID, slug, or name.

Example:
  lnr issue list
  lnr issue list --project "Mobile App"
  lnr issue list -o json --fields id,title,status=state.name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			conn, err := client.Issues(ctx, linear.IssueListOptions{ProjectRef: projectRef})
			if err != nil {
				return wrapAPIError(ctx, err)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, map[string]interface{}{
				"results":       toInterfaceSlice(conn.Nodes),
				"has_next_page": conn.PageInfo.HasNextPage,
				"end_cursor":    conn.PageInfo.EndCursor,
			})
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Filter to a project (ID, slug, or name)")
	cmd.Flags().Bool("light", false, "Minimal output for agents (compact JSON)")
	flagAlias(cmd.Flags(), "light", "li")
	return cmd
}

func newIssueCreateCmd(use string) *cobra.Command {
	var (
		description string
		projectRef  string
		teamID      string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: "Create an issue",
		Long: `Create an issue in a project.

The target project comes from --project, or from the default project
set with 'lnr project set-default'. When the project belongs to exactly
one team that team is used; otherwise pass --team to disambiguate.

Example:
  lnr issue create "Fix login flow"
  lnr issue create "Fix login flow" --project "Mobile App" -d "Repro steps..."`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ref := projectRef
			if ref == "" {
				if def := configForWrite(ctx).GetDefaultProject(); def != nil {
					ref = def.ID
				}
			}
			if ref == "" {
				return clierrors.NoDefaultProjectError()
			}

			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			issue, err := client.CreateIssue(ctx, linear.IssueCreateInput{
				Title:       args[0],
				Description: description,
				ProjectRef:  ref,
				TeamID:      teamID,
			})
			if err != nil {
				return wrapAPIError(ctx, err)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, issue)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Issue description (markdown)")
	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Target project (ID, slug, or name)")
	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Team ID (required when the project has multiple teams)")
	return cmd
}
