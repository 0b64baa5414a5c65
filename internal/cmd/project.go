package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/linear-cli/internal/config"
	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "pj"},
		Short:   "Manage Linear projects",
		Long:    `List projects and manage the default project for issue commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// When invoked without subcommand, default to list
			return runProjectList(cmd.Context())
		},
	}

	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectSetDefaultCmd())
	cmd.AddCommand(newProjectGetDefaultCmd())
	cmd.AddCommand(newProjectClearDefaultCmd())

	return cmd
}

func newProjectListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  `List the projects visible to the authenticated user.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectList(cmd.Context())
		},
	}
	cmd.Flags().Bool("light", false, "Minimal output for agents (compact JSON)")
	flagAlias(cmd.Flags(), "light", "li")
	return cmd
}

func runProjectList(ctx context.Context) error {
	client, err := clientFromContext(ctx)
	if err != nil {
		return err
	}

	projects, err := client.Projects(ctx)
	if err != nil {
		return wrapAPIError(ctx, err)
	}

	printer := printerForContext(ctx)
	return printer.Print(ctx, map[string]interface{}{
		"results": toInterfaceSlice(projects),
	})
}

func newProjectSetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <project>",
		Short: "Set the default project for issue commands",
		Long: `Resolve a project by ID, slug, or name and record it as the default.

The default project is used by 'lnr issue create' when --project is not
given. It is stored in the config file, not in secret storage.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := clientFromContext(ctx)
			if err != nil {
				return err
			}

			project, err := client.ResolveProject(ctx, args[0])
			if err != nil {
				return wrapAPIError(ctx, err)
			}

			cfg := configForWrite(ctx)
			if err := cfg.SetDefaultProject(project.ID, project.Name); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, map[string]interface{}{
				"status":          "success",
				"default_project": map[string]interface{}{"id": project.ID, "name": project.Name},
			})
		},
	}
}

func newProjectGetDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-default",
		Short: "Show the default project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configForWrite(ctx)

			ref := cfg.GetDefaultProject()
			if ref == nil {
				return clierrors.NewUserError(
					"no default project set",
					"Set one with 'lnr project set-default <project>'",
				)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, map[string]interface{}{
				"default_project": map[string]interface{}{"id": ref.ID, "name": ref.Name},
			})
		},
	}
}

func newProjectClearDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-default",
		Short: "Remove the default project",
		Long:  `Remove the default project. Clearing when none is set is not an error.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configForWrite(ctx)
			cfg.ClearDefaultProject()
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			printer := printerForContext(ctx)
			return printer.Print(ctx, map[string]interface{}{
				"status":  "success",
				"message": "Default project cleared",
			})
		},
	}
}

// configForWrite returns the loaded config, falling back to a fresh load for
// callers that bypass root pre-run.
func configForWrite(ctx context.Context) *config.Config {
	if cfg := ConfigFromContext(ctx); cfg != nil {
		return cfg
	}
	cfg, _ := config.Load()
	if cfg == nil {
		cfg = &config.Config{}
	}
	return cfg
}

// toInterfaceSlice converts a typed slice for the list envelope so the
// printer's results handling and --results-only apply uniformly.
func toInterfaceSlice[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}
