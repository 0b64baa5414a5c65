package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/linear-cli/internal/auth"
	"github.com/salmonumbrella/linear-cli/internal/config"
	"github.com/salmonumbrella/linear-cli/internal/logging"
	"github.com/salmonumbrella/linear-cli/internal/ui"
)

//go:embed help.txt
var rootHelpText string

func newRootCmd(app *App) *cobra.Command {
	// Global flags
	var (
		debugMode     bool
		queryFlag     string
		jqFlag        string
		fieldsFlag    string
		pickFlag      string
		jsonPathFlag  string
		queryFile     string
		errorFormat   string
		quietFlag     bool
		failEmptyFlag bool
		compactJSON   bool
		latestFlag    bool
		recentFlag    int
		timeoutFlag   time.Duration

		// Agent-friendly flags
		yesFlag         bool
		limitFlag       int
		sortBy          string
		descFlag        bool
		resultsOnlyFlag bool
	)

	rootCmd := &cobra.Command{
		Use:   "lnr",
		Short: "CLI for the Linear API",
		Long:  `A command-line interface for the Linear issue tracker`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Ensure Cobra doesn't emit its own error/usage text; we handle error output centrally.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			// Configure slog based on debug flag
			logging.Setup(debugMode, app.Stderr)

			// Load config file (skip for config commands to avoid recursion)
			var cfg *config.Config
			if cmd.Name() != "config" && (cmd.Parent() == nil || cmd.Parent().Name() != "config") {
				loadedCfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				cfg = loadedCfg
			} else {
				cfg = &config.Config{}
			}

			opts, err := parseGlobalOptions(cmd, cfg, app.Stdout, globalFlagInput{
				queryFlag:       queryFlag,
				jqFlag:          jqFlag,
				fieldsFlag:      fieldsFlag,
				pickFlag:        pickFlag,
				jsonPathFlag:    jsonPathFlag,
				quietFlag:       quietFlag,
				failEmptyFlag:   failEmptyFlag,
				compactJSON:     compactJSON,
				latestFlag:      latestFlag,
				recentFlag:      recentFlag,
				timeoutFlag:     timeoutFlag,
				yesFlag:         yesFlag,
				limitFlag:       limitFlag,
				sortBy:          sortBy,
				descFlag:        descFlag,
				resultsOnlyFlag: resultsOnlyFlag,
				errorFormat:     errorFormat,
			})
			if err != nil {
				return err
			}
			if err := validateGlobalOptions(&opts); err != nil {
				return err
			}

			// Inject parsed global options into context so subcommands can access them.
			ctx := buildRootContext(cmd.Context(), app, cfg, debugMode, opts)
			if opts.queryNormalized && !opts.quiet {
				ui.FromContext(ctx).Warning("Normalized --query by removing \\! (shell escape); use ! without backslash.")
			}

			cmd.SetContext(ctx)

			// Check token age and warn if old (skip for auth and config commands)
			skipCommands := map[string]bool{"auth": true, "config": true, "login": true, "logout": true}
			if !skipCommands[cmd.Name()] && (cmd.Parent() == nil || !skipCommands[cmd.Parent().Name()]) {
				checkTokenAgeAndWarn(ctx, opts.quiet)
			}

			// Suppress Cobra's default usage output when emitting structured errors.
			// We handle error printing ourselves to keep machine-readable output clean.
			if effectiveErrorFormat(ctx) != "text" {
				cmd.SilenceUsage = true
			}

			return nil
		},
	}

	// Set version info
	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("lnr %s (commit: %s, built: %s)\n", app.Version, app.Commit, app.BuildTime))

	// Global flags
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text|json|ndjson|jsonl|table|yaml")
	// Alias --format to --output for agent discoverability
	rootCmd.PersistentFlags().String("format", "text", "Alias for --output")
	_ = rootCmd.PersistentFlags().MarkHidden("format")
	// Shorthand: --json is equivalent to -o json
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Shorthand for --output json")
	_ = rootCmd.PersistentFlags().MarkHidden("json")
	rootCmd.PersistentFlags().StringVarP(&queryFlag, "query", "q", "", "JQ expression to filter JSON output")
	// Alias --jq to --query for discoverability
	rootCmd.PersistentFlags().StringVar(&jqFlag, "jq", "", "Alias for --query")
	_ = rootCmd.PersistentFlags().MarkHidden("jq")
	rootCmd.PersistentFlags().StringVar(&fieldsFlag, "fields", "", "Project fields (comma-separated paths, use key=path to rename)")
	rootCmd.PersistentFlags().StringVar(&pickFlag, "pick", "", "Alias for --fields")
	_ = rootCmd.PersistentFlags().MarkHidden("pick")
	rootCmd.PersistentFlags().StringVar(&jsonPathFlag, "jsonpath", "", "Extract a value using JSONPath (e.g. $.results[0].id)")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read JQ expression from file ('-' for stdin)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output (shows HTTP requests/responses)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "API request timeout (e.g. 10s, overrides config)")
	rootCmd.PersistentFlags().StringVar(&errorFormat, "error-format", "auto", "Error output format (auto|text|json)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&failEmptyFlag, "fail-empty", false, "Exit with error when results are empty")
	rootCmd.PersistentFlags().BoolVar(&compactJSON, "compact-json", false, "Output compact JSON (single-line) instead of pretty JSON")
	rootCmd.PersistentFlags().BoolVar(&resultsOnlyFlag, "items-only", false, "Output only the items/results array when present (JSON output)")
	rootCmd.PersistentFlags().BoolVar(&resultsOnlyFlag, "results-only", false, "Alias for --items-only")
	_ = rootCmd.PersistentFlags().MarkHidden("results-only")

	// Machine-readable help (hidden; intercepted in App.Execute before arg validation)
	rootCmd.PersistentFlags().Bool("help-json", false, "Output command help as JSON (for agent discovery)")
	_ = rootCmd.PersistentFlags().MarkHidden("help-json")

	// Agent-friendly flags
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&yesFlag, "no-input", false, "Disable interactive prompts (alias for --yes)")
	_ = rootCmd.PersistentFlags().MarkHidden("no-input")
	rootCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "Limit number of results (0 = no limit)")
	rootCmd.PersistentFlags().StringVar(&sortBy, "sort-by", "", "Sort results by field")
	rootCmd.PersistentFlags().BoolVar(&descFlag, "desc", false, "Sort in descending order")
	rootCmd.PersistentFlags().BoolVar(&latestFlag, "latest", false, "Shortcut for --sort-by created_at --desc --limit 1")
	rootCmd.PersistentFlags().IntVar(&recentFlag, "recent", 0, "Shortcut for --sort-by created_at --desc --limit N")

	// Flag aliases for agent ergonomics
	// Note: "json" already has -j via BoolP; no need for flagAlias.
	flagAlias(rootCmd.PersistentFlags(), "output", "out")
	flagAlias(rootCmd.PersistentFlags(), "query", "qr")
	flagAlias(rootCmd.PersistentFlags(), "fields", "fds")
	flagAlias(rootCmd.PersistentFlags(), "results-only", "ro")
	flagAlias(rootCmd.PersistentFlags(), "items-only", "io")
	flagAlias(rootCmd.PersistentFlags(), "items-only", "i")
	flagAlias(rootCmd.PersistentFlags(), "fail-empty", "fe")
	flagAlias(rootCmd.PersistentFlags(), "sort-by", "sb")
	flagAlias(rootCmd.PersistentFlags(), "query-file", "qf")
	flagAlias(rootCmd.PersistentFlags(), "compact-json", "cj")

	// Register subcommands
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newIssueCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Top-level convenience commands (desire-path aliases)
	loginAliasCmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Linear (alias for 'auth login')",
		Long: `Authenticate with Linear using email/password or an API key.

This is a convenience alias for 'lnr auth login'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), loginInput{})
		},
	}
	rootCmd.AddCommand(loginAliasCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials (alias for 'auth logout')",
		Long: `Remove the stored Linear token from secret storage.

This is a convenience alias for 'lnr auth logout'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context())
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:     "whoami",
		Aliases: []string{"me"},
		Short:   "Show current user (alias for 'user me')",
		Long: `Retrieve the profile of the authenticated user.

This is a convenience alias for 'lnr user me'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserMe(cmd.Context())
		},
	})

	// Action-first top-level commands (agent-friendly desire paths)

	// `lnr list` → list issues
	rootCmd.AddCommand(newIssueListCmd("list"))

	// `lnr create <title>` → create an issue in the default project
	createCmd := newIssueCreateCmd("create <title>")
	createCmd.Short = "Create an issue (alias for 'issue create')"
	rootCmd.AddCommand(createCmd)

	// Canonical additive verb aliases for cross-CLI consistency.
	applyCanonicalVerbAliases(rootCmd)
	// Ensure every non-root command has at least one short alias (without sibling collisions).
	applyDefaultCommandAliases(rootCmd)
	// Add safe shorthand aliases (-x) to visible flags where possible.
	applyDefaultFlagShorthands(rootCmd)
	// Use a curated root help menu optimized for humans and agents.
	installRootHelp(rootCmd)

	return rootCmd
}

// checkTokenAgeAndWarn checks if the token is older than the rotation threshold
// and prints a warning to stderr if it is. This is non-blocking.
func checkTokenAgeAndWarn(ctx context.Context, quiet bool) {
	if quiet {
		return
	}
	// Only check for stored tokens (not env var tokens)
	if os.Getenv(auth.EnvVarName) != "" {
		return
	}

	metadata, err := SessionFromContext(ctx).Metadata()
	if err != nil || metadata == nil {
		return
	}

	if auth.IsTokenExpiringSoon(metadata.CreatedAt) {
		age := auth.TokenAgeDays(metadata.CreatedAt)
		_, _ = fmt.Fprintf(stderrFromContext(ctx), "Warning: Your API token is %d days old. Consider rotating it for security.\n", age)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func parseColorMode(value string) ui.ColorMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "always":
		return ui.ColorAlways
	case "never":
		return ui.ColorNever
	default:
		return ui.ColorAuto
	}
}

func installRootHelp(root *cobra.Command) {
	defaultHelp := root.HelpFunc()

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			defaultHelp(cmd, args)
			return
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), rootHelpText)
	})
}
