package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/linear-cli/internal/auth"
	"github.com/salmonumbrella/linear-cli/internal/cmdutil"
	clierrors "github.com/salmonumbrella/linear-cli/internal/errors"
	"github.com/salmonumbrella/linear-cli/internal/linear"
	"github.com/salmonumbrella/linear-cli/internal/ui"
	"github.com/salmonumbrella/linear-cli/internal/validate"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Linear API authentication",
		Long:  `Manage authentication for the Linear API. Tokens are stored in the system keyring, with an encrypted file fallback when no keyring is available.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

type loginInput struct {
	email  string
	apiKey bool
}

func newAuthLoginCmd() *cobra.Command {
	var in loginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email/password or an API key",
		Long: `Authenticate with Linear and cache the resulting token.

By default you are prompted for your email and password. The credentials
are exchanged for an access token and discarded; only the token is stored.

With --api-key you are prompted for a personal API key instead. The key is
validated against the API before it is stored.

The token is stored securely using your operating system's keyring:
  - macOS: Keychain
  - Linux: Secret Service (GNOME Keyring, KWallet), with encrypted file fallback
  - Windows: Credential Manager

Secrets are always read interactively with hidden input; they are never
accepted as command-line arguments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), in)
		},
	}

	cmd.Flags().StringVar(&in.email, "email", "", "Email address to log in with (prompts when omitted)")
	cmd.Flags().BoolVar(&in.apiKey, "api-key", false, "Log in with a personal API key instead of email/password")
	return cmd
}

func runLogin(ctx context.Context, in loginInput) error {
	stderr := stderrFromContext(ctx)

	var creds auth.Credentials
	if in.apiKey {
		key, err := cmdutil.PromptSecret(stderr, "Linear API key")
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		if key == "" {
			return clierrors.NewUserError("API key cannot be empty", "Get a personal API key from Linear under Settings > API")
		}
		creds.APIKey = key
	} else {
		email := in.email
		if email == "" {
			var err error
			email, err = cmdutil.PromptLine(os.Stdin, stderr, "Email")
			if err != nil {
				return fmt.Errorf("failed to read email: %w", err)
			}
		}
		if err := validate.Email("email", email); err != nil {
			return err
		}

		password, err := cmdutil.PromptSecret(stderr, "Password")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if password == "" {
			return clierrors.NewUserError("password cannot be empty", "")
		}
		creds.Email = email
		creds.Password = password
	}

	session := SessionFromContext(ctx)
	authenticator := &apiAuthenticator{client: NewLinearClient(ctx, "")}

	result, err := session.Login(ctx, authenticator, creds)
	if err != nil {
		if result == nil || !clierrors.IsStorageError(err) {
			return err
		}
		// Degraded login: the exchange succeeded but nothing persisted.
		// The token stays usable for this invocation only.
		ui.FromContext(ctx).Warning("Could not store token; it will be used for this run only: %v", err)
	}

	printer := printerForContext(ctx)
	out := map[string]interface{}{
		"status": "success",
		"source": string(result.Source),
		"user": map[string]interface{}{
			"id":    result.User.ID,
			"name":  result.User.Name,
			"email": result.User.Email,
		},
	}
	return printer.Print(ctx, out)
}

// apiAuthenticator adapts the API client to the session's Authenticator
// interface, mapping each credential kind to its exchange.
type apiAuthenticator struct {
	client *linear.Client
}

func (a *apiAuthenticator) Authenticate(ctx context.Context, creds auth.Credentials) (*auth.Result, error) {
	if creds.APIKey != "" {
		resp, err := a.client.AuthenticateAPIKey(ctx, creds.APIKey)
		if err != nil {
			return nil, err
		}
		return &auth.Result{
			AccessToken: resp.AccessToken,
			Source:      auth.SourceAPIKey,
			User:        auth.User{ID: resp.User.ID, Name: resp.User.Name, Email: resp.User.Email},
		}, nil
	}

	resp, err := a.client.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	return &auth.Result{
		AccessToken: resp.AccessToken,
		Source:      auth.SourcePassword,
		User:        auth.User{ID: resp.User.ID, Name: resp.User.Name, Email: resp.User.Email},
	}, nil
}

func newAuthStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long: `Display whether a Linear token is cached.

Shows:
  - The session state (no-session, has-token, token-invalid)
  - Where the token comes from (keyring or environment variable)
  - How the token was obtained (password exchange or API key)
  - Token age and rotation warnings
  - User information if available

With --check the cached token is validated against the API. A rejected
token is removed from storage so the next invocation starts clean.

Does not display the actual token value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthStatus(cmd.Context(), check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Validate the cached token against the API")
	return cmd
}

func runAuthStatus(ctx context.Context, check bool) error {
	session := SessionFromContext(ctx)
	hasToken := session.HasToken()

	var tokenSource string
	fromEnvVar := false
	if hasToken {
		if os.Getenv(auth.EnvVarName) != "" {
			tokenSource = "environment variable (" + auth.EnvVarName + ")"
			fromEnvVar = true
		} else {
			tokenSource = "secret storage"
		}
	} else {
		tokenSource = "none"
	}

	result := map[string]interface{}{
		"state":         string(session.State()),
		"authenticated": hasToken,
		"token_source":  tokenSource,
	}

	if hasToken && !fromEnvVar {
		if metadata, err := session.Metadata(); err == nil && metadata != nil {
			if metadata.Source != "" {
				result["auth_type"] = metadata.Source
			}
			if !metadata.CreatedAt.IsZero() {
				age := auth.TokenAgeDays(metadata.CreatedAt)
				result["token_age_days"] = age
				result["token_created_at"] = metadata.CreatedAt.Format("2006-01-02")
				result["token_age"] = auth.FormatTokenAge(metadata.CreatedAt)

				if auth.IsTokenExpiringSoon(metadata.CreatedAt) {
					result["warning"] = fmt.Sprintf("Token is %d days old. Consider rotating for security.", age)
				}
			}
		}
	}

	if userInfo := session.UserInfo(); userInfo != nil {
		user := map[string]interface{}{
			"id":   userInfo.ID,
			"name": userInfo.Name,
		}
		if userInfo.Email != "" {
			user["email"] = userInfo.Email
		}
		result["user"] = user
	}

	if check && hasToken {
		client, err := clientFromContext(ctx)
		if err != nil {
			return err
		}
		valid, err := client.Validate(ctx)
		if err != nil {
			return err
		}
		result["token_valid"] = valid
		if !valid {
			if !fromEnvVar {
				_ = session.Invalidate()
			}
			result["state"] = string(auth.TokenInvalid)
			result["warning"] = "The API rejected the cached token. Run 'lnr auth login' to authenticate again."
		}
	}

	printer := printerForContext(ctx)
	return printer.Print(ctx, result)
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove stored credentials",
		Long: `Remove the stored Linear token from secret storage.

This removes:
  - The access token
  - Token metadata
  - Cached user information

Logging out when no session exists is not an error.

Note: If you have set the LINEAR_API_KEY environment variable,
you will need to unset it separately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context())
		},
	}
}

func runLogout(ctx context.Context) error {
	if err := SessionFromContext(ctx).Logout(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	printer := printerForContext(ctx)
	return printer.Print(ctx, map[string]interface{}{
		"status":  "success",
		"message": "Logged out successfully",
	})
}
