package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/copyhacker/productboard-mcp/internal/auth"
	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Store, inspect, refresh, and clear API credentials",
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthStatusCommand())
	cmd.AddCommand(newAuthRefreshCommand())
	cmd.AddCommand(newAuthLogoutCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		token        string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the API",
		Long: `Store credentials for subsequent commands.

With --token the token is stored directly. With --client-id and
--client-secret an OAuth2 client_credentials grant is performed and the
resulting token is stored alongside the credentials so it can be refreshed.
Without flags the token is read from an interactive no-echo prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.API == "" {
				config.API = constants.DefaultAPIEndpoint
			}

			if clientID != "" {
				return loginWithClientCredentials(cmd.Context(), config, clientID, clientSecret)
			}

			if token == "" {
				prompted, err := promptForSecret("API token: ")
				if err != nil {
					return err
				}

				token = prompted
			}

			if token == "" {
				return constants.ErrNoAccessToken
			}

			config.Token = token
			config.TokenExpiresAt = nil
			config.RefreshToken = ""

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Logged in to %s\n", config.API)

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token to store (prompted when omitted)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")

	return cmd
}

func loginWithClientCredentials(ctx context.Context, config *Config, clientID, clientSecret string) error {
	if clientSecret == "" {
		prompted, err := promptForSecret("Client secret: ")
		if err != nil {
			return err
		}

		clientSecret = prompted
	}

	manager := auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     strings.TrimSuffix(config.API, "/") + "/oauth2/token",
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})

	token, err := manager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}

	config.Token = token
	config.ClientID = clientID
	config.ClientSecret = clientSecret

	expiry := manager.GetTokenExpiry()
	if !expiry.IsZero() {
		config.TokenExpiresAt = &expiry
	}

	err = saveConfigStruct(config)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Logged in to %s\n", config.API)

	return nil
}

func promptForSecret(prompt string) (string, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	raw, err := term.ReadPassword(int(syscall.Stdin))

	_, _ = fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			endpoint := config.API
			if endpoint == "" {
				endpoint = constants.DefaultAPIEndpoint
			}

			_, _ = fmt.Fprintf(os.Stdout, "API endpoint: %s\n", endpoint)

			if config.Token == "" && config.ClientID == "" {
				_, _ = os.Stdout.WriteString("Not authenticated\n")

				return nil
			}

			if config.Token != "" {
				_, _ = fmt.Fprintf(os.Stdout, "Token: %s\n", constants.MaskedSecret)
			}

			if config.ClientID != "" {
				_, _ = fmt.Fprintf(os.Stdout, "Client ID: %s\n", config.ClientID)
			}

			if config.TokenExpiresAt != nil {
				if time.Now().After(*config.TokenExpiresAt) {
					_, _ = fmt.Fprintf(os.Stdout, "Expired: %s\n", config.TokenExpiresAt.Format(time.RFC3339))
				} else {
					_, _ = fmt.Fprintf(os.Stdout, "Expires: %s\n", config.TokenExpiresAt.Format(time.RFC3339))
				}
			}

			if config.LastRefreshed != nil {
				_, _ = fmt.Fprintf(os.Stdout, "Last refreshed: %s\n", config.LastRefreshed.Format(time.RFC3339))
			}

			return nil
		},
	}
}

func newAuthRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored token",
		Long:  "Force an OAuth2 token refresh and persist the new token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if config.ClientID == "" && config.RefreshToken == "" {
				return constants.ErrNoRefreshToken
			}

			endpoint := config.API
			if endpoint == "" {
				endpoint = constants.DefaultAPIEndpoint
			}

			var initialExpiry time.Time
			if config.TokenExpiresAt != nil {
				initialExpiry = *config.TokenExpiresAt
			}

			manager := auth.NewConfigTokenManager(&auth.OAuth2Config{
				TokenURL:     strings.TrimSuffix(endpoint, "/") + "/oauth2/token",
				ClientID:     config.ClientID,
				ClientSecret: config.ClientSecret,
				RefreshToken: config.RefreshToken,
			}, NewConfigPersister(), endpoint, config.Token, initialExpiry)

			err := manager.RefreshToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to refresh token: %w", err)
			}

			expiry := manager.GetTokenExpiry()
			if expiry.IsZero() {
				_, _ = os.Stdout.WriteString("Token refreshed\n")
			} else {
				_, _ = fmt.Fprintf(os.Stdout, "Token refreshed, expires %s\n", expiry.Format(time.RFC3339))
			}

			return nil
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.TokenExpiresAt = nil
			config.RefreshToken = ""
			config.ClientID = ""
			config.ClientSecret = ""
			config.LastRefreshed = nil

			// The bound --token flag would otherwise leak back in on save.
			viper.Set("token", "")

			err := saveConfigStruct(config)
			if err != nil {
				return err
			}

			_, _ = os.Stdout.WriteString("Logged out\n")

			return nil
		},
	}
}
