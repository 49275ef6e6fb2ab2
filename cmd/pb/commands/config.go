package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/pbclient"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration persisted in
// ~/.productboard/config.yml.
type Config struct {
	API            string     `json:"api,omitempty"              yaml:"api,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`

	Output        string `json:"output,omitempty"         yaml:"output,omitempty"`
	EventsURL     string `json:"events_url,omitempty"     yaml:"events_url,omitempty"`
	EventsSubject string `json:"events_subject,omitempty" yaml:"events_subject,omitempty"`
}

func loadConfig() *Config {
	var expiresAt, lastRefreshed *time.Time

	if raw := viper.GetTime("token_expires_at"); !raw.IsZero() {
		expiresAt = &raw
	}

	if raw := viper.GetTime("last_refreshed"); !raw.IsZero() {
		lastRefreshed = &raw
	}

	return &Config{
		API:            viper.GetString("api"),
		Token:          viper.GetString("token"),
		TokenExpiresAt: expiresAt,
		RefreshToken:   viper.GetString("refresh_token"),
		ClientID:       viper.GetString("client_id"),
		ClientSecret:   viper.GetString("client_secret"),
		LastRefreshed:  lastRefreshed,
		Output:         viper.GetString("output"),
		EventsURL:      viper.GetString("events_url"),
		EventsSubject:  viper.GetString("events_subject"),
	}
}

func configFilePath() string {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile
	}

	home, _ := os.UserHomeDir()

	return filepath.Join(home, ".productboard", "config.yml")
}

func saveConfigStruct(config *Config) error {
	configFile := configFilePath()

	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ConfigPersister implements auth.ConfigPersister, writing refreshed tokens
// back to the CLI config file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// UpdateAPIToken updates the stored token and related metadata.
func (p *ConfigPersister) UpdateAPIToken(apiEndpoint, token string, expiresAt time.Time, refreshToken string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config := loadConfig()
	config.API = apiEndpoint
	config.Token = token

	if !expiresAt.IsZero() {
		config.TokenExpiresAt = &expiresAt
	}

	if refreshToken != "" {
		config.RefreshToken = refreshToken
	}

	now := time.Now()
	config.LastRefreshed = &now

	return saveConfigStruct(config)
}

// CreateClient builds a productboard client from the effective CLI
// configuration (flags, environment, config file).
func CreateClient() (productboard.Client, error) {
	config := loadConfig()

	clientConfig := &productboard.Config{
		APIEndpoint:  config.API,
		AccessToken:  config.Token,
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RefreshToken: config.RefreshToken,
		Debug:        viper.GetBool("verbose"),
	}

	if clientConfig.Debug {
		clientConfig.Logger = newStderrLogger()
	}

	if config.EventsURL != "" {
		clientConfig.Events = productboard.EventsConfig{
			Type:    productboard.PublisherTypeNATS,
			URL:     config.EventsURL,
			Subject: config.EventsSubject,
		}
	}

	client, err := pbclient.New(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage pb CLI configuration including the API endpoint and output settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with credentials masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// Never print credentials.
			masked := *config
			if masked.Token != "" {
				masked.Token = constants.MaskedSecret
			}

			if masked.RefreshToken != "" {
				masked.RefreshToken = constants.MaskedSecret
			}

			if masked.ClientSecret != "" {
				masked.ClientSecret = constants.MaskedSecret
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				return StandardJSONRenderer(&masked)
			case constants.FormatYAML:
				return StandardYAMLRenderer(&masked)
			default:
				return displayConfigTable(&masked)
			}
		},
	}
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Key", "Value")

	endpoint := config.API
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint + " (default)"
	}

	_ = table.Append("api", endpoint)
	_ = table.Append("token", valueOrNone(config.Token))
	_ = table.Append("refresh_token", valueOrNone(config.RefreshToken))
	_ = table.Append("client_id", valueOrNone(config.ClientID))
	_ = table.Append("client_secret", valueOrNone(config.ClientSecret))
	_ = table.Append("output", valueOrNone(config.Output))
	_ = table.Append("events_url", valueOrNone(config.EventsURL))
	_ = table.Append("events_subject", valueOrNone(config.EventsSubject))

	_ = table.Render()

	return nil
}

func valueOrNone(value string) string {
	if value == "" {
		return constants.None
	}

	return value
}

// configKeys are the keys the set/unset commands accept. Token material goes
// through 'pb auth login' instead.
var configKeys = map[string]bool{
	"api":            true,
	"output":         true,
	"events_url":     true,
	"events_subject": true,
	"client_id":      true,
	"client_secret":  true,
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value and persist it",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if key == "token" || key == "refresh_token" {
				return constants.ErrTokenFieldsNoEdit
			}

			if !configKeys[key] {
				return fmt.Errorf("%w: %s", constants.ErrConfigKeyUnknown, key)
			}

			if key == "output" && !validOutputFormat(value) {
				return constants.ErrInvalidOutputFormat
			}

			viper.Set(key, value)

			err := saveConfigStruct(loadConfig())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if !configKeys[key] {
				return fmt.Errorf("%w: %s", constants.ErrConfigKeyUnknown, key)
			}

			viper.Set(key, "")

			err := saveConfigStruct(loadConfig())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings including stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := os.Remove(configFilePath())
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = os.Stdout.WriteString("Cleared all configuration\n")

			return nil
		},
	}
}
