package cli

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/output"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

var configForce bool

// maxKeyTypoDistance is the largest edit distance still offered as a
// "did you mean" suggestion for an unknown config key.
const maxKeyTypoDistance = 3

// configEntry is one dot-path setting shown by config show and config get.
type configEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tokengate configuration",
	Long:  `Create, inspect and locate the tokengate configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file to the tokengate home directory.
An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		path := config.Path(cfg.Home)
		if _, err := os.Stat(path); err == nil && !configForce {
			return gateerr.WithSuggestion(
				gateerr.WithDetails(gateerr.ErrInvalidInput, map[string]string{"path": path}),
				"use --force to overwrite the existing configuration",
			)
		}

		fresh := config.Defaults()
		fresh.Home = cfg.Home
		if err := config.Save(fresh, path); err != nil {
			return gateerr.Wrap(err, "writing %s", path)
		}
		logger.Debug("config: wrote defaults to %s", path)

		if formatter.IsJSON() {
			return formatter.Print(map[string]string{"path": path})
		}
		messenger.Successf("Configuration written to %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration: the file merged with environment
variables and command-line flags. The authorization secret is masked.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		entries := configEntries(cfg)
		if formatter.IsJSON() {
			return formatter.Print(entries)
		}

		t := output.NewTable("KEY", "VALUE")
		for _, e := range entries {
			t.AddRow(e.Key, e.Value)
		}
		return t.Render(formatter.Writer())
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Example: `  tokengate config get ledger.token_mint
  tokengate config get auth.transport`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		entries := configEntries(config.Defaults())
		keys := make([]string, 0, len(entries))
		for _, e := range entries {
			keys = append(keys, e.Key)
		}
		return keys, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(_ *cobra.Command, args []string) error {
		value, err := configValue(cfg, args[0])
		if err != nil {
			return err
		}
		if formatter.IsJSON() {
			return formatter.Print(configEntry{Key: args[0], Value: value})
		}
		return formatter.Println(value)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return formatter.Println(config.Path(cfg.Home))
	},
}

// configEntries flattens c into dot-path entries in file order.
func configEntries(c *config.Config) []configEntry {
	secret := ""
	if c.Auth.Secret != "" {
		secret = "********"
	}

	return []configEntry{
		{"home", c.Home},
		{"ledger.rpc", c.Ledger.RPC},
		{"ledger.commitment", c.Ledger.Commitment},
		{"ledger.token_mint", c.Ledger.TokenMint},
		{"ledger.required_balance", strconv.FormatFloat(c.Ledger.RequiredBalance, 'f', -1, 64)},
		{"ledger.token_decimals", strconv.Itoa(c.Ledger.TokenDecimals)},
		{"ledger.requests_per_second", strconv.FormatFloat(c.Ledger.RequestsPerSecond, 'f', -1, 64)},
		{"ledger.burst", strconv.Itoa(c.Ledger.Burst)},
		{"ledger.timeout_seconds", strconv.Itoa(c.Ledger.TimeoutSeconds)},
		{"wallet.provider", c.Wallet.Provider},
		{"wallet.keypair_path", c.Wallet.KeypairPath},
		{"wallet.address", c.Wallet.Address},
		{"auth.transport", c.Auth.Transport},
		{"auth.url", c.Auth.URL},
		{"auth.secret", secret},
		{"auth.redis_addr", c.Auth.RedisAddr},
		{"auth.redis_channel", c.Auth.RedisChannel},
		{"auth.timeout_seconds", strconv.Itoa(c.Auth.TimeoutSeconds)},
		{"output.default_format", c.Output.DefaultFormat},
		{"output.color", c.Output.Color},
		{"output.verbose", strconv.FormatBool(c.Output.Verbose)},
		{"logging.level", c.Logging.Level},
		{"logging.file", c.Logging.File},
	}
}

// configValue returns the value at key.
func configValue(c *config.Config, key string) (string, error) {
	for _, e := range configEntries(c) {
		if e.Key == key {
			return e.Value, nil
		}
	}
	suggestion := "run 'tokengate config show' to list keys"
	if near := suggestConfigKey(c, key); near != "" {
		suggestion = "did you mean " + near + "? " + suggestion
	}
	return "", gateerr.WithSuggestion(
		gateerr.WithDetails(gateerr.ErrUnknownConfigKey, map[string]string{"key": key}),
		suggestion,
	)
}

// suggestConfigKey returns the known key closest to key, or "" when none
// is within maxKeyTypoDistance.
func suggestConfigKey(c *config.Config, key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	minDist := math.MaxInt
	var suggestion string

	for _, e := range configEntries(c) {
		dist := levenshtein.ComputeDistance(key, e.Key)
		if dist < minDist {
			minDist = dist
			suggestion = e.Key
		}
	}

	if minDist <= maxKeyTypoDistance {
		return suggestion
	}
	return ""
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd, configShowCmd, configGetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
