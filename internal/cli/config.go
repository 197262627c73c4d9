package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/alnah/go-segrec/internal/config"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-segrec/config.yaml
($XDG_CONFIG_HOME/go-segrec/config.yaml when set). Each key can also be
provided through a SEGREC_* environment variable; the file wins over the
environment, and record flags win over both.

Supported settings:
  output-dir        Directory for segment files    (env: SEGREC_OUTPUT_DIR)
  output-prefix     File name prefix               (env: SEGREC_OUTPUT_PREFIX)
  sample-rate       Capture sample rate in Hz      (env: SEGREC_SAMPLE_RATE)
  silence-duration  Silence that ends a segment    (env: SEGREC_SILENCE_DURATION)
  max-duration      Longest segment                (env: SEGREC_MAX_DURATION)
  check-interval    Length of one capture tick     (env: SEGREC_CHECK_INTERVAL)
  threshold         Silence amplitude threshold    (env: SEGREC_THRESHOLD)
  device            Input device name or substring (env: SEGREC_DEVICE)`,
		Example: `  segrec config set output-dir ~/recordings/segments
  segrec config set silence-duration 2s
  segrec config get output-dir
  segrec config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Durations use Go syntax (3s, 250ms). For output-dir, the directory is
created if it doesn't exist.`,
		Example: `  segrec config set output-dir ~/recordings/segments
  segrec config set threshold 0.02`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			return runConfigSet(env, key, value)
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  segrec config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  segrec config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if !isValidConfigKey(key) {
		return unknownKeyError(key)
	}

	if key == config.KeyOutputDir {
		expanded := config.ExpandPath(value)
		if err := config.EnsureOutputDir(expanded); err != nil {
			return fmt.Errorf("invalid output-dir: %w", err)
		}
		value = expanded
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !isValidConfigKey(key) {
		return unknownKeyError(key)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}
	if value == "" {
		value = env.Getenv(config.EnvVar(key))
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
// Keys are printed in config.Keys order.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	for _, key := range config.Keys {
		if _, ok := data[key]; ok {
			continue
		}
		if v := env.Getenv(config.EnvVar(key)); v != "" {
			data[key] = v + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	for _, key := range config.Keys {
		if v, ok := data[key]; ok {
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, v)
		}
	}
	return nil
}

// isValidConfigKey checks if a key is a valid configuration key.
func isValidConfigKey(key string) bool {
	return slices.Contains(config.Keys, key)
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key %q (valid keys: %v): %w", key, config.Keys, config.ErrInvalidKey)
}
