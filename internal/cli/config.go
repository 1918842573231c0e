package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dl-alexandre/gacl/internal/config"
	"github.com/dl-alexandre/gacl/internal/logging"
	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  "Commands for managing gacl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective configuration: file values with GACL_* environment overrides applied",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys: targetEmails, targetDomains, targetsFile,
quoteChar, lineTerminator, nonInheritedOnly, defaultOutputFormat, logLevel,
colorOutput. List values are comma separated.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to defaults",
	Long:  "Reset all configuration settings to their default values",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := GetGlobalFlags()
	out := NewOutputWriter(cmd.OutOrStdout(), outputFormat(cfg), flags.Quiet, flags.Verbose)
	return out.WriteSuccess("config.show", configView(cfg))
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadStoredConfig()
	if err != nil {
		return err
	}

	key := args[0]
	value := args[1]

	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}

	// Save the configuration
	if err := saveConfig(cfg); err != nil {
		return err
	}

	flags := GetGlobalFlags()
	out := NewOutputWriter(cmd.OutOrStdout(), outputFormat(cfg), flags.Quiet, flags.Verbose)
	GetLogger().Info("Configuration updated", logging.F("key", key))
	return out.WriteSuccess("config.set", map[string]interface{}{
		"key":   key,
		"value": value,
	})
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if err := saveConfig(cfg); err != nil {
		return err
	}

	flags := GetGlobalFlags()
	out := NewOutputWriter(cmd.OutOrStdout(), outputFormat(cfg), flags.Quiet, flags.Verbose)
	GetLogger().Info("Configuration reset to defaults")
	return out.WriteSuccess("config.reset", configView(cfg))
}

// setConfigValue applies one key=value to cfg. Keys are case-insensitive.
func setConfigValue(cfg *config.Config, key, value string) error {
	invalid := func(msg string) error {
		return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument, msg).
			WithContext("key", key).Build())
	}

	switch strings.ToLower(key) {
	case "targetemails":
		cfg.TargetEmails = config.SplitList(value)
	case "targetdomains":
		cfg.TargetDomains = config.SplitList(value)
	case "targetsfile":
		cfg.TargetsFile = strings.TrimSpace(value)
	case "quotechar":
		if err := config.ValidateQuoteChar(value); err != nil {
			return invalid(err.Error())
		}
		cfg.QuoteChar = value
	case "lineterminator":
		v := strings.ToLower(value)
		if v != config.LineTerminatorLF && v != config.LineTerminatorCRLF {
			return invalid("Invalid line terminator. Must be 'lf' or 'crlf'")
		}
		cfg.LineTerminator = v
	case "noninheritedonly":
		cfg.NonInheritedOnly = config.ParseBool(value)
	case "defaultoutputformat":
		if value != string(types.OutputFormatJSON) && value != string(types.OutputFormatTable) {
			return invalid("Invalid output format. Must be 'json' or 'table'")
		}
		cfg.DefaultOutputFormat = types.OutputFormat(value)
	case "loglevel":
		valid := false
		for _, level := range config.ValidLogLevels {
			if value == level {
				valid = true
				break
			}
		}
		if !valid {
			return invalid(fmt.Sprintf("Invalid log level. Must be one of: %s", strings.Join(config.ValidLogLevels, ", ")))
		}
		cfg.LogLevel = value
	case "coloroutput":
		cfg.ColorOutput = config.ParseBool(value)
	default:
		return invalid(fmt.Sprintf("Unknown configuration key: %s", key))
	}
	return nil
}

// configPath is --config or the default config file location
func configPath() (string, error) {
	if path := GetGlobalFlags().Config; path != "" {
		return path, nil
	}
	return config.GetConfigPath()
}

// loadStoredConfig reads the config file without environment overrides, so
// that saving it back does not persist GACL_* values
func loadStoredConfig() (*config.Config, error) {
	path, err := configPath()
	if err == nil {
		var cfg *config.Config
		if cfg, err = config.LoadFileOnly(path); err == nil {
			return cfg, nil
		}
	}
	return nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidConfig, err.Error()).
		WithContext("suggestedAction", "fix the file or run 'gacl config reset'").Build()).WithCause(err)
}

func saveConfig(cfg *config.Config) error {
	path, err := configPath()
	if err == nil {
		err = cfg.SaveFile(path)
	}
	if err != nil {
		return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidConfig,
			fmt.Sprintf("Failed to save configuration: %v", err)).Build()).WithCause(err)
	}
	return nil
}

// configTable renders a Config as key/value rows
type configTable struct {
	*config.Config
}

func configView(cfg *config.Config) configTable {
	return configTable{Config: cfg}
}

func (c configTable) AsTableRenderer() types.TableRenderer {
	return &types.KeyValueTable{
		KeyHeader:   "Key",
		ValueHeader: "Value",
		Pairs: [][2]string{
			{"targetEmails", strings.Join(c.TargetEmails, ",")},
			{"targetDomains", strings.Join(c.TargetDomains, ",")},
			{"targetsFile", c.TargetsFile},
			{"quoteChar", c.QuoteChar},
			{"lineTerminator", c.LineTerminator},
			{"nonInheritedOnly", fmt.Sprint(c.NonInheritedOnly)},
			{"defaultOutputFormat", string(c.DefaultOutputFormat)},
			{"logLevel", c.LogLevel},
			{"colorOutput", fmt.Sprint(c.ColorOutput)},
		},
		Empty: "No configuration",
	}
}
