package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
)

const (
	// ConfigFileName is the name of the config file
	ConfigFileName = "config.json"
	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "GACL_"
)

// Line terminator names as stored in the config file
const (
	LineTerminatorLF   = "lf"
	LineTerminatorCRLF = "crlf"
)

// Config holds application configuration
type Config struct {
	// TargetEmails are the users whose permissions are selected
	TargetEmails []string `json:"targetEmails"`

	// TargetDomains are the domains whose users' permissions are selected
	TargetDomains []string `json:"targetDomains"`

	// TargetsFile is a YAML file of additional emails and domains
	TargetsFile string `json:"targetsFile,omitempty"`

	// QuoteChar is the CSV quote character for input and output
	QuoteChar string `json:"quoteChar"`

	// LineTerminator ends every output record (lf, crlf)
	LineTerminator string `json:"lineTerminator"`

	// NonInheritedOnly drops inherited shared drive permissions (teamdrive only)
	NonInheritedOnly bool `json:"nonInheritedOnly"`

	// DefaultOutputFormat is the run summary format (json, table)
	DefaultOutputFormat types.OutputFormat `json:"defaultOutputFormat"`

	// LogLevel sets the logging verbosity (quiet, normal, verbose, debug)
	LogLevel string `json:"logLevel"`

	// ColorOutput enables colored console logs
	ColorOutput bool `json:"colorOutput"`
}

// ValidLogLevels lists the accepted LogLevel values
var ValidLogLevels = []string{"quiet", "normal", "verbose", "debug"}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TargetEmails:        []string{},
		TargetDomains:       []string{},
		QuoteChar:           `"`,
		LineTerminator:      LineTerminatorLF,
		NonInheritedOnly:    true,
		DefaultOutputFormat: types.OutputFormatJSON,
		LogLevel:            "normal",
		ColorOutput:         true,
	}
}

// Load loads configuration with precedence: env vars > config file > defaults.
// CLI flags are applied on top by the caller.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFileOnly reads the stored configuration without GACL_* overrides.
// Use it when the result is written back with SaveFile.
func LoadFileOnly(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "TARGET_EMAILS"); ok {
		c.TargetEmails = SplitList(v)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TARGET_DOMAINS"); ok {
		c.TargetDomains = SplitList(v)
	}
	if v := os.Getenv(EnvPrefix + "TARGETS_FILE"); v != "" {
		c.TargetsFile = v
	}
	if v := os.Getenv(EnvPrefix + "QUOTE_CHAR"); v != "" {
		c.QuoteChar = v
	}
	if v := os.Getenv(EnvPrefix + "LINE_TERMINATOR"); v != "" {
		c.LineTerminator = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "NON_INHERITED_ONLY"); v != "" {
		c.NonInheritedOnly = ParseBool(v)
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_FORMAT"); v != "" {
		c.DefaultOutputFormat = types.OutputFormat(v)
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "COLOR_OUTPUT"); v != "" {
		c.ColorOutput = ParseBool(v)
	}
}

// Save saves the configuration to the config file
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

// SaveFile validates and writes the configuration to path
func (c *Config) SaveFile(configPath string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := ValidateQuoteChar(c.QuoteChar); err != nil {
		return err
	}

	if c.LineTerminator != LineTerminatorLF && c.LineTerminator != LineTerminatorCRLF {
		return fmt.Errorf("invalid line terminator: %q (must be 'lf' or 'crlf')", c.LineTerminator)
	}

	if c.DefaultOutputFormat != types.OutputFormatJSON &&
		c.DefaultOutputFormat != types.OutputFormatTable {
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'table')", c.DefaultOutputFormat)
	}

	isValid := false
	for _, level := range ValidLogLevels {
		if c.LogLevel == level {
			isValid = true
			break
		}
	}
	if !isValid {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(ValidLogLevels, ", "))
	}

	return nil
}

// ValidateQuoteChar checks q is a single character usable as a CSV quote
func ValidateQuoteChar(q string) error {
	if utf8.RuneCountInString(q) != 1 {
		return fmt.Errorf("quote character must be exactly one character, got %q", q)
	}
	switch r, _ := utf8.DecodeRuneInString(q); r {
	case ',', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("invalid quote character: %q", q)
	}
	return nil
}

// QuoteRune returns the configured quote character
func (c *Config) QuoteRune() rune {
	r, _ := utf8.DecodeRuneInString(c.QuoteChar)
	return r
}

// Terminator returns the configured line terminator as text
func (c *Config) Terminator() string {
	if c.LineTerminator == LineTerminatorCRLF {
		return utils.LineTerminatorCRLF
	}
	return utils.LineTerminatorLF
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "gacl"), nil
}

// ParseBool parses a boolean value from a string
func ParseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// SplitList splits a comma-separated list, dropping blank items
func SplitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
