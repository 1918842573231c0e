package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dl-alexandre/gacl/internal/config"
	"github.com/dl-alexandre/gacl/internal/logging"
	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
	"github.com/dl-alexandre/gacl/pkg/version"
)

var (
	globalFlags types.GlobalFlags
	logger      logging.Logger = logging.NewNoOpLogger()
)

var rootCmd = &cobra.Command{
	Use:   "gacl",
	Short: "Drive ACL export filter",
	Long: `gacl reads a GAM permissions export and writes the CSV of user
permissions to remove, ready for:

  gam csv deleteperms.csv gam user "~Owner" delete drivefileacl "~driveFileId" "~permissionId"

CSV goes to stdout or the output file. Logs and the run summary go to stderr.`,
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateGlobalFlags(); err != nil {
			return err
		}

		logConfig := logging.DefaultLogConfig()
		logConfig.OutputFile = globalFlags.LogFile
		logConfig.EnableConsole = !globalFlags.Quiet
		logConfig.EnableDebug = globalFlags.Debug

		// Config problems are reported by the commands that need it
		if cfg, err := loadConfigFile(); err == nil {
			logConfig.Level = logging.ParseLevel(cfg.LogLevel)
			logConfig.EnableColor = cfg.ColorOutput
		}
		if globalFlags.Verbose {
			logConfig.Level = logging.DEBUG
		}

		l, err := logging.NewLogger(logConfig)
		if err != nil {
			return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
				fmt.Sprintf("failed to initialize logger: %v", err)).
				WithContext("logFile", globalFlags.LogFile).Build())
		}
		logger = l
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "Print the version number of gacl",
	Run: func(cmd *cobra.Command, args []string) {
		if globalFlags.Verbose {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar((*string)(&globalFlags.OutputFormat), "output", "", "Summary format (json, table)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress logs and the run summary")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "Enable debug output and error stack traces")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Config, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "Output in JSON format (alias for --output json)")

	rootCmd.AddCommand(versionCmd)
}

func validateGlobalFlags() error {
	// Handle --json flag as alias for --output json
	if globalFlags.JSON {
		globalFlags.OutputFormat = types.OutputFormatJSON
	}

	switch globalFlags.OutputFormat {
	case "", types.OutputFormatJSON, types.OutputFormatTable:
		return nil
	}
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
		fmt.Sprintf("invalid output format: %s", globalFlags.OutputFormat)).
		WithContext("suggestedAction", "use --output json or --output table").Build())
}

// Execute runs the root command and exits with the code of any failure
func Execute() {
	os.Exit(execute(rootCmd, os.Stderr))
}

func execute(cmd *cobra.Command, stderr io.Writer) int {
	called, err := cmd.ExecuteC()
	defer func() { _ = logger.Close() }()
	if err == nil {
		return utils.ExitSuccess
	}

	var appErr *utils.AppError
	if !pkgerrors.As(err, &appErr) {
		// Usage errors from cobra itself
		appErr = utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument, err.Error()).Build()).WithCause(err)
	}

	out := NewOutputWriter(stderr, types.OutputFormatJSON, false, globalFlags.Verbose)
	_ = out.WriteError(commandName(called), appErr.CLIError)
	if globalFlags.Debug && appErr.Cause != nil {
		fmt.Fprintf(stderr, "%+v\n", appErr.Cause)
	}

	return utils.GetExitCode(appErr.CLIError.Code)
}

// commandName turns "gacl config set" into "config.set"
func commandName(cmd *cobra.Command) string {
	if cmd == nil || !cmd.HasParent() {
		return "gacl"
	}
	path := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	return strings.ReplaceAll(path, " ", ".")
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() types.GlobalFlags {
	return globalFlags
}

// GetLogger returns the global logger
func GetLogger() logging.Logger {
	return logger
}

func loadConfigFile() (*config.Config, error) {
	if globalFlags.Config != "" {
		return config.LoadFile(globalFlags.Config)
	}
	return config.Load()
}

// loadConfig loads the configuration and resolves the summary format
func loadConfig() (*config.Config, error) {
	cfg, err := loadConfigFile()
	if err != nil {
		return nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidConfig, err.Error()).
			WithContext("suggestedAction", "fix the file or run 'gacl config reset'").Build()).WithCause(err)
	}
	return cfg, nil
}

// outputFormat returns the --output flag, falling back to the configured default
func outputFormat(cfg *config.Config) types.OutputFormat {
	if globalFlags.OutputFormat != "" {
		return globalFlags.OutputFormat
	}
	if cfg != nil && cfg.DefaultOutputFormat != "" {
		return cfg.DefaultOutputFormat
	}
	return types.OutputFormatJSON
}
