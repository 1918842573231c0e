package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dl-alexandre/gacl/internal/acl"
	"github.com/dl-alexandre/gacl/internal/config"
	apperrors "github.com/dl-alexandre/gacl/internal/errors"
	"github.com/dl-alexandre/gacl/internal/logging"
	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
)

// filterFlags are the per-command flags of drive and teamdrive
type filterFlags struct {
	emails           []string
	domains          []string
	targetsFile      string
	quoteChar        string
	crlf             bool
	ownerColumn      string
	includeInherited bool
}

var (
	driveFlags     filterFlags
	teamDriveFlags filterFlags
)

var driveCmd = &cobra.Command{
	Use:   "drive [input|-] [output|-]",
	Short: "Filter a My Drive permissions export",
	Long: `Filter a "gam all users print filelist ... permissions" export.

The file owner is read from owners.0.emailAddress. Input defaults to stdin
and output to stdout; "-" selects them explicitly.`,
	Example: `  gacl drive --email user1@example.com filelistperms.csv deleteperms.csv
  gacl drive --domain partner.org < filelistperms.csv > deleteperms.csv`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilterCmd(cmd, acl.VariantDrive, &driveFlags, args)
	},
}

var teamDriveCmd = &cobra.Command{
	Use:     "teamdrive [input|-] [output|-]",
	Aliases: []string{"shareddrive"},
	Short:   "Filter a shared drive permissions export",
	Long: `Filter a shared drive file permissions export.

The file owner is read from the Owner column. Permissions inherited from the
shared drive are skipped unless --include-inherited is given.`,
	Example: `  gacl teamdrive --targets targets.yaml tdfileperms.csv deleteperms.csv`,
	Args:    cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilterCmd(cmd, acl.VariantTeamDrive, &teamDriveFlags, args)
	},
}

func init() {
	addFilterFlags(driveCmd, &driveFlags)
	addFilterFlags(teamDriveCmd, &teamDriveFlags)
	teamDriveCmd.Flags().BoolVar(&teamDriveFlags.includeInherited, "include-inherited", false, "Keep permissions inherited from the shared drive")

	rootCmd.AddCommand(driveCmd)
	rootCmd.AddCommand(teamDriveCmd)
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	cmd.Flags().StringSliceVar(&ff.emails, "email", nil, "Target user email (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&ff.domains, "domain", nil, "Target domain (repeatable or comma separated)")
	cmd.Flags().StringVar(&ff.targetsFile, "targets", "", "YAML file listing target emails and domains")
	cmd.Flags().StringVar(&ff.quoteChar, "quote-char", "", "CSV quote character (default from config, else '\"')")
	cmd.Flags().BoolVar(&ff.crlf, "crlf", false, "End output records with CRLF")
	cmd.Flags().StringVar(&ff.ownerColumn, "owner-column", "", "Input column holding the file owner")
}

func runFilterCmd(cmd *cobra.Command, variant acl.Variant, ff *filterFlags, args []string) error {
	flags := GetGlobalFlags()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := buildFilterOptions(variant, cfg, ff)
	if err != nil {
		return err
	}

	out := NewOutputWriter(cmd.ErrOrStderr(), outputFormat(cfg), flags.Quiet, flags.Verbose)
	ctx, stop := signal.NotifyContext(logging.ContextWithTraceID(cmd.Context(), out.TraceID()), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := GetLogger().WithContext(ctx)
	if opts.Criteria.Empty() {
		out.AddWarning("NO_TARGETS", "no target emails or domains configured; every user permission is selected", "warning")
		log.Warn("No targets configured, selecting every user permission")
	}

	input, output := streamArgs(args)
	summary, err := runFilter(ctx, opts, input, output, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}

	return out.WriteSuccess(string(variant), summary)
}

// streamArgs returns the input and output paths, "-" when not given
func streamArgs(args []string) (string, string) {
	input, output := utils.StdStream, utils.StdStream
	if len(args) > 0 && args[0] != "" {
		input = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		output = args[1]
	}
	return input, output
}

// buildFilterOptions layers command flags over the loaded configuration
func buildFilterOptions(variant acl.Variant, cfg *config.Config, ff *filterFlags) (acl.Options, error) {
	targets := &config.Targets{Emails: cfg.TargetEmails, Domains: cfg.TargetDomains}
	for _, path := range []string{cfg.TargetsFile, ff.targetsFile} {
		if path == "" {
			continue
		}
		fileTargets, err := config.LoadTargets(path)
		if err != nil {
			return acl.Options{}, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument, err.Error()).
				WithContext("targetsFile", path).Build()).WithCause(err)
		}
		targets = targets.Merge(fileTargets.Emails, fileTargets.Domains)
	}
	targets = targets.Merge(ff.emails, ff.domains)
	criteria := acl.NewCriteria(targets.Emails, targets.Domains)

	var opts acl.Options
	switch variant {
	case acl.VariantDrive:
		opts = acl.DriveOptions(criteria)
	case acl.VariantTeamDrive:
		opts = acl.TeamDriveOptions(criteria)
		opts.NonInheritedOnly = cfg.NonInheritedOnly && !ff.includeInherited
	default:
		return acl.Options{}, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
			fmt.Sprintf("unknown variant: %s", variant)).Build())
	}

	quote := cfg.QuoteChar
	if ff.quoteChar != "" {
		quote = ff.quoteChar
	}
	if err := config.ValidateQuoteChar(quote); err != nil {
		return acl.Options{}, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument, err.Error()).
			WithContext("quoteChar", quote).Build())
	}
	resolved := *cfg
	resolved.QuoteChar = quote
	if ff.crlf {
		resolved.LineTerminator = config.LineTerminatorCRLF
	}
	opts.QuoteChar = resolved.QuoteRune()
	opts.LineTerminator = resolved.Terminator()

	if ff.ownerColumn != "" {
		opts.OwnerColumn = ff.ownerColumn
	}

	return opts, nil
}

// runFilter opens input then output, runs the filter and closes what it
// opened. stdin and stdout are never closed. An input that cannot be opened
// leaves no output file behind.
func runFilter(ctx context.Context, opts acl.Options, input, output string, stdin io.Reader, stdout io.Writer, log logging.Logger) (*types.FilterSummary, error) {
	in, closeIn, err := openInput(input, stdin)
	if err != nil {
		return nil, err
	}
	defer closeIn()

	out, closeOut, err := openOutput(output, stdout)
	if err != nil {
		return nil, err
	}

	log.Debug("Filtering export",
		logging.F("variant", string(opts.Variant)),
		logging.F("input", streamName(input, "stdin")),
		logging.F("output", streamName(output, "stdout")),
		logging.F("ownerColumn", opts.OwnerColumn),
		logging.F("nonInheritedOnly", opts.NonInheritedOnly),
		logging.F("targetEmails", len(opts.Criteria.Emails())),
		logging.F("targetDomains", len(opts.Criteria.Domains())),
	)

	summary, runErr := acl.NewFilter(opts, log).Run(ctx, in, out)
	closeErr := closeOut()

	summary.Input = streamName(input, "stdin")
	summary.Output = streamName(output, "stdout")

	if runErr != nil {
		return summary, apperrors.ClassifyRunError(runErr, summary.Input, log)
	}
	if closeErr != nil {
		return summary, utils.NewAppError(utils.NewCLIError(utils.ErrCodeOutputNotWritable, closeErr.Error()).
			WithContext("output", summary.Output).Build()).WithCause(closeErr)
	}

	log.Info("Deletion CSV written",
		logging.F("rows", summary.RowsEmitted),
		logging.F("output", summary.Output),
	)
	if output != utils.StdStream && summary.RowsEmitted > 0 {
		log.Info("Remove the permissions with: " + fmt.Sprintf(utils.GAMDeleteCommand, output))
	}

	return summary, nil
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == utils.StdStream {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeInputNotFound,
			fmt.Sprintf("cannot open input: %v", err)).
			WithContext("input", path).Build()).WithCause(err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == utils.StdStream {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, utils.NewAppError(utils.NewCLIError(utils.ErrCodeOutputNotWritable,
			fmt.Sprintf("cannot create output: %v", err)).
			WithContext("output", path).Build()).WithCause(err)
	}
	return f, f.Close, nil
}

func streamName(path, std string) string {
	if path == utils.StdStream {
		return std
	}
	return path
}
