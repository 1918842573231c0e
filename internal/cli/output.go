package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
)

// OutputWriter handles CLI output formatting. It never writes to stdout,
// which may carry the deletion CSV.
type OutputWriter struct {
	w        io.Writer
	format   types.OutputFormat
	quiet    bool
	verbose  bool
	traceID  string
	warnings []types.CLIWarning
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(w io.Writer, format types.OutputFormat, quiet, verbose bool) *OutputWriter {
	return &OutputWriter{
		w:        w,
		format:   format,
		quiet:    quiet,
		verbose:  verbose,
		traceID:  uuid.New().String(),
		warnings: []types.CLIWarning{},
	}
}

// TraceID identifies this invocation in envelopes and logs
func (w *OutputWriter) TraceID() string {
	return w.traceID
}

// AddWarning adds a warning to the output
func (w *OutputWriter) AddWarning(code, message, severity string) {
	w.warnings = append(w.warnings, types.CLIWarning{
		Code:     code,
		Message:  message,
		Severity: severity,
	})
}

// WriteSuccess writes a successful result. Nothing is written when quiet.
func (w *OutputWriter) WriteSuccess(command string, data interface{}) error {
	if w.quiet {
		return nil
	}

	if w.format == types.OutputFormatTable {
		return w.writeTable(command, data)
	}
	return w.writeJSON(types.CLIOutput{
		SchemaVersion: utils.SchemaVersion,
		TraceID:       w.traceID,
		Command:       command,
		Data:          data,
		Warnings:      w.warnings,
		Errors:        []types.CLIError{},
	})
}

// WriteError writes an error result. Errors are always JSON and ignore quiet.
func (w *OutputWriter) WriteError(command string, cliErr types.CLIError) error {
	return w.writeJSON(types.CLIOutput{
		SchemaVersion: utils.SchemaVersion,
		TraceID:       w.traceID,
		Command:       command,
		Data:          nil,
		Warnings:      w.warnings,
		Errors:        []types.CLIError{cliErr},
	})
}

func (w *OutputWriter) writeJSON(output types.CLIOutput) error {
	encoder := json.NewEncoder(w.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (w *OutputWriter) writeTable(command string, data interface{}) error {
	if renderable, ok := data.(types.TableRenderable); ok {
		return w.renderTable(renderable.AsTableRenderer())
	}
	if renderer, ok := data.(types.TableRenderer); ok {
		return w.renderTable(renderer)
	}
	// Fallback to JSON for unknown types
	return w.writeJSON(types.CLIOutput{
		SchemaVersion: utils.SchemaVersion,
		TraceID:       w.traceID,
		Command:       command,
		Data:          data,
		Warnings:      w.warnings,
		Errors:        []types.CLIError{},
	})
}

func (w *OutputWriter) renderTable(renderer types.TableRenderer) error {
	rows := renderer.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w.w, renderer.EmptyMessage())
		return err
	}

	table := tablewriter.NewWriter(w.w)
	table.SetHeader(renderer.Headers())
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()

	for _, warning := range w.warnings {
		fmt.Fprintf(w.w, "warning: %s: %s\n", warning.Code, warning.Message)
	}
	return nil
}

// Log writes to the output stream if not quiet
func (w *OutputWriter) Log(format string, args ...interface{}) {
	if !w.quiet {
		fmt.Fprintf(w.w, format+"\n", args...)
	}
}

// Verbose writes to the output stream if verbose is enabled
func (w *OutputWriter) Verbose(format string, args ...interface{}) {
	if w.verbose {
		fmt.Fprintf(w.w, "[VERBOSE] "+format+"\n", args...)
	}
}
