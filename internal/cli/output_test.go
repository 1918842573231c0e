package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
)

func TestOutputWriter_WriteSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputWriter(&buf, types.OutputFormatJSON, false, false)
	out.AddWarning("NO_TARGETS", "no targets", "warning")

	summary := &types.FilterSummary{Variant: "drive", RowsRead: 3, RowsEmitted: 1}
	if err := out.WriteSuccess("drive", summary); err != nil {
		t.Fatalf("WriteSuccess failed: %v", err)
	}

	var envelope struct {
		SchemaVersion string              `json:"schemaVersion"`
		TraceID       string              `json:"traceId"`
		Command       string              `json:"command"`
		Data          types.FilterSummary `json:"data"`
		Warnings      []types.CLIWarning  `json:"warnings"`
		Errors        []types.CLIError    `json:"errors"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if envelope.SchemaVersion != utils.SchemaVersion || envelope.Command != "drive" {
		t.Errorf("unexpected envelope: %+v", envelope)
	}
	if envelope.TraceID != out.TraceID() {
		t.Errorf("trace ID %q, want %q", envelope.TraceID, out.TraceID())
	}
	if envelope.Data.RowsRead != 3 || envelope.Data.RowsEmitted != 1 {
		t.Errorf("unexpected data: %+v", envelope.Data)
	}
	if len(envelope.Warnings) != 1 || envelope.Warnings[0].Code != "NO_TARGETS" {
		t.Errorf("unexpected warnings: %+v", envelope.Warnings)
	}
	if len(envelope.Errors) != 0 {
		t.Errorf("unexpected errors: %+v", envelope.Errors)
	}
}

func TestOutputWriter_WriteSuccessTable(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputWriter(&buf, types.OutputFormatTable, false, false)

	if err := out.WriteSuccess("teamdrive", &types.FilterSummary{Variant: "teamdrive", SkippedInherit: 4}); err != nil {
		t.Fatalf("WriteSuccess failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"METRIC", "VALUE", "Skipped (inherited)", "teamdrive", "4"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestOutputWriter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputWriter(&buf, types.OutputFormatJSON, true, false)

	if err := out.WriteSuccess("drive", &types.FilterSummary{}); err != nil {
		t.Fatalf("WriteSuccess failed: %v", err)
	}
	out.Log("hidden")
	if buf.Len() != 0 {
		t.Errorf("quiet writer produced output: %q", buf.String())
	}

	cliErr := utils.NewCLIError(utils.ErrCodeMissingColumn, "missing column").Build()
	if err := out.WriteError("drive", cliErr); err != nil {
		t.Fatalf("WriteError failed: %v", err)
	}
	if !strings.Contains(buf.String(), utils.ErrCodeMissingColumn) {
		t.Errorf("errors must be written even when quiet: %q", buf.String())
	}
}

func TestOutputWriter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	NewOutputWriter(&buf, types.OutputFormatJSON, false, false).Verbose("x")
	if buf.Len() != 0 {
		t.Errorf("non-verbose writer produced output: %q", buf.String())
	}

	NewOutputWriter(&buf, types.OutputFormatJSON, false, true).Verbose("rows=%d", 2)
	if got := buf.String(); got != "[VERBOSE] rows=2\n" {
		t.Errorf("Verbose() wrote %q", got)
	}
}
