package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dl-alexandre/gacl/internal/types"
	"github.com/dl-alexandre/gacl/internal/utils"
	"github.com/dl-alexandre/gacl/pkg/version"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI executes the root command with fresh flag state
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	globalFlags = types.GlobalFlags{}
	driveFlags = filterFlags{}
	teamDriveFlags = filterFlags{}
	t.Setenv("GACL_CONFIG_DIR", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	code := execute(rootCmd, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func decodeEnvelope(t *testing.T, s string) types.CLIOutput {
	t.Helper()
	var out types.CLIOutput
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("stderr is not a JSON envelope: %v\n%s", err, s)
	}
	return out
}

func TestExecute_DriveFiles(t *testing.T) {
	input := writeFile(t, "filelistperms.csv", driveExport)
	output := filepath.Join(t.TempDir(), "deleteperms.csv")

	res := runCLI(t, "", "drive", "--email", "bob@x.com", input, output)
	if res.code != utils.ExitSuccess {
		t.Fatalf("exit code %d, stderr:\n%s", res.code, res.stderr)
	}
	if res.stdout != "" {
		t.Errorf("stdout should be empty when writing to a file, got %q", res.stdout)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	want := wantDeletionHeader + "alice@x.com,F1,Report,application/pdf,id:999,reader,bob@x.com\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	envelope := decodeEnvelope(t, res.stderr)
	if envelope.Command != "drive" {
		t.Errorf("command = %q", envelope.Command)
	}
	data2, _ := json.Marshal(envelope.Data)
	var summary types.FilterSummary
	if err := json.Unmarshal(data2, &summary); err != nil {
		t.Fatal(err)
	}
	if summary.RowsEmitted != 1 || summary.Variant != "drive" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestExecute_TeamDriveStdStreams(t *testing.T) {
	res := runCLI(t, teamDriveExport, "teamdrive", "--quiet", "--domain", "x.com", "--crlf")
	if res.code != utils.ExitSuccess {
		t.Fatalf("exit code %d, stderr:\n%s", res.code, res.stderr)
	}

	want := strings.ReplaceAll(wantDeletionHeader, "\n", "\r\n") +
		"org@x.com,T2,Spec,text/plain,id:22,reader,bob@x.com\r\n"
	if diff := cmp.Diff(want, res.stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if res.stderr != "" {
		t.Errorf("quiet run wrote to stderr: %q", res.stderr)
	}
}

func TestExecute_TeamDriveIncludeInherited(t *testing.T) {
	res := runCLI(t, teamDriveExport, "teamdrive", "--quiet", "--include-inherited", "-", "-")
	if res.code != utils.ExitSuccess {
		t.Fatalf("exit code %d, stderr:\n%s", res.code, res.stderr)
	}
	if got := strings.Count(res.stdout, "\n"); got != 3 {
		t.Errorf("expected header and 2 rows, got %d lines:\n%s", got, res.stdout)
	}
}

func TestExecute_Errors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantExit int
		wantCode string
	}{
		{
			name:     "missing input",
			args:     []string{"drive", missing},
			wantExit: utils.ExitInputNotFound,
			wantCode: utils.ErrCodeInputNotFound,
		},
		{
			name:     "missing column",
			stdin:    "id,permissions.0.type\nF1,user\n",
			args:     []string{"drive"},
			wantExit: utils.ExitMissingColumn,
			wantCode: utils.ErrCodeMissingColumn,
		},
		{
			name:     "unterminated quote",
			stdin:    "id,name\n\"F1,x\n",
			args:     []string{"drive"},
			wantExit: utils.ExitMalformedCSV,
			wantCode: utils.ErrCodeMalformedCSV,
		},
		{
			name:     "bad output format",
			args:     []string{"--output", "xml", "drive"},
			wantExit: utils.ExitInvalidArgument,
			wantCode: utils.ErrCodeInvalidArgument,
		},
		{
			name:     "too many arguments",
			args:     []string{"drive", "a", "b", "c"},
			wantExit: utils.ExitInvalidArgument,
			wantCode: utils.ErrCodeInvalidArgument,
		},
		{
			name:     "bad quote char",
			args:     []string{"drive", "--quote-char", ","},
			wantExit: utils.ExitInvalidArgument,
			wantCode: utils.ErrCodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.stdin, append([]string{"--quiet"}, tt.args...)...)
			if res.code != tt.wantExit {
				t.Errorf("exit code %d, want %d\nstderr:\n%s", res.code, tt.wantExit, res.stderr)
			}
			envelope := decodeEnvelope(t, res.stderr)
			if len(envelope.Errors) != 1 || envelope.Errors[0].Code != tt.wantCode {
				t.Errorf("unexpected errors: %+v", envelope.Errors)
			}
		})
	}
}

func TestExecute_Version(t *testing.T) {
	res := runCLI(t, "", "version")
	if res.code != utils.ExitSuccess {
		t.Fatalf("exit code %d", res.code)
	}
	if strings.TrimSpace(res.stdout) != version.Version {
		t.Errorf("version printed %q", res.stdout)
	}
}

func TestCommandName(t *testing.T) {
	if got := commandName(nil); got != "gacl" {
		t.Errorf("commandName(nil) = %q", got)
	}
	if got := commandName(rootCmd); got != "gacl" {
		t.Errorf("commandName(root) = %q", got)
	}
	if got := commandName(configSetCmd); got != "config.set" {
		t.Errorf("commandName(config set) = %q", got)
	}
	if got := commandName(teamDriveCmd); got != "teamdrive" {
		t.Errorf("commandName(teamdrive) = %q", got)
	}
}
