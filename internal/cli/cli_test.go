package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const testNow = "2026-03-04 14:30"

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// resetFlags puts every flag in the tree back to its default so state from
// one Execute never leaks into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runCLIWithConfig executes the command tree against buffers with a fixed
// reference clock.
func runCLIWithConfig(t *testing.T, configFile, stdin string, args ...string) cliResult {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", configFile, "--now", testNow}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	return runCLIWithConfig(t, writeTestConfig(t, "timezone = \"UTC\"\n"), "", args...)
}

func decodeResponse(t *testing.T, raw string) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", raw, err)
	}
	return resp
}

func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %#v, want object", resp.Data)
	}
	return data
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"minutes", []string{"resolve", "45"}, "2026-03-04 13:45"},
		{"zero", []string{"resolve", "0"}, "2026-03-04 14:30"},
		{"interval", []string{"resolve", "1d2h30m"}, "2026-03-03 12:00"},
		{"interval split across args", []string{"resolve", "2h", "15m", "ago"}, "2026-03-04 12:15"},
		{"relative day", []string{"resolve", "yesterday"}, "2026-03-03 00:00"},
		{"relative day end", []string{"resolve", "yesterday", "--guess", "end"}, "2026-03-03 23:59"},
		{"unix", []string{"resolve", "30", "--format", "unix"}, "1772632800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			if res.err != nil {
				t.Fatalf("unexpected error: %v (stderr %q)", res.err, res.stderr)
			}
			if got := strings.TrimSpace(res.stdout); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveCommandJSON(t *testing.T) {
	res := runCLI(t, "--json", "resolve", "1h")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	resp := decodeResponse(t, res.stdout)
	if !resp.OK {
		t.Fatalf("ok = false, error = %+v", resp.Error)
	}
	data := dataMap(t, resp)
	if data["timestamp"] != "2026-03-04 13:30" {
		t.Errorf("timestamp = %v", data["timestamp"])
	}
	if data["grammar"] != "interval" {
		t.Errorf("grammar = %v, want interval", data["grammar"])
	}
	if data["time"] != "2026-03-04T13:30:00Z" {
		t.Errorf("time = %v", data["time"])
	}
}

func TestResolveCommandErrors(t *testing.T) {
	t.Run("unknown phrase in JSON mode", func(t *testing.T) {
		res := runCLI(t, "--json", "resolve", "xyzzy", "flurb")
		if res.err == nil {
			t.Fatal("expected a non-nil error for exit status")
		}
		if res.stderr != "" {
			t.Errorf("stderr = %q, want nothing after a JSON error", res.stderr)
		}
		resp := decodeResponse(t, res.stdout)
		if resp.OK || resp.Error == nil {
			t.Fatalf("response = %+v, want an error", resp)
		}
		if resp.Error.Code != ErrInvalidTimeExpression {
			t.Errorf("code = %q, want %q", resp.Error.Code, ErrInvalidTimeExpression)
		}
	})

	t.Run("unknown phrase in text mode", func(t *testing.T) {
		res := runCLI(t, "resolve", "xyzzy", "flurb")
		if res.err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(res.stderr, `could not understand "xyzzy flurb"`) {
			t.Errorf("stderr = %q", res.stderr)
		}
	})

	t.Run("bad guess", func(t *testing.T) {
		res := runCLI(t, "--json", "resolve", "45", "--guess", "middle")
		resp := decodeResponse(t, res.stdout)
		if resp.Error == nil || resp.Error.Code != ErrInvalidArgument {
			t.Fatalf("response = %+v, want INVALID_ARGUMENT", resp)
		}
	})

	t.Run("bad --now", func(t *testing.T) {
		res := runCLI(t, "--json", "--now", "last tuesday", "resolve", "45")
		resp := decodeResponse(t, res.stdout)
		if resp.Error == nil || resp.Error.Code != ErrInvalidArgument {
			t.Fatalf("response = %+v, want INVALID_ARGUMENT", resp)
		}
	})
}

func TestRangeCommand(t *testing.T) {
	t.Run("whole day without connector", func(t *testing.T) {
		res := runCLI(t, "range", "yesterday")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		want := "2026-03-03 00:00 → 2026-03-03 23:59 (23h59m)"
		if got := strings.TrimSpace(res.stdout); got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})

	t.Run("connector", func(t *testing.T) {
		res := runCLI(t, "--json", "range", "yesterday", "to", "today")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		resp := decodeResponse(t, res.stdout)
		data := dataMap(t, resp)
		if data["open_ended"] != false {
			t.Errorf("open_ended = %v", data["open_ended"])
		}
		finish, ok := data["finish"].(map[string]interface{})
		if !ok || finish["timestamp"] != "2026-03-04 23:59" {
			t.Errorf("finish = %#v", data["finish"])
		}
		if data["duration"] != "1d23h59m" {
			t.Errorf("duration = %v", data["duration"])
		}
		if data["seconds"] != float64(2*86400-1) {
			t.Errorf("seconds = %v", data["seconds"])
		}
	})

	t.Run("unresolvable finish is open", func(t *testing.T) {
		res := runCLI(t, "--json", "range", "30", "to", "xyzzy", "flurb")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		resp := decodeResponse(t, res.stdout)
		data := dataMap(t, resp)
		if data["open_ended"] != true || data["finish"] != nil {
			t.Errorf("data = %#v, want open range", data)
		}
		if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnOpenRange {
			t.Errorf("warnings = %+v", resp.Warnings)
		}
	})

	t.Run("unresolvable start", func(t *testing.T) {
		res := runCLI(t, "--json", "range", "xyzzy", "flurb", "to", "30")
		resp := decodeResponse(t, res.stdout)
		if resp.Error == nil || resp.Error.Code != ErrInvalidTimeExpression {
			t.Fatalf("response = %+v, want INVALID_TIME_EXPRESSION", resp)
		}
	})
}

func TestDurationCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bare minutes", []string{"duration", "90"}, "1h30m"},
		{"fractional hours", []string{"duration", "1.5h"}, "1h30m"},
		{"compound natural", []string{"duration", "1d", "2h", "30m", "--style", "natural"}, "1 day, 2 hours, 30 minutes"},
		{"hours minutes as m", []string{"duration", "2:15", "--style", "m"}, "135"},
		{"no quantity", []string{"duration", "soon"}, "0m"},
		{"clock seconds", []string{"clock", "1:30:00"}, "5400"},
		{"clock styled", []string{"clock", "26:30:00", "--style", "hm"}, "26:30"},
		{"format", []string{"format", "95400"}, "1d2h30m"},
		{"format clock", []string{"format", "95400", "--style", "clock"}, "26:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			if res.err != nil {
				t.Fatalf("unexpected error: %v (stderr %q)", res.err, res.stderr)
			}
			if got := strings.TrimSpace(res.stdout); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDurationStyleFromConfig(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"UTC\"\nduration_style = \"natural\"\n")
	res := runCLIWithConfig(t, cfgPath, "", "duration", "61")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if got := strings.TrimSpace(res.stdout); got != "1 hour, 1 minute" {
		t.Errorf("stdout = %q", got)
	}
}

func TestDurationCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"negative seconds", []string{"format", "--", "-5"}, ErrInvalidArgument},
		{"seconds out of range", []string{"format", "99999999999"}, ErrInvalidArgument},
		{"unknown shorthand flag", []string{"format", "-5"}, ErrInvalidArgument},
		{"unknown flag", []string{"duration", "5", "--colour"}, ErrInvalidArgument},
		{"non-numeric seconds", []string{"format", "lots"}, ErrInvalidArgument},
		{"malformed clock", []string{"clock", "1:75:00"}, ErrMalformedDuration},
		{"unknown style", []string{"duration", "5", "--style", "fancy"}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, append([]string{"--json"}, tt.args...)...)
			if res.err == nil {
				t.Fatal("expected error")
			}
			resp := decodeResponse(t, res.stdout)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("response = %+v, want code %s", resp, tt.code)
			}
		})
	}
}

func TestRewriteCommandStdin(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"UTC\"\n")
	res := runCLIWithConfig(t, cfgPath, "@start(30) fix the build\n", "rewrite")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if want := "@start(2026-03-04 14:00) fix the build\n"; res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestRewriteCommandNaturalLanguage(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"UTC\"\n")
	res := runCLIWithConfig(t, cfgPath, "@done(2023-01-01 10:00) @start(2 hours ago)\n", "rewrite")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if want := "@done(2023-01-01 10:00) @start(2026-03-04 12:30)\n"; res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestRewriteCommandKeepsCanonicalValueInDSTGap(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"America/New_York\"\n")
	res := runCLIWithConfig(t, cfgPath, "@done(2024-03-10 02:30)\n", "rewrite")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if want := "@done(2024-03-10 02:30)\n"; res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestFlagErrorsInTextMode(t *testing.T) {
	res := runCLI(t, "format", "-5")
	if res.err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(res.err.Error(), "chronify format --help") {
		t.Errorf("error = %q, want a usage hint", res.err)
	}
}

func TestRewriteCommandExtraTags(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"UTC\"\ndate_tags = [\"due\"]\n")
	input := "@due(1h) @remind(2h) @other(3h)\n"

	res := runCLIWithConfig(t, cfgPath, input, "rewrite", "--tags", "remind")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	want := "@due(2026-03-04 13:30) @remind(2026-03-04 12:30) @other(3h)\n"
	if res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestRewriteCommandJSONWarnings(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"UTC\"\n")
	res := runCLIWithConfig(t, cfgPath, "@done(45) @waiting(xyzzy flurb)", "--json", "rewrite")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}

	resp := decodeResponse(t, res.stdout)
	data := dataMap(t, resp)
	if data["content"] != "@done(2026-03-04 13:45) @waiting(xyzzy flurb)" {
		t.Errorf("content = %v", data["content"])
	}
	if data["rewritten"] != float64(1) {
		t.Errorf("rewritten = %v", data["rewritten"])
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnUnresolvedTag {
		t.Fatalf("warnings = %+v", resp.Warnings)
	}
	if !strings.Contains(resp.Warnings[0].Message, "@waiting(xyzzy flurb)") {
		t.Errorf("warning message = %q", resp.Warnings[0].Message)
	}
}

func TestRewriteCommandInPlace(t *testing.T) {
	cfgPath := writeTestConfig(t, "timezone = \"UTC\"\n")
	notes := filepath.Join(t.TempDir(), "notes.md")
	content := "- @done(45) ship it\n- `log @start(30)` stays\n"
	if err := os.WriteFile(notes, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	res := runCLIWithConfig(t, cfgPath, "", "rewrite", notes, "--in-place")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Rewrote 1 tag") {
		t.Errorf("stdout = %q", res.stdout)
	}

	got, err := os.ReadFile(notes)
	if err != nil {
		t.Fatal(err)
	}
	want := "- @done(2026-03-04 13:45) ship it\n- `log @start(30)` stays\n"
	if string(got) != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	info, err := os.Stat(notes)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestRewriteCommandInPlaceNeedsFile(t *testing.T) {
	res := runCLI(t, "--json", "rewrite", "--in-place")
	resp := decodeResponse(t, res.stdout)
	if resp.Error == nil || resp.Error.Code != ErrMissingArgument {
		t.Fatalf("response = %+v, want MISSING_ARGUMENT", resp)
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	res := runCLIWithConfig(t, cfgPath, "", "config", "path")
	if res.err != nil {
		t.Fatalf("config path: %v", res.err)
	}
	if strings.TrimSpace(res.stdout) != cfgPath {
		t.Errorf("config path = %q, want %q", res.stdout, cfgPath)
	}

	res = runCLIWithConfig(t, cfgPath, "", "config", "show")
	if !strings.Contains(res.stdout, "does not exist") {
		t.Errorf("show before init = %q", res.stdout)
	}

	res = runCLIWithConfig(t, cfgPath, "", "--json", "config", "init")
	if res.err != nil {
		t.Fatalf("config init: %v", res.err)
	}
	if data := dataMap(t, decodeResponse(t, res.stdout)); data["created"] != true {
		t.Errorf("created = %v", data["created"])
	}

	res = runCLIWithConfig(t, cfgPath, "", "config", "set", "duration_style", "natural")
	if res.err != nil {
		t.Fatalf("config set: %v", res.err)
	}
	res = runCLIWithConfig(t, cfgPath, "", "config", "set", "date_tags", "due, remind")
	if res.err != nil {
		t.Fatalf("config set: %v", res.err)
	}

	res = runCLIWithConfig(t, cfgPath, "", "--json", "config", "show")
	if res.err != nil {
		t.Fatalf("config show: %v", res.err)
	}
	data := dataMap(t, decodeResponse(t, res.stdout))
	if data["exists"] != true {
		t.Errorf("exists = %v", data["exists"])
	}
	if data["duration_style"] != "natural" {
		t.Errorf("duration_style = %v", data["duration_style"])
	}
	tagsList, ok := data["date_tags"].([]interface{})
	if !ok || len(tagsList) != 2 || tagsList[0] != "due" || tagsList[1] != "remind" {
		t.Errorf("date_tags = %#v", data["date_tags"])
	}
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	tests := [][]string{
		{"config", "set", "ambiguous_hours", "13"},
		{"config", "set", "duration_style", "fancy"},
		{"config", "set", "no_such_key", "x"},
	}
	for _, args := range tests {
		res := runCLIWithConfig(t, cfgPath, "", append([]string{"--json"}, args...)...)
		resp := decodeResponse(t, res.stdout)
		if resp.Error == nil || resp.Error.Code != ErrInvalidArgument {
			t.Errorf("%v: response = %+v, want INVALID_ARGUMENT", args, resp)
		}
	}
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		t.Errorf("config file should not be written for rejected values, stat err = %v", err)
	}
}

func TestBrokenConfigIsReported(t *testing.T) {
	cfgPath := writeTestConfig(t, "ambiguous_hours = \"lots\"\n")

	res := runCLIWithConfig(t, cfgPath, "", "--json", "resolve", "45")
	resp := decodeResponse(t, res.stdout)
	if resp.Error == nil || resp.Error.Code != ErrConfigInvalid {
		t.Fatalf("response = %+v, want CONFIG_INVALID", resp)
	}

	// config path still works so the file can be found and fixed.
	res = runCLIWithConfig(t, cfgPath, "", "config", "path")
	if res.err != nil {
		t.Fatalf("config path: %v", res.err)
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "version")
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "chronify ") {
		t.Errorf("stdout = %q", res.stdout)
	}

	res = runCLI(t, "--json", "version")
	data := dataMap(t, decodeResponse(t, res.stdout))
	if data["go_version"] == "" || data["module_path"] == "" {
		t.Errorf("data = %#v", data)
	}
}
