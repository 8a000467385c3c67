package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ccollicutt/conversa/internal/cli"
	"github.com/ccollicutt/conversa/internal/cli/commands"
	"github.com/ccollicutt/conversa/pkg/analyzer"
	"github.com/ccollicutt/conversa/pkg/config"
	"github.com/ccollicutt/conversa/pkg/output"
	"github.com/ccollicutt/conversa/pkg/parser"
)

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// Export and config paths are relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

// run executes the root command in-process and returns stdout, stderr,
// the command error and the exit code Execute would have used.
func run(t *testing.T, args ...string) (string, string, error, int) {
	t.Helper()
	root := cli.NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	code := commands.ExitCode
	if err != nil {
		code = 2
	}
	return stdout.String(), stderr.String(), err, code
}

var (
	groupExport     = filepath.Join("testdata", "exports", "grupo_ptbr.txt")
	bracketedExport = filepath.Join("testdata", "exports", "bracketed_en.txt")
	bannerExport    = filepath.Join("testdata", "exports", "banner_only.txt")
	yamlConfig      = filepath.Join("testdata", "configs", "conversa.yaml")
	tomlConfig      = filepath.Join("testdata", "configs", "conversa.toml")
)

// TestE2E_Pipeline runs parser, analyzer and report without the CLI.
func TestE2E_Pipeline(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	started := time.Now()
	msgs, stats, err := parser.ParseFile(context.Background(), groupExport, parser.WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if stats.BannerLines != 1 {
		t.Errorf("banner lines = %d, want 1", stats.BannerLines)
	}
	if stats.Continuations != 2 {
		t.Errorf("continuations = %d, want 2", stats.Continuations)
	}
	if stats.SystemMessages != 3 {
		t.Errorf("system messages = %d, want 3 (create, add, edited)", stats.SystemMessages)
	}

	result := analyzer.Analyze(msgs, analyzer.WithLocation(time.UTC))
	report := output.NewReport(result, stats, groupExport, started)

	if report.Summary.TotalMessages != 7 {
		t.Errorf("total messages = %d, want 7", report.Summary.TotalMessages)
	}
	if report.Summary.Participants != 3 {
		t.Errorf("participants = %d, want 3", report.Summary.Participants)
	}
	if report.Summary.ActiveDays != 3 {
		t.Errorf("active days = %d, want 3", report.Summary.ActiveDays)
	}
	if got := result.KeywordCounts.Get(analyzer.CategoryLaughter); got != 2 {
		t.Errorf("laughter = %d, want 2", got)
	}
	if result.MostUsedEmoji == nil || *result.MostUsedEmoji != "😂" {
		t.Errorf("most used emoji = %v", result.MostUsedEmoji)
	}

	carla, ok := result.Senders.Get("Carla")
	if !ok || carla.Messages != 1 {
		t.Fatalf("Carla stats = %+v", carla)
	}
	if !strings.Contains(msgs[5].Body, "não gosto de praia") {
		t.Errorf("continuation lines not joined: %q", msgs[5].Body)
	}
}

func TestE2E_Analyze_JSONOutput(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	stdout, _, err, code := run(t, "analyze", "-c", yamlConfig, "-o", "json", groupExport)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, stdout)
	}
	if report.Summary.TotalMessages != 7 || report.Summary.Participants != 3 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.Result.MostActiveHour == nil || *report.Result.MostActiveHour != 9 {
		t.Errorf("most active hour = %v, want 9", report.Result.MostActiveHour)
	}
	// "gente" is an extra stop word in the config.
	if report.Result.WordFrequency.Get("gente") != 0 {
		t.Error("config stop word was counted")
	}
	if report.Metadata.Parse.BannerLines != 1 {
		t.Errorf("parse stats = %+v", report.Metadata.Parse)
	}
}

func TestE2E_Analyze_TextOutput(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	stdout, _, err, _ := run(t, "analyze", "-c", yamlConfig, "-o", "text", groupExport)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	sections := []string{
		"=== Conversa Analysis Report ===",
		"[PARTICIPANTS]",
		"[ACTIVITY]",
		"[CONTENT]",
		"Summary: 7 messages, 3 participants, 3 active days",
	}
	for _, s := range sections {
		if !strings.Contains(stdout, s) {
			t.Errorf("text output missing %q", s)
		}
	}
}

func TestE2E_Analyze_PrettyWithoutTerminal(t *testing.T) {
	chdir(t)
	requireFile(t, bracketedExport)

	stdout, _, err, _ := run(t, "analyze", "-o", "pretty", "--timezone", "UTC", bracketedExport)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if strings.Contains(stdout, "\x1b[") {
		t.Error("pretty output to a buffer should carry no ANSI escapes")
	}
	if !strings.Contains(stdout, "4 messages, 2 participants, 2 active days") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestE2E_Analyze_GlobWithEmptyExport(t *testing.T) {
	chdir(t)
	requireFile(t, bannerExport)

	stdout, _, err, code := run(t, "analyze", "-q", "--timezone", "UTC", filepath.Join("testdata", "exports", "*.txt"))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1 (banner-only export)", code)
	}

	// Matches are sorted: banner_only, bracketed_en, grupo_ptbr.
	var summaries []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(line, "Conversa: ") {
			summaries = append(summaries, line)
		}
	}
	want := []string{
		"Conversa: 0 messages, 0 participants, 0 active days",
		"Conversa: 4 messages, 2 participants, 2 active days",
		"Conversa: 7 messages, 3 participants, 3 active days",
	}
	if strings.Join(summaries, "\n") != strings.Join(want, "\n") {
		t.Errorf("summaries = %q, want %q", summaries, want)
	}
}

func TestE2E_Analyze_MissingExport(t *testing.T) {
	chdir(t)

	_, _, err, code := run(t, "analyze", "testdata/exports/nope.txt")
	if err == nil {
		t.Fatal("expected error for missing export")
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestE2E_Detect_Dashed(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	stdout, _, err, _ := run(t, "detect", "-o", "json", groupExport)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var result commands.JSONOutput
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(result.Matches) == 0 || result.Matches[0].Kind != string(parser.HeadFormatDashed) {
		t.Errorf("matches = %+v", result.Matches)
	}
	if result.DateOrder != string(parser.DateOrderDayMonth) {
		t.Errorf("date order = %q, want DD/MM", result.DateOrder)
	}
	if result.Senders != 3 {
		t.Errorf("senders = %d, want 3", result.Senders)
	}
}

func TestE2E_Detect_BracketedMonthFirst(t *testing.T) {
	chdir(t)
	requireFile(t, bracketedExport)

	stdout, _, err, _ := run(t, "detect", bracketedExport)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(stdout, "Bracketed with seconds") {
		t.Errorf("format not detected:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Date order: MM/DD") || !strings.Contains(stdout, "WARNING") {
		t.Errorf("month-first warning missing:\n%s", stdout)
	}
}

func TestE2E_Detect_WriteConfig(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	configPath := filepath.Join(t.TempDir(), "conversa.yaml")
	if _, _, err, _ := run(t, "detect", "-w", configPath, groupExport); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	stdout, _, err, _ := run(t, "validate", configPath)
	if err != nil {
		t.Fatalf("generated config is invalid: %v\n%s", err, stdout)
	}
}

func TestE2E_Validate(t *testing.T) {
	chdir(t)

	tests := []struct {
		path string
		want []string
	}{
		{yamlConfig, []string{"Timezone:   UTC", "Stop words: 1 extra"}},
		{tomlConfig, []string{"Timezone:   America/Sao_Paulo", "Label:      Participante", "dashboard [always, 5s]"}},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			requireFile(t, tt.path)
			stdout, _, err, _ := run(t, "validate", tt.path)
			if err != nil {
				t.Fatalf("validate failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(stdout, w) {
					t.Errorf("output missing %q:\n%s", w, stdout)
				}
			}
		})
	}
}

func TestE2E_Excerpt_Anonymized(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	stdout, _, err, _ := run(t, "excerpt", "-c", yamlConfig, groupExport)
	if err != nil {
		t.Fatalf("excerpt failed: %v", err)
	}
	for _, name := range []string{"Ana", "Bruno", "Carla"} {
		if strings.Contains(stdout, name) {
			t.Errorf("name %q leaked:\n%s", name, stdout)
		}
	}
	if !strings.HasPrefix(stdout, "Pessoa 1: Bom dia gente!") {
		t.Errorf("unexpected first line:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Pessoa 1: Pessoa 3, sério? kkkk") {
		t.Errorf("mention not replaced:\n%s", stdout)
	}
}

func TestE2E_SaveAndHistory(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	dbPath := filepath.Join(t.TempDir(), "history.db")
	t.Setenv(config.EnvStorePath, dbPath)

	stdout, stderr, err, _ := run(t, "analyze", "--save", "-o", "json", "--timezone", "UTC", groupExport)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(stderr, "analysis saved") {
		t.Errorf("save not logged: %q", stderr)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatal(err)
	}
	id := report.Metadata.ID
	if id == "" {
		t.Fatal("report has no id")
	}

	stdout, _, err, _ = run(t, "history", "list")
	if err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if !strings.Contains(stdout, id) {
		t.Errorf("list missing %s:\n%s", id, stdout)
	}

	stdout, _, err, _ = run(t, "history", "show", id)
	if err != nil {
		t.Fatalf("history show failed: %v", err)
	}
	if !strings.Contains(stdout, "Messages: 7 (3 participants") {
		t.Errorf("show output:\n%s", stdout)
	}

	if _, _, err, _ := run(t, "history", "rm", id); err != nil {
		t.Fatalf("history delete failed: %v", err)
	}
	if _, _, err, code := run(t, "history", "show", id); err == nil || code != 2 {
		t.Errorf("show after delete: err=%v code=%d", err, code)
	}
}

func TestE2E_Webhook_ConfigFile(t *testing.T) {
	chdir(t)
	requireFile(t, groupExport)

	var received atomic.Int32
	var payload []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		payload, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "webhooks.yaml")
	cfg := "timezone: UTC\nwebhooks:\n" +
		"  - name: on-content\n    url: " + server.URL + "\n" +
		"  - name: disabled\n    url: " + server.URL + "\n    trigger: never\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err, _ := run(t, "analyze", "-q", "-c", configPath, groupExport, bannerExport); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if received.Load() != 1 {
		t.Errorf("webhook received %d requests, want 1", received.Load())
	}

	var doc struct {
		Event  string        `json:"event"`
		Report output.Report `json:"report"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if doc.Event != "conversa.analysis" || doc.Report.Summary.TotalMessages != 7 {
		t.Errorf("payload = %s", payload)
	}
}

func TestE2E_Webhook_CLIAlways(t *testing.T) {
	chdir(t)
	requireFile(t, bannerExport)

	var received atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	_, _, err, code := run(t, "analyze", "-q", "--webhook-url", server.URL, "--webhook-trigger", "always", bannerExport)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if received.Load() != 1 {
		t.Errorf("always trigger should fire on empty report, got %d requests", received.Load())
	}
}
