package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shepherd.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "stale_issue_message: gone quiet\n")

	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if opts.StaleIssueMessage != "gone quiet" {
		t.Errorf("StaleIssueMessage = %q", opts.StaleIssueMessage)
	}
	if opts.DaysBeforeStale != 60 {
		t.Errorf("DaysBeforeStale = %d, want default 60", opts.DaysBeforeStale)
	}
	if opts.DaysBeforeClose != 7 {
		t.Errorf("DaysBeforeClose = %d, want default 7", opts.DaysBeforeClose)
	}
	if opts.StaleIssueLabel != "stale" || opts.StalePRLabel != "stale" {
		t.Errorf("stale labels = %q/%q, want stale", opts.StaleIssueLabel, opts.StalePRLabel)
	}
	if opts.OperationsPerRun != 30 {
		t.Errorf("OperationsPerRun = %d, want default 30", opts.OperationsPerRun)
	}
	if opts.BotLogin != "shepherd-bot" {
		t.Errorf("BotLogin = %q", opts.BotLogin)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_STALE_MESSAGE", "no activity for a while")

	path := writeConfig(t, "stale_issue_message: ${TEST_STALE_MESSAGE}\n")

	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.StaleIssueMessage != "no activity for a while" {
		t.Errorf("StaleIssueMessage = %q, want env-expanded value", opts.StaleIssueMessage)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := writeConfig(t, `
days_before_stale: 30
days_before_pr_stale: 14
remove_stale_when_updated: false
exempt_labels: "security, pinned"
maintainer_nudge: true
`)

	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if opts.StaleDaysFor(false) != 30 {
		t.Errorf("issue stale days = %d, want global 30", opts.StaleDaysFor(false))
	}
	if opts.StaleDaysFor(true) != 14 {
		t.Errorf("PR stale days = %d, want override 14", opts.StaleDaysFor(true))
	}
	if opts.RemoveStaleWhenUpdatedFor(false) {
		t.Error("remove_stale_when_updated: false should resolve false")
	}
	if got := opts.ExemptLabelsFor(false); len(got) != 2 || got[0] != "security" || got[1] != "pinned" {
		t.Errorf("exempt labels = %v", got)
	}
	if !opts.MaintainerNudge {
		t.Error("maintainer_nudge should be set")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "stale_issue_message: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHEPHERD_DEBUG_ONLY", "true")
	t.Setenv("SHEPHERD_MAINTAINER_NUDGE", "yes")

	opts := Default()

	if !opts.DebugOnly {
		t.Error("SHEPHERD_DEBUG_ONLY=true should enable debug-only")
	}
	if !opts.MaintainerNudge {
		t.Error("SHEPHERD_MAINTAINER_NUDGE=yes should enable nudge mode")
	}
}

func TestRemoveStaleWhenUpdatedPrecedence(t *testing.T) {
	f, tr := false, true

	tests := []struct {
		name string
		opts Options
		isPR bool
		want bool
	}{
		{"defaults to true", Options{}, false, true},
		{"global false", Options{RemoveStaleWhenUpdated: &f}, false, false},
		{"issue overrides global", Options{RemoveStaleWhenUpdated: &f, RemoveIssueStaleWhenUpdated: &tr}, false, true},
		{"PR override ignored for issues", Options{RemovePRStaleWhenUpdated: &f}, false, true},
		{"PR override applies to PRs", Options{RemovePRStaleWhenUpdated: &f}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.RemoveStaleWhenUpdatedFor(tt.isPR); got != tt.want {
				t.Errorf("RemoveStaleWhenUpdatedFor(%v) = %v, want %v", tt.isPR, got, tt.want)
			}
		})
	}
}

func TestLabelListPrecedence(t *testing.T) {
	opts := Options{
		ExemptLabels:   "pinned",
		ExemptPRLabels: "work-in-progress",
	}

	if got := opts.ExemptLabelsFor(false); len(got) != 1 || got[0] != "pinned" {
		t.Errorf("issue exempt labels = %v, want the global list", got)
	}
	if got := opts.ExemptLabelsFor(true); len(got) != 1 || got[0] != "work-in-progress" {
		t.Errorf("PR exempt labels = %v, want the PR list", got)
	}
}

func TestValidateStartDate(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"", true},
		{"2025-01-15", true},
		{"2025-01-15T00:00:00Z", true},
		{"15/01/2025", false},
		{"not-a-date", false},
	}

	for _, tt := range tests {
		opts := Options{StartDate: tt.value}
		err := opts.Validate()
		if tt.ok && err != nil {
			t.Errorf("Validate(%q) = %v, want nil", tt.value, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("Validate(%q) = nil, want error", tt.value)
		}
	}
}

func TestParsedStartDate(t *testing.T) {
	opts := Options{StartDate: "2025-06-01"}
	got, ok := opts.ParsedStartDate()
	if !ok {
		t.Fatal("expected a parsed start date")
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParsedStartDate() = %v, want %v", got, want)
	}

	if _, ok := (&Options{}).ParsedStartDate(); ok {
		t.Error("no start date configured")
	}
}

func TestFindConfigPathExplicit(t *testing.T) {
	path := writeConfig(t, "debug_only: true\n")

	if got := FindConfigPath(path); got != path {
		t.Errorf("FindConfigPath(%q) = %q", path, got)
	}
	if got := FindConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
		t.Errorf("missing explicit path should report empty, got %q", got)
	}
}
