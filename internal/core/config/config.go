// Package config handles loading and resolving Shepherd Bot options.
//
// Options form a closed set, read-only for the duration of a run. The
// PR- and issue-specific overrides use pointer fields where nil means
// "unset, fall back to the global value"; the resolver methods below are
// the only place that precedence lives.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shepherdbot/shepherd-bot/internal/utils/labels"
)

// Options is the root configuration structure.
type Options struct {
	// Messages posted when marking stale or closing. An empty stale
	// message suppresses the comment but the label is still applied.
	StaleIssueMessage string `yaml:"stale_issue_message"`
	StalePRMessage    string `yaml:"stale_pr_message"`
	CloseIssueMessage string `yaml:"close_issue_message"`
	ClosePRMessage    string `yaml:"close_pr_message"`

	// Days of inactivity before an item is marked stale. Negative means
	// never mark stale. The issue/PR overrides win when set.
	DaysBeforeStale      int  `yaml:"days_before_stale"`
	DaysBeforeIssueStale *int `yaml:"days_before_issue_stale"`
	DaysBeforePRStale    *int `yaml:"days_before_pr_stale"`

	// Days a stale item waits before closing. Negative disables closing.
	DaysBeforeClose      int  `yaml:"days_before_close"`
	DaysBeforeIssueClose *int `yaml:"days_before_issue_close"`
	DaysBeforePRClose    *int `yaml:"days_before_pr_close"`

	StaleIssueLabel string `yaml:"stale_issue_label"`
	StalePRLabel    string `yaml:"stale_pr_label"`
	CloseIssueLabel string `yaml:"close_issue_label"`
	ClosePRLabel    string `yaml:"close_pr_label"`

	// Label filters, comma/space separated. Empty override strings fall
	// back to the global list.
	ExemptLabels      string `yaml:"exempt_labels"`
	ExemptIssueLabels string `yaml:"exempt_issue_labels"`
	ExemptPRLabels    string `yaml:"exempt_pr_labels"`
	OnlyLabels        string `yaml:"only_labels"`
	OnlyIssueLabels   string `yaml:"only_issue_labels"`
	OnlyPRLabels      string `yaml:"only_pr_labels"`
	AnyOfLabels       string `yaml:"any_of_labels"`
	AnyOfIssueLabels  string `yaml:"any_of_issue_labels"`
	AnyOfPRLabels     string `yaml:"any_of_pr_labels"`

	OperationsPerRun int `yaml:"operations_per_run"`

	RemoveStaleWhenUpdated      *bool `yaml:"remove_stale_when_updated"`
	RemoveIssueStaleWhenUpdated *bool `yaml:"remove_issue_stale_when_updated"`
	RemovePRStaleWhenUpdated    *bool `yaml:"remove_pr_stale_when_updated"`

	DebugOnly    bool   `yaml:"debug_only"`
	Ascending    bool   `yaml:"ascending"`
	DeleteBranch bool   `yaml:"delete_branch"`
	StartDate    string `yaml:"start_date"`

	ExemptMilestones         string `yaml:"exempt_milestones"`
	ExemptIssueMilestones    string `yaml:"exempt_issue_milestones"`
	ExemptPRMilestones       string `yaml:"exempt_pr_milestones"`
	ExemptAllMilestones      bool   `yaml:"exempt_all_milestones"`
	ExemptAllIssueMilestones *bool  `yaml:"exempt_all_issue_milestones"`
	ExemptAllPRMilestones    *bool  `yaml:"exempt_all_pr_milestones"`

	ExemptAssignees         string `yaml:"exempt_assignees"`
	ExemptIssueAssignees    string `yaml:"exempt_issue_assignees"`
	ExemptPRAssignees       string `yaml:"exempt_pr_assignees"`
	ExemptAllAssignees      bool   `yaml:"exempt_all_assignees"`
	ExemptAllIssueAssignees *bool  `yaml:"exempt_all_issue_assignees"`
	ExemptAllPRAssignees    *bool  `yaml:"exempt_all_pr_assignees"`

	LabelsToAddWhenUnstale    string `yaml:"labels_to_add_when_unstale"`
	LabelsToRemoveWhenUnstale string `yaml:"labels_to_remove_when_unstale"`

	// IgnoreUpdates anchors staleness to created_at instead of
	// updated_at, so activity does not reset the clock.
	IgnoreUpdates      bool  `yaml:"ignore_updates"`
	IgnoreIssueUpdates *bool `yaml:"ignore_issue_updates"`
	IgnorePRUpdates    *bool `yaml:"ignore_pr_updates"`

	ExemptDraftPR bool `yaml:"exempt_draft_pr"`

	// Maintainer-nudge mode replaces pure staleness closing with
	// reminder messaging for non-milestoned issues.
	MaintainerNudge          bool   `yaml:"maintainer_nudge"`
	DaysBeforeTriageReminder int    `yaml:"days_before_triage_reminder"`
	DaysBeforeReplyReminder  int    `yaml:"days_before_reply_reminder"`
	EscalationMaintainers    string `yaml:"escalation_maintainers"`
	HasClosingPRLabel        string `yaml:"has_closing_pr_label"`
	BotLogin                 string `yaml:"bot_login"`
}

// startDateLayouts are the accepted formats for the start_date option.
var startDateLayouts = []string{"2006-01-02", time.RFC3339}

// Load reads an options file from the given path, expanding environment
// variables in the YAML content before parsing.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var opts Options
	if err := yaml.Unmarshal([]byte(expanded), &opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	opts.applyDefaults()
	opts.applyEnvOverrides()

	return &opts, nil
}

// Default returns an options struct with only defaults applied.
func Default() *Options {
	opts := &Options{}
	opts.applyDefaults()
	opts.applyEnvOverrides()
	return opts
}

// FindConfigPath searches for a config file in standard locations.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	candidates := []string{
		".github/shepherd.yaml",
		".github/shepherd.yml",
		".shepherd.yaml",
		".shepherd.yml",
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			abs, _ := filepath.Abs(c)
			return abs
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields.
func (o *Options) applyDefaults() {
	if o.DaysBeforeStale == 0 {
		o.DaysBeforeStale = 60
	}
	if o.DaysBeforeClose == 0 {
		o.DaysBeforeClose = 7
	}
	if o.StaleIssueLabel == "" {
		o.StaleIssueLabel = "stale"
	}
	if o.StalePRLabel == "" {
		o.StalePRLabel = "stale"
	}
	if o.OperationsPerRun == 0 {
		o.OperationsPerRun = 30
	}
	if o.DaysBeforeTriageReminder == 0 {
		o.DaysBeforeTriageReminder = 3
	}
	if o.DaysBeforeReplyReminder == 0 {
		o.DaysBeforeReplyReminder = 7
	}
	if o.HasClosingPRLabel == "" {
		o.HasClosingPRLabel = "has-closing-pr"
	}
	if o.BotLogin == "" {
		o.BotLogin = "shepherd-bot"
	}
}

// applyEnvOverrides applies the workflow-level environment toggles.
func (o *Options) applyEnvOverrides() {
	if v, ok := labels.ParseBool(os.Getenv("SHEPHERD_DEBUG_ONLY")); ok {
		o.DebugOnly = v
	}
	if v, ok := labels.ParseBool(os.Getenv("SHEPHERD_MAINTAINER_NUDGE")); ok {
		o.MaintainerNudge = v
	}
}

// Validate checks the option values that can fail at startup.
func (o *Options) Validate() error {
	if o.StartDate != "" {
		if _, err := parseStartDate(o.StartDate); err != nil {
			return err
		}
	}
	return nil
}

func parseStartDate(value string) (time.Time, error) {
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start_date %q (expected YYYY-MM-DD or RFC3339)", value)
}

// ParsedStartDate returns the configured start date, if any. An invalid
// value reports false; Validate surfaces the error at startup.
func (o *Options) ParsedStartDate() (time.Time, bool) {
	if o.StartDate == "" {
		return time.Time{}, false
	}
	t, err := parseStartDate(o.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StaleDaysFor resolves days-before-stale: PR override, then issue
// override, then the global value.
func (o *Options) StaleDaysFor(isPR bool) int {
	if isPR && o.DaysBeforePRStale != nil {
		return *o.DaysBeforePRStale
	}
	if !isPR && o.DaysBeforeIssueStale != nil {
		return *o.DaysBeforeIssueStale
	}
	return o.DaysBeforeStale
}

// CloseDaysFor resolves days-before-close.
func (o *Options) CloseDaysFor(isPR bool) int {
	if isPR && o.DaysBeforePRClose != nil {
		return *o.DaysBeforePRClose
	}
	if !isPR && o.DaysBeforeIssueClose != nil {
		return *o.DaysBeforeIssueClose
	}
	return o.DaysBeforeClose
}

// StaleLabelFor resolves the stale label name.
func (o *Options) StaleLabelFor(isPR bool) string {
	if isPR {
		return o.StalePRLabel
	}
	return o.StaleIssueLabel
}

// CloseLabelFor resolves the close label name. Empty means no close
// label is applied.
func (o *Options) CloseLabelFor(isPR bool) string {
	if isPR {
		return o.ClosePRLabel
	}
	return o.CloseIssueLabel
}

// StaleMessageFor resolves the stale comment body.
func (o *Options) StaleMessageFor(isPR bool) string {
	if isPR {
		return o.StalePRMessage
	}
	return o.StaleIssueMessage
}

// CloseMessageFor resolves the close comment body.
func (o *Options) CloseMessageFor(isPR bool) string {
	if isPR {
		return o.ClosePRMessage
	}
	return o.CloseIssueMessage
}

func resolveLabelList(isPR bool, global, issue, pr string) []string {
	if isPR && pr != "" {
		return labels.WordsToList(pr)
	}
	if !isPR && issue != "" {
		return labels.WordsToList(issue)
	}
	return labels.WordsToList(global)
}

// OnlyLabelsFor resolves the only-labels filter.
func (o *Options) OnlyLabelsFor(isPR bool) []string {
	return resolveLabelList(isPR, o.OnlyLabels, o.OnlyIssueLabels, o.OnlyPRLabels)
}

// AnyOfLabelsFor resolves the any-of-labels filter.
func (o *Options) AnyOfLabelsFor(isPR bool) []string {
	return resolveLabelList(isPR, o.AnyOfLabels, o.AnyOfIssueLabels, o.AnyOfPRLabels)
}

// ExemptLabelsFor resolves the exempt-labels filter.
func (o *Options) ExemptLabelsFor(isPR bool) []string {
	return resolveLabelList(isPR, o.ExemptLabels, o.ExemptIssueLabels, o.ExemptPRLabels)
}

// ExemptMilestonesFor resolves the exempt milestone titles.
func (o *Options) ExemptMilestonesFor(isPR bool) []string {
	return resolveLabelList(isPR, o.ExemptMilestones, o.ExemptIssueMilestones, o.ExemptPRMilestones)
}

// ExemptAssigneesFor resolves the exempt assignee logins.
func (o *Options) ExemptAssigneesFor(isPR bool) []string {
	return resolveLabelList(isPR, o.ExemptAssignees, o.ExemptIssueAssignees, o.ExemptPRAssignees)
}

// ExemptAllMilestonesFor resolves whether any milestone exempts.
func (o *Options) ExemptAllMilestonesFor(isPR bool) bool {
	if isPR && o.ExemptAllPRMilestones != nil {
		return *o.ExemptAllPRMilestones
	}
	if !isPR && o.ExemptAllIssueMilestones != nil {
		return *o.ExemptAllIssueMilestones
	}
	return o.ExemptAllMilestones
}

// ExemptAllAssigneesFor resolves whether any assignee exempts.
func (o *Options) ExemptAllAssigneesFor(isPR bool) bool {
	if isPR && o.ExemptAllPRAssignees != nil {
		return *o.ExemptAllPRAssignees
	}
	if !isPR && o.ExemptAllIssueAssignees != nil {
		return *o.ExemptAllIssueAssignees
	}
	return o.ExemptAllAssignees
}

// RemoveStaleWhenUpdatedFor resolves the unstale-on-activity toggle.
// Defaults to true when nothing is set.
func (o *Options) RemoveStaleWhenUpdatedFor(isPR bool) bool {
	if isPR && o.RemovePRStaleWhenUpdated != nil {
		return *o.RemovePRStaleWhenUpdated
	}
	if !isPR && o.RemoveIssueStaleWhenUpdated != nil {
		return *o.RemoveIssueStaleWhenUpdated
	}
	if o.RemoveStaleWhenUpdated != nil {
		return *o.RemoveStaleWhenUpdated
	}
	return true
}

// IgnoreUpdatesFor resolves the ignore-updates toggle.
func (o *Options) IgnoreUpdatesFor(isPR bool) bool {
	if isPR && o.IgnorePRUpdates != nil {
		return *o.IgnorePRUpdates
	}
	if !isPR && o.IgnoreIssueUpdates != nil {
		return *o.IgnoreIssueUpdates
	}
	return o.IgnoreUpdates
}

// LabelsToAddWhenUnstaleList returns the labels applied when an item
// stops being stale.
func (o *Options) LabelsToAddWhenUnstaleList() []string {
	return labels.WordsToList(o.LabelsToAddWhenUnstale)
}

// LabelsToRemoveWhenUnstaleList returns the labels removed when an item
// stops being stale.
func (o *Options) LabelsToRemoveWhenUnstaleList() []string {
	return labels.WordsToList(o.LabelsToRemoveWhenUnstale)
}

// EscalationList returns the configured escalation maintainer logins.
func (o *Options) EscalationList() []string {
	return labels.WordsToList(o.EscalationMaintainers)
}
