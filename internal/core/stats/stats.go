// Package stats aggregates the outcome of a single bot run into a
// JSON-serializable report.
package stats

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies what happened to one issue.
type Outcome string

const (
	OutcomeSkipped     Outcome = "skipped"
	OutcomeMarkedStale Outcome = "marked_stale"
	OutcomeUnstaled    Outcome = "unstaled"
	OutcomeClosed      Outcome = "closed"
	OutcomeReminded    Outcome = "reminded"
	OutcomeNoAction    Outcome = "no_action"
)

// Detail records the outcome for a single issue.
type Detail struct {
	Number      int     `json:"number"`
	PullRequest bool    `json:"pull_request,omitempty"`
	Outcome     Outcome `json:"outcome"`
	Reason      string  `json:"reason,omitempty"`
	Operations  int     `json:"operations,omitempty"`
}

// RunReport holds the summary of one run.
type RunReport struct {
	RunID      string    `json:"run_id"`
	Repository string    `json:"repository"`
	StartedAt  time.Time `json:"started_at"`

	Processed       int `json:"processed"`
	MarkedStale     int `json:"marked_stale"`
	Unstaled        int `json:"unstaled"`
	Closed          int `json:"closed"`
	RemindersSent   int `json:"reminders_sent"`
	Skipped         int `json:"skipped"`
	DeletedBranches int `json:"deleted_branches"`

	OperationsConsumed  int `json:"operations_consumed"`
	OperationsRemaining int `json:"operations_remaining"`

	Errors  []string `json:"errors,omitempty"`
	Details []Detail `json:"details,omitempty"`
}

// NewRunReport creates a report for one run against the given repository.
func NewRunReport(repository string) *RunReport {
	return &RunReport{
		RunID:      uuid.New().String(),
		Repository: repository,
		StartedAt:  time.Now().UTC(),
	}
}

// Record adds a per-issue detail and bumps the matching counter.
func (r *RunReport) Record(d Detail) {
	r.Processed++
	r.Details = append(r.Details, d)

	switch d.Outcome {
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeMarkedStale:
		r.MarkedStale++
	case OutcomeUnstaled:
		r.Unstaled++
	case OutcomeClosed:
		r.Closed++
	case OutcomeReminded:
		r.RemindersSent++
	}
}

// AddError records a run-level failure that did not abort processing.
func (r *RunReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// JSON renders the report as indented JSON.
func (r *RunReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
