// Package engine implements the per-issue decision logic and the batch
// driver that walks every open issue of a repository within an
// operation budget.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shepherdbot/shepherd-bot/internal/core/config"
	"github.com/shepherdbot/shepherd-bot/internal/core/stats"
	"github.com/shepherdbot/shepherd-bot/internal/utils/dates"
)

// Engine runs the eligibility gates, staleness transitions and the
// maintainer-nudge policy for every open issue of one repository.
type Engine struct {
	platform Platform
	opts     *config.Options
	budget   *OperationBudget
	report   *stats.RunReport

	// maintainers is populated once before any issue processing begins
	// and read-only thereafter.
	maintainers []string

	dryRun bool
	now    func() time.Time
}

// New creates an engine for one run.
func New(platform Platform, opts *config.Options, report *stats.RunReport) *Engine {
	return &Engine{
		platform: platform,
		opts:     opts,
		budget:   NewOperationBudget(opts.OperationsPerRun),
		report:   report,
		dryRun:   opts.DebugOnly,
		now:      time.Now,
	}
}

// Budget exposes the run-wide operation budget.
func (e *Engine) Budget() *OperationBudget {
	return e.budget
}

// Run pages through all open issues and processes each until the pages
// or the operation budget are exhausted. Issues are handled strictly
// sequentially; the budget is checked before each page fetch and before
// each issue, so a run may stop mid-page.
func (e *Engine) Run(ctx context.Context) error {
	if e.opts.MaintainerNudge {
		m, err := e.platform.Maintainers(ctx)
		if err != nil {
			log.Printf("[engine] failed to list maintainers, continuing with none: %v", err)
		}
		e.maintainers = m
	}

	// The unstale label lists derive only from immutable options, so
	// they are computed once for the whole run.
	addWhenUnstale := e.opts.LabelsToAddWhenUnstaleList()
	removeWhenUnstale := e.opts.LabelsToRemoveWhenUnstaleList()

	for page := 1; ; page++ {
		if !e.budget.HasRemaining() {
			log.Printf("[engine] operation budget exhausted before page %d, stopping", page)
			break
		}

		e.budget.Consume()
		issues, err := e.platform.ListIssues(ctx, page)
		if err != nil {
			e.report.AddError(fmt.Sprintf("failed to list issues page %d: %v", page, err))
			log.Printf("[engine] failed to list issues page %d: %v", page, err)
			break
		}
		if len(issues) == 0 {
			log.Printf("[engine] no more issues, %d operations remaining", e.budget.Remaining())
			break
		}

		halted := false
		for _, issue := range issues {
			if !e.budget.HasRemaining() {
				log.Printf("[engine] operation budget exhausted mid-page, stopping before #%d", issue.Number)
				halted = true
				break
			}
			outcome, reason := e.processIssue(ctx, issue, addWhenUnstale, removeWhenUnstale)
			e.report.Record(stats.Detail{
				Number:      issue.Number,
				PullRequest: issue.IsPullRequest,
				Outcome:     outcome,
				Reason:      reason,
				Operations:  issue.Operations.Consumed(),
			})
			log.Printf("[engine] #%d: %s (%s)", issue.Number, outcome, reason)
		}
		if halted {
			break
		}
	}

	e.report.OperationsConsumed = e.budget.Consumed()
	e.report.OperationsRemaining = e.budget.Remaining()
	return nil
}

// processIssue executes the ordered gate chain for a single issue,
// short-circuiting on the first matching exit. The ordering is load
// bearing: exemptions always win over closing, and the nudge branch
// runs before the generic staleness pipeline.
func (e *Engine) processIssue(ctx context.Context, issue *Issue, addWhenUnstale, removeWhenUnstale []string) (stats.Outcome, string) {
	now := e.now()
	isPR := issue.IsPullRequest

	if issue.IsClosed() || issue.Locked {
		return stats.OutcomeSkipped, "closed or locked"
	}

	if only := e.opts.OnlyLabelsFor(isPR); len(only) > 0 {
		for _, l := range only {
			if !issue.HasLabel(l) {
				return stats.OutcomeSkipped, fmt.Sprintf("missing required label %q", l)
			}
		}
	}

	staleDays := e.opts.StaleDaysFor(isPR)
	shouldMarkStale := staleDays >= 0

	staleLabel := e.opts.StaleLabelFor(isPR)
	issue.IsStale = issue.HasLabel(staleLabel)

	// A lingering close label on an open issue is removed regardless of
	// what the rest of the chain decides.
	if closeLabel := e.opts.CloseLabelFor(isPR); closeLabel != "" && issue.HasLabel(closeLabel) {
		e.removeLabel(ctx, issue, closeLabel)
	}

	if start, ok := e.opts.ParsedStartDate(); ok {
		if !dates.IsValid(issue.CreatedAt) {
			e.report.AddError(fmt.Sprintf("issue #%d has an invalid creation date", issue.Number))
		}
		if !dates.IsMoreRecentThan(issue.CreatedAt, start) {
			return stats.OutcomeSkipped, "created before start date"
		}
	}

	// The nudge branch intentionally ignores pull requests; PR-specific
	// reminder behavior does not exist yet.
	if e.opts.MaintainerNudge && !issue.IsStale && !isPR {
		if done, outcome, reason := e.processReminders(ctx, issue, now); done {
			return outcome, reason
		}
	}

	for _, l := range e.opts.ExemptLabelsFor(isPR) {
		if issue.HasLabel(l) {
			// The exempt label may have been added after staling; clean
			// the stale label up before skipping.
			if issue.IsStale {
				e.removeLabel(ctx, issue, staleLabel)
				issue.IsStale = false
			}
			return stats.OutcomeSkipped, fmt.Sprintf("exempt label %q", l)
		}
	}

	if anyOf := e.opts.AnyOfLabelsFor(isPR); len(anyOf) > 0 && !issue.HasAnyLabel(anyOf) {
		return stats.OutcomeSkipped, "no any-of label present"
	}

	if newMilestonePolicy(e.opts, issue).ShouldExempt() {
		return stats.OutcomeSkipped, "exempt milestone"
	}

	if newAssigneePolicy(e.opts, issue).ShouldExempt() {
		return stats.OutcomeSkipped, "exempt assignee"
	}

	pr := newPullRequestSupplier(func(ctx context.Context) *PullRequest {
		return e.getPullRequest(ctx, issue)
	})
	if newDraftPolicy(e.opts, issue, pr).ShouldExempt(ctx) {
		return stats.OutcomeSkipped, "draft pull request"
	}

	if !issue.IsStale {
		reference := issue.UpdatedAt
		if newIgnoreUpdatesPolicy(e.opts, issue).ShouldIgnoreUpdates() {
			reference = issue.CreatedAt
		}
		if shouldMarkStale && dates.DaysBetween(now, reference) >= float64(staleDays) {
			e.markStale(ctx, issue, staleLabel, now)
		}
	}

	if issue.IsStale {
		return e.processStaleIssue(ctx, issue, staleLabel, now, addWhenUnstale, removeWhenUnstale)
	}
	return stats.OutcomeNoAction, "not stale"
}

// markStale posts the stale message, applies the stale label and
// anchors updated_at to now so the close delay counts from this moment.
func (e *Engine) markStale(ctx context.Context, issue *Issue, staleLabel string, now time.Time) {
	if msg := e.opts.StaleMessageFor(issue.IsPullRequest); msg != "" {
		e.createComment(ctx, issue, msg)
	}
	e.addLabels(ctx, issue, []string{staleLabel})
	issue.UpdatedAt = now
	issue.IsStale = true
	issue.MarkedStaleThisRun = true
}

// processStaleIssue decides whether a stale issue gets unstaled, closed,
// or left waiting. MarkedStaleThisRun guards against unstaling or
// re-closing an issue in the same run that staled it.
func (e *Engine) processStaleIssue(ctx context.Context, issue *Issue, staleLabel string, now time.Time, addWhenUnstale, removeWhenUnstale []string) (stats.Outcome, string) {
	isPR := issue.IsPullRequest

	markedStaleOn, ok := e.labelCreationDate(ctx, issue, staleLabel)
	if !ok {
		markedStaleOn = issue.UpdatedAt
	}

	comments := e.listComments(ctx, issue, markedStaleOn)
	staleMessage := e.opts.StaleMessageFor(isPR)
	hasComments := false
	for _, c := range comments {
		if c.User.IsHuman() && !strings.EqualFold(c.Body, staleMessage) {
			hasComments = true
			break
		}
	}

	closeDays := e.opts.CloseDaysFor(isPR)
	hasUpdate := dates.IsMoreRecentThan(issue.UpdatedAt, now.Add(-time.Duration(closeDays)*24*time.Hour))

	if e.opts.RemoveStaleWhenUpdatedFor(isPR) && hasComments && !issue.MarkedStaleThisRun {
		e.removeLabel(ctx, issue, staleLabel)
		for _, l := range removeWhenUnstale {
			e.removeLabel(ctx, issue, l)
		}
		if len(addWhenUnstale) > 0 {
			e.addLabels(ctx, issue, addWhenUnstale)
		}
		issue.IsStale = false
		return stats.OutcomeUnstaled, "activity since marked stale"
	}

	if closeDays < 0 {
		return stats.OutcomeNoAction, "closing disabled"
	}

	if !hasComments && !hasUpdate && !issue.MarkedStaleThisRun {
		if msg := e.opts.CloseMessageFor(isPR); msg != "" {
			e.createComment(ctx, issue, msg)
		}
		if closeLabel := e.opts.CloseLabelFor(isPR); closeLabel != "" {
			e.addLabels(ctx, issue, []string{closeLabel})
		}
		e.closeIssue(ctx, issue)
		if e.opts.DeleteBranch && isPR {
			if pr := e.getPullRequest(ctx, issue); pr != nil && pr.HeadRef != "" {
				e.deleteBranch(ctx, issue, pr.HeadRef)
			}
		}
		return stats.OutcomeClosed, "stale past close window"
	}

	if issue.MarkedStaleThisRun {
		return stats.OutcomeMarkedStale, "marked stale"
	}
	return stats.OutcomeNoAction, "stale, awaiting close window"
}

// consume spends one run-wide operation and one issue-local operation.
func (e *Engine) consume(issue *Issue) {
	e.budget.Consume()
	issue.Operations.Consume()
}

// The guarded platform call helpers below share one error posture:
// reads degrade to "no data", writes are logged on failure, and dry-run
// suppresses writes while still consuming an operation.

func (e *Engine) listComments(ctx context.Context, issue *Issue, since time.Time) []*Comment {
	e.consume(issue)
	comments, err := e.platform.ListComments(ctx, issue, since)
	if err != nil {
		log.Printf("[engine] #%d: failed to list comments: %v", issue.Number, err)
		return nil
	}
	return comments
}

func (e *Engine) labelCreationDate(ctx context.Context, issue *Issue, label string) (time.Time, bool) {
	e.consume(issue)
	t, ok, err := e.platform.LabelCreationDate(ctx, issue, label)
	if err != nil {
		log.Printf("[engine] #%d: failed to look up %q label event: %v", issue.Number, label, err)
		return time.Time{}, false
	}
	return t, ok
}

func (e *Engine) getPullRequest(ctx context.Context, issue *Issue) *PullRequest {
	e.consume(issue)
	pr, err := e.platform.PullRequest(ctx, issue)
	if err != nil {
		log.Printf("[engine] #%d: failed to fetch pull request: %v", issue.Number, err)
		return nil
	}
	return pr
}

func (e *Engine) createComment(ctx context.Context, issue *Issue, body string) {
	e.consume(issue)
	if e.dryRun {
		log.Printf("[engine] DRY RUN: would comment on #%d", issue.Number)
		return
	}
	if err := e.platform.CreateComment(ctx, issue, body); err != nil {
		log.Printf("[engine] #%d: failed to create comment: %v", issue.Number, err)
	}
}

func (e *Engine) addLabels(ctx context.Context, issue *Issue, labels []string) {
	e.consume(issue)
	if e.dryRun {
		log.Printf("[engine] DRY RUN: would add labels %v to #%d", labels, issue.Number)
		return
	}
	if err := e.platform.AddLabels(ctx, issue, labels); err != nil {
		log.Printf("[engine] #%d: failed to add labels %v: %v", issue.Number, labels, err)
	}
}

func (e *Engine) removeLabel(ctx context.Context, issue *Issue, label string) {
	e.consume(issue)
	if e.dryRun {
		log.Printf("[engine] DRY RUN: would remove label %q from #%d", label, issue.Number)
		return
	}
	if err := e.platform.RemoveLabel(ctx, issue, label); err != nil {
		log.Printf("[engine] #%d: failed to remove label %q: %v", issue.Number, label, err)
	}
}

func (e *Engine) closeIssue(ctx context.Context, issue *Issue) {
	e.consume(issue)
	if e.dryRun {
		log.Printf("[engine] DRY RUN: would close #%d", issue.Number)
		issue.State = "closed"
		return
	}
	if err := e.platform.CloseIssue(ctx, issue); err != nil {
		log.Printf("[engine] #%d: failed to close: %v", issue.Number, err)
		return
	}
	issue.State = "closed"
}

func (e *Engine) deleteBranch(ctx context.Context, issue *Issue, ref string) {
	e.consume(issue)
	if e.dryRun {
		log.Printf("[engine] DRY RUN: would delete branch %q of #%d", ref, issue.Number)
		return
	}
	if err := e.platform.DeleteBranch(ctx, ref); err != nil {
		log.Printf("[engine] #%d: failed to delete branch %q: %v", issue.Number, ref, err)
		return
	}
	e.report.DeletedBranches++
}
