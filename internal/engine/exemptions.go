package engine

import (
	"context"
	"log"

	"github.com/shepherdbot/shepherd-bot/internal/core/config"
	"github.com/shepherdbot/shepherd-bot/internal/utils/labels"
)

// Each eligibility policy encapsulates one orthogonal exemption rule. A
// policy is constructed from (options, issue) and answers a single
// boolean query; none of them mutate the issue.

// milestonePolicy exempts milestoned issues, either wholesale or by a
// configured list of milestone titles.
type milestonePolicy struct {
	opts  *config.Options
	issue *Issue
}

func newMilestonePolicy(opts *config.Options, issue *Issue) *milestonePolicy {
	return &milestonePolicy{opts: opts, issue: issue}
}

func (p *milestonePolicy) ShouldExempt() bool {
	if p.issue.Milestone == nil {
		return false
	}
	if p.opts.ExemptAllMilestonesFor(p.issue.IsPullRequest) {
		return true
	}
	exempt := p.opts.ExemptMilestonesFor(p.issue.IsPullRequest)
	return labels.Contains(exempt, p.issue.Milestone.Title)
}

// assigneePolicy exempts assigned issues, either wholesale or by a
// configured list of assignee logins.
type assigneePolicy struct {
	opts  *config.Options
	issue *Issue
}

func newAssigneePolicy(opts *config.Options, issue *Issue) *assigneePolicy {
	return &assigneePolicy{opts: opts, issue: issue}
}

func (p *assigneePolicy) ShouldExempt() bool {
	if !p.issue.HasAssignees() {
		return false
	}
	if p.opts.ExemptAllAssigneesFor(p.issue.IsPullRequest) {
		return true
	}
	exempt := p.opts.ExemptAssigneesFor(p.issue.IsPullRequest)
	for _, a := range p.issue.Assignees {
		if a != nil && labels.Contains(exempt, a.Login) {
			return true
		}
	}
	return false
}

// ignoreUpdatesPolicy decides whether staleness is anchored to the
// creation date instead of the last update.
type ignoreUpdatesPolicy struct {
	opts  *config.Options
	issue *Issue
}

func newIgnoreUpdatesPolicy(opts *config.Options, issue *Issue) *ignoreUpdatesPolicy {
	return &ignoreUpdatesPolicy{opts: opts, issue: issue}
}

func (p *ignoreUpdatesPolicy) ShouldIgnoreUpdates() bool {
	return p.opts.IgnoreUpdatesFor(p.issue.IsPullRequest)
}

// pullRequestSupplier fetches the pull request detail at most once and
// caches the result for the rest of the issue's processing. A failed
// fetch is treated as "no data".
type pullRequestSupplier struct {
	fetch   func(ctx context.Context) *PullRequest
	fetched bool
	pr      *PullRequest
}

func newPullRequestSupplier(fetch func(ctx context.Context) *PullRequest) *pullRequestSupplier {
	return &pullRequestSupplier{fetch: fetch}
}

func (s *pullRequestSupplier) Get(ctx context.Context) *PullRequest {
	if !s.fetched {
		s.fetched = true
		s.pr = s.fetch(ctx)
	}
	return s.pr
}

// draftPolicy exempts draft pull requests. It only pays for the PR
// fetch when the static checks cannot already decide.
type draftPolicy struct {
	opts  *config.Options
	issue *Issue
	pr    *pullRequestSupplier
}

func newDraftPolicy(opts *config.Options, issue *Issue, pr *pullRequestSupplier) *draftPolicy {
	return &draftPolicy{opts: opts, issue: issue, pr: pr}
}

func (p *draftPolicy) ShouldExempt(ctx context.Context) bool {
	if !p.opts.ExemptDraftPR || !p.issue.IsPullRequest {
		return false
	}
	pr := p.pr.Get(ctx)
	if pr == nil {
		log.Printf("[engine] #%d: no pull request data, treating as not draft", p.issue.Number)
		return false
	}
	return pr.Draft
}
