// Package github implements the engine's platform contract on top of
// the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v60/github"

	"github.com/shepherdbot/shepherd-bot/internal/engine"
	"github.com/shepherdbot/shepherd-bot/internal/utils/labels"
)

const perPage = 100

// Client wraps the GitHub API client for a single repository.
type Client struct {
	client    *github.Client
	owner     string
	repo      string
	ascending bool
}

// NewClient creates a client bound to owner/repo. If token is empty the
// client is unauthenticated (useful only for read-only dry runs against
// public repositories).
func NewClient(ctx context.Context, token, owner, repo string, ascending bool) *Client {
	return &Client{
		client:    newAPIClient(ctx, token),
		owner:     owner,
		repo:      repo,
		ascending: ascending,
	}
}

// ListIssues fetches one page of open issues, pull requests included.
func (c *Client) ListIssues(ctx context.Context, page int) ([]*engine.Issue, error) {
	direction := "desc"
	if c.ascending {
		direction = "asc"
	}
	opts := &github.IssueListByRepoOptions{
		State:     "open",
		Sort:      "created",
		Direction: direction,
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	issues, _, err := c.client.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	out := make([]*engine.Issue, 0, len(issues))
	for _, gi := range issues {
		out = append(out, convertIssue(gi))
	}
	return out, nil
}

// ListComments fetches all comments created at or after since, in
// ascending order.
func (c *Client) ListComments(ctx context.Context, issue *engine.Issue, since time.Time) ([]*engine.Comment, error) {
	opts := &github.IssueListCommentsOptions{
		Sort:      github.String("created"),
		Direction: github.String("asc"),
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}
	if !since.IsZero() {
		opts.Since = &since
	}

	var all []*engine.Comment
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, issue.Number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		for _, gc := range comments {
			all = append(all, convertComment(gc))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// LabelCreationDate finds when the given label was most recently applied.
func (c *Client) LabelCreationDate(ctx context.Context, issue *engine.Issue, label string) (time.Time, bool, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var events []*github.IssueEvent
	for {
		page, resp, err := c.client.Issues.ListIssueEvents(ctx, c.owner, c.repo, issue.Number, opts)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("failed to list issue events: %w", err)
		}
		events = append(events, page...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	latest := latestLabeledAt(events, label)
	if latest.IsZero() {
		return time.Time{}, false, nil
	}
	return latest, true, nil
}

// PullRequest fetches the pull request detail for an issue.
func (c *Client) PullRequest(ctx context.Context, issue *engine.Issue) (*engine.PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, issue.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull request: %w", err)
	}
	return &engine.PullRequest{
		Draft:   pr.GetDraft(),
		HeadRef: pr.GetHead().GetRef(),
	}, nil
}

// Maintainers lists the owning organization's member logins.
func (c *Client) Maintainers(ctx context.Context) ([]string, error) {
	opts := &github.ListMembersOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var logins []string
	for {
		members, resp, err := c.client.Organizations.ListMembers(ctx, c.owner, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list organization members: %w", err)
		}
		for _, m := range members {
			logins = append(logins, m.GetLogin())
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return logins, nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, issue *engine.Issue, body string) error {
	comment := &github.IssueComment{Body: github.String(body)}
	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, issue.Number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue.
func (c *Client) AddLabels(ctx context.Context, issue *engine.Issue, toAdd []string) error {
	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, issue.Number, toAdd)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabel removes a label from an issue.
func (c *Client) RemoveLabel(ctx context.Context, issue *engine.Issue, label string) error {
	_, err := c.client.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, issue.Number, label)
	if err != nil {
		return fmt.Errorf("failed to remove label: %w", err)
	}
	return nil
}

// CloseIssue transitions an issue to the closed state.
func (c *Client) CloseIssue(ctx context.Context, issue *engine.Issue) error {
	req := &github.IssueRequest{State: github.String("closed")}
	_, _, err := c.client.Issues.Edit(ctx, c.owner, c.repo, issue.Number, req)
	if err != nil {
		return fmt.Errorf("failed to close issue: %w", err)
	}
	return nil
}

// DeleteBranch deletes the given head branch.
func (c *Client) DeleteBranch(ctx context.Context, ref string) error {
	if _, err := c.client.Git.DeleteRef(ctx, c.owner, c.repo, "heads/"+ref); err != nil {
		return fmt.Errorf("failed to delete branch %q: %w", ref, err)
	}
	return nil
}

// convertIssue maps an API issue onto the engine's entity.
func convertIssue(gi *github.Issue) *engine.Issue {
	issue := &engine.Issue{
		Number:        gi.GetNumber(),
		Title:         gi.GetTitle(),
		IsPullRequest: gi.IsPullRequest(),
		CreatedAt:     gi.GetCreatedAt().Time,
		UpdatedAt:     gi.GetUpdatedAt().Time,
		State:         gi.GetState(),
		Locked:        gi.GetLocked(),
		User:          convertUser(gi.User),
	}

	for _, l := range gi.Labels {
		issue.Labels = append(issue.Labels, l.GetName())
	}
	if m := gi.Milestone; m != nil {
		issue.Milestone = &engine.Milestone{Title: m.GetTitle()}
	}
	for _, a := range gi.Assignees {
		if u := convertUser(a); u != nil {
			issue.Assignees = append(issue.Assignees, u)
		}
	}
	return issue
}

func convertComment(gc *github.IssueComment) *engine.Comment {
	return &engine.Comment{
		User:      convertUser(gc.User),
		Body:      gc.GetBody(),
		CreatedAt: gc.GetCreatedAt().Time,
	}
}

func convertUser(gu *github.User) *engine.User {
	if gu == nil {
		return nil
	}
	return &engine.User{
		Login: gu.GetLogin(),
		Type:  gu.GetType(),
	}
}

// latestLabeledAt returns the timestamp of the most recent "labeled"
// event matching the label name.
func latestLabeledAt(events []*github.IssueEvent, label string) time.Time {
	var latest time.Time
	for _, event := range events {
		if event.GetEvent() != "labeled" || event.Label == nil {
			continue
		}
		if labels.Clean(event.Label.GetName()) != labels.Clean(label) {
			continue
		}
		if at := event.GetCreatedAt().Time; at.After(latest) {
			latest = at
		}
	}
	return latest
}
