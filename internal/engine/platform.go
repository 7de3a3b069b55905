package engine

import (
	"context"
	"time"
)

// Platform is the contract the decision engine needs from the hosting
// platform. The engine guards every call site individually: a failed
// read degrades to "no data" and a failed write is logged, so no
// platform error ever aborts the batch.
type Platform interface {
	// ListIssues returns up to 100 open issues for the given 1-indexed
	// page, in the configured direction. An empty page signals exhaustion.
	ListIssues(ctx context.Context, page int) ([]*Issue, error)

	// ListComments returns all comments created at or after since, in
	// ascending order.
	ListComments(ctx context.Context, issue *Issue, since time.Time) ([]*Comment, error)

	// LabelCreationDate returns the timestamp of the most recent
	// "labeled" event for the given label, or false if never labeled.
	LabelCreationDate(ctx context.Context, issue *Issue, label string) (time.Time, bool, error)

	// PullRequest fetches the pull request detail for an issue.
	PullRequest(ctx context.Context, issue *Issue) (*PullRequest, error)

	// Maintainers lists the organization member logins.
	Maintainers(ctx context.Context) ([]string, error)

	CreateComment(ctx context.Context, issue *Issue, body string) error
	AddLabels(ctx context.Context, issue *Issue, labels []string) error
	RemoveLabel(ctx context.Context, issue *Issue, label string) error
	CloseIssue(ctx context.Context, issue *Issue) error
	DeleteBranch(ctx context.Context, ref string) error
}
