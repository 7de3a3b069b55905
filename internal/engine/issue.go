package engine

import (
	"time"

	"github.com/shepherdbot/shepherd-bot/internal/utils/labels"
)

// UserTypeHuman is the account type GitHub assigns to human users. Any
// other type (Bot, Organization, ...) is treated as non-human.
const UserTypeHuman = "User"

// User identifies an account on the platform.
type User struct {
	Login string
	Type  string
}

// IsHuman reports whether the user is a human account.
func (u *User) IsHuman() bool {
	return u != nil && u.Type == UserTypeHuman
}

// Comment is a single issue comment.
type Comment struct {
	User      *User
	Body      string
	CreatedAt time.Time // zero means the platform omitted it; callers substitute "now"
}

// PullRequest is the lazily-fetched pull request detail. Only the fields
// the draft exemption and branch deletion need.
type PullRequest struct {
	Draft   bool
	HeadRef string
}

// Milestone is an issue milestone reference.
type Milestone struct {
	Title string
}

// Issue is the mutable record for one issue or pull request under
// evaluation. The engine owns it for the duration of a run; nothing is
// persisted across runs, so staleness state lives entirely in the labels
// and timestamps on the platform.
type Issue struct {
	Number        int
	Title         string
	IsPullRequest bool

	CreatedAt time.Time
	UpdatedAt time.Time // rewritten to "now" when the issue is marked stale this run

	State     string
	Locked    bool
	Labels    []string
	Milestone *Milestone
	Assignees []*User
	User      *User

	// Derived flags, set by the engine.
	IsStale            bool
	MarkedStaleThisRun bool

	// Operations counts platform calls consumed by this one issue.
	// Diagnostics only; it never gates processing.
	Operations OperationCounter
}

// IsClosed reports whether the issue is in the closed state.
func (i *Issue) IsClosed() bool {
	return i.State == "closed"
}

// HasLabel reports whether the issue carries the given label.
func (i *Issue) HasLabel(label string) bool {
	return labels.Contains(i.Labels, label)
}

// HasAnyLabel reports whether the issue carries at least one of the
// given labels.
func (i *Issue) HasAnyLabel(candidates []string) bool {
	return labels.ContainsAny(i.Labels, candidates)
}

// HasAssignees reports whether anyone is assigned.
func (i *Issue) HasAssignees() bool {
	return len(i.Assignees) > 0
}
