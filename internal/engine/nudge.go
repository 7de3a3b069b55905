package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shepherdbot/shepherd-bot/internal/core/stats"
	"github.com/shepherdbot/shepherd-bot/internal/utils/dates"
)

// processReminders runs the maintainer-nudge policy for one issue. It
// returns done=true when the issue is finished for this run (a reminder
// was posted or a skip applies). done=false hands control back to the
// generic staleness pipeline: the issue is unattended by its assigned
// maintainers despite earlier reminders, so staleness may proceed.
func (e *Engine) processReminders(ctx context.Context, issue *Issue, now time.Time) (bool, stats.Outcome, string) {
	if dates.DaysBetween(now, issue.CreatedAt) < float64(e.opts.DaysBeforeTriageReminder) {
		return true, stats.OutcomeSkipped, "younger than triage reminder window"
	}

	assignees := e.maintainerAssignees(issue)
	comments := e.listComments(ctx, issue, issue.CreatedAt)

	if len(assignees) == 0 {
		if anyCommentMarked(comments, MarkerAssignMaintainer) {
			return true, stats.OutcomeSkipped, "assign-maintainer reminder already posted"
		}
		e.createComment(ctx, issue, assignMaintainerComment(e.opts.EscalationList()))
		return true, stats.OutcomeReminded, "assign-maintainer"
	}

	if len(comments) == 0 {
		e.createComment(ctx, issue, triageReminderComment(assignees))
		return true, stats.OutcomeReminded, "triage-issue"
	}

	if hcl := e.opts.HasClosingPRLabel; hcl != "" && issue.HasLabel(hcl) {
		return true, stats.OutcomeSkipped, "has closing pull request"
	}

	last := comments[len(comments)-1]
	lastAt := last.CreatedAt
	if !dates.IsValid(lastAt) {
		lastAt = now
	}
	if dates.DaysBetween(now, lastAt) < float64(e.opts.DaysBeforeReplyReminder) {
		return true, stats.OutcomeSkipped, "last comment within reply reminder window"
	}

	if !e.isBotLike(last.User) {
		if e.isMaintainer(last.User) {
			e.createComment(ctx, issue, authorReminderComment(issue.User))
			return true, stats.OutcomeReminded, "reminder-to-issue-author"
		}
		e.createComment(ctx, issue, maintainerReminderComment(assignees))
		return true, stats.OutcomeReminded, "reminder-to-maintainers"
	}

	// The last comment is bot-like. Never stale an issue no maintainer
	// has ever touched, and never stack reminders on a reminder.
	if !e.hasMaintainerComment(comments) {
		return true, stats.OutcomeSkipped, "no maintainer comment yet"
	}
	if MarkerReminderToMaintainers.In(last.Body) {
		return true, stats.OutcomeSkipped, "maintainer reminder already posted"
	}
	if issue.Milestone != nil {
		return true, stats.OutcomeSkipped, "milestoned"
	}

	return false, "", ""
}

// maintainerAssignees returns the issue's human assignees whose logins
// appear in the maintainers set. Login comparison is case-sensitive.
func (e *Engine) maintainerAssignees(issue *Issue) []*User {
	var out []*User
	for _, a := range issue.Assignees {
		if a.IsHuman() && e.isMaintainer(a) {
			out = append(out, a)
		}
	}
	return out
}

func (e *Engine) isMaintainer(u *User) bool {
	if !u.IsHuman() {
		return false
	}
	for _, m := range e.maintainers {
		if u.Login == m {
			return true
		}
	}
	return false
}

// isBotLike reports whether a comment author is non-human or the bot's
// own automation account.
func (e *Engine) isBotLike(u *User) bool {
	if u == nil {
		return true
	}
	return !u.IsHuman() || u.Login == e.opts.BotLogin
}

func (e *Engine) hasMaintainerComment(comments []*Comment) bool {
	for _, c := range comments {
		if e.isMaintainer(c.User) {
			return true
		}
	}
	return false
}

func mentionList(users []*User) string {
	mentions := make([]string, 0, len(users))
	for _, u := range users {
		mentions = append(mentions, "@"+u.Login)
	}
	return strings.Join(mentions, " ")
}

func mentionLogins(logins []string) string {
	mentions := make([]string, 0, len(logins))
	for _, l := range logins {
		mentions = append(mentions, "@"+l)
	}
	return strings.Join(mentions, " ")
}

func assignMaintainerComment(escalation []string) string {
	var b strings.Builder
	b.WriteString(MarkerAssignMaintainer.String())
	b.WriteString("\n")
	if len(escalation) > 0 {
		b.WriteString(mentionLogins(escalation))
		b.WriteString(" ")
	}
	b.WriteString("This issue has no maintainer assigned yet. Could you assign someone and triage it?")
	return b.String()
}

func triageReminderComment(assignees []*User) string {
	return fmt.Sprintf("%s\n%s This issue is waiting for triage. Please take a look and add the appropriate labels.",
		MarkerTriageIssue.String(), mentionList(assignees))
}

func maintainerReminderComment(assignees []*User) string {
	return fmt.Sprintf("%s\n%s There are new comments waiting for a reply from a maintainer.",
		MarkerReminderToMaintainers.String(), mentionList(assignees))
}

func authorReminderComment(author *User) string {
	var b strings.Builder
	b.WriteString(MarkerReminderToIssueAuthor.String())
	b.WriteString("\n")
	if author != nil && author.Login != "" {
		b.WriteString("@" + author.Login + " ")
	}
	b.WriteString("A maintainer replied a while ago. Could you provide an update so we can move this issue forward?")
	return b.String()
}
