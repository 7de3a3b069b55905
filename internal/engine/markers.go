package engine

import (
	"fmt"
	"strings"
)

// Marker tags a bot-authored comment with an invisible HTML comment so a
// later run can recognize its own output and suppress duplicates.
type Marker string

const (
	// MarkerAssignMaintainer tags the escalation comment asking that a
	// maintainer be assigned to an untriaged issue.
	MarkerAssignMaintainer Marker = "assign-maintainer"

	// MarkerTriageIssue tags the reminder asking assigned maintainers to
	// triage an issue that has no comments yet.
	MarkerTriageIssue Marker = "triage-issue"

	// MarkerReminderToMaintainers tags the reminder asking maintainers to
	// reply to the latest community comment.
	MarkerReminderToMaintainers Marker = "reminder-to-maintainers"

	// MarkerReminderToIssueAuthor tags the reminder asking the issue
	// author for an update.
	MarkerReminderToIssueAuthor Marker = "reminder-to-issue-author"
)

// String returns the marker as it appears embedded in a comment body.
func (m Marker) String() string {
	return fmt.Sprintf("<!-- shepherd-bot: %s -->", string(m))
}

// In reports whether the comment body carries this marker.
func (m Marker) In(body string) bool {
	return strings.Contains(body, m.String())
}

// anyCommentMarked reports whether any comment in the list carries the
// given marker.
func anyCommentMarked(comments []*Comment, m Marker) bool {
	for _, c := range comments {
		if m.In(c.Body) {
			return true
		}
	}
	return false
}
