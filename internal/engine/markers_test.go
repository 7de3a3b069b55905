package engine

import (
	"strings"
	"testing"
)

func TestMarkerRoundTrip(t *testing.T) {
	markers := []Marker{
		MarkerAssignMaintainer,
		MarkerTriageIssue,
		MarkerReminderToMaintainers,
		MarkerReminderToIssueAuthor,
	}

	for _, m := range markers {
		body := m.String() + "\n@alice please take a look."
		if !m.In(body) {
			t.Errorf("%q should be detected in its own comment", m)
		}
		for _, other := range markers {
			if other != m && other.In(body) {
				t.Errorf("%q falsely detected in a %q comment", other, m)
			}
		}
	}
}

func TestMarkerIsHTMLComment(t *testing.T) {
	s := MarkerTriageIssue.String()
	if !strings.HasPrefix(s, "<!--") || !strings.HasSuffix(s, "-->") {
		t.Errorf("marker %q should render as an HTML comment", s)
	}
}

func TestAnyCommentMarked(t *testing.T) {
	comments := []*Comment{
		{Body: "just a user comment"},
		{Body: triageReminderComment([]*User{{Login: "alice", Type: UserTypeHuman}})},
	}

	if !anyCommentMarked(comments, MarkerTriageIssue) {
		t.Error("triage marker should be found")
	}
	if anyCommentMarked(comments, MarkerAssignMaintainer) {
		t.Error("assign-maintainer marker should not be found")
	}
	if anyCommentMarked(nil, MarkerTriageIssue) {
		t.Error("no markers in an empty list")
	}
}
