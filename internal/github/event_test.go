package github

import (
	"os"
	"path/filepath"
	"testing"
)

const issueOpenedEvent = `{
  "action": "opened",
  "issue": {
    "number": 42,
    "title": "Crash on startup",
    "body": "It panics.",
    "state": "open",
    "html_url": "https://github.com/acme/widgets/issues/42",
    "user": {"login": "reporter"},
    "labels": [{"name": "bug"}]
  },
  "repository": {
    "full_name": "acme/widgets",
    "owner": {"login": "acme"},
    "name": "widgets"
  }
}`

func TestParseEventFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(issueOpenedEvent), 0644); err != nil {
		t.Fatal(err)
	}

	event, err := ParseEventFile(path)
	if err != nil {
		t.Fatalf("ParseEventFile() error = %v", err)
	}

	if !event.IsIssueEvent() || !event.IsOpenedEvent() {
		t.Errorf("event should be an issue opened event")
	}

	issue := event.ToIssue()
	if issue == nil {
		t.Fatalf("ToIssue() returned nil")
	}
	if issue.Org != "acme" || issue.Repo != "widgets" || issue.Number != 42 {
		t.Errorf("ToIssue() = %s#%d, want acme/widgets#42", issue.FullRepo(), issue.Number)
	}
	if issue.Author != "reporter" {
		t.Errorf("Author = %q, want reporter", issue.Author)
	}
	if len(issue.Labels) != 1 || issue.Labels[0] != "bug" {
		t.Errorf("Labels = %v, want [bug]", issue.Labels)
	}
}

func TestParseEventFile_Missing(t *testing.T) {
	if _, err := ParseEventFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Errorf("expected error for missing event file")
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		in      string
		org     string
		repo    string
		wantErr bool
	}{
		{"acme/widgets", "acme", "widgets", false},
		{"acme", "", "", true},
		{"a/b/c", "", "", true},
		{"/repo", "", "", true},
	}

	for _, tt := range tests {
		org, repo, err := ParseRepo(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRepo(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if org != tt.org || repo != tt.repo {
			t.Errorf("ParseRepo(%q) = %s/%s, want %s/%s", tt.in, org, repo, tt.org, tt.repo)
		}
	}
}
