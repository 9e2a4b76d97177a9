package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Issue represents a tracker issue with its metadata
type Issue struct {
	Org       string    `json:"org"`
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Comments  []string  `json:"comments,omitempty"`
	State     string    `json:"state"` // "open" or "closed"
	Labels    []string  `json:"labels"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullRepo returns the full repository name (org/repo)
func (i *Issue) FullRepo() string {
	return fmt.Sprintf("%s/%s", i.Org, i.Repo)
}

// UUID generates a deterministic UUID based on org/repo#number
func (i *Issue) UUID() string {
	return IssueUUID(i.Org, i.Repo, i.Number)
}

// Text renders the issue as the single extraction input: title, body and
// comments concatenated. Byte-identical issues always produce byte-identical
// text, which is what makes the extraction cache content-addressable.
func (i *Issue) Text() string {
	var sb strings.Builder
	sb.WriteString("Title: ")
	sb.WriteString(i.Title)
	sb.WriteString("\n\nBody:\n")
	sb.WriteString(i.Body)
	if len(i.Comments) > 0 {
		sb.WriteString("\n\nComments:\n")
		sb.WriteString(strings.Join(i.Comments, "\n"))
	}
	return sb.String()
}

// BodyHash returns a SHA256 hash of the body for change detection
func (i *Issue) BodyHash() string {
	h := sha256.Sum256([]byte(i.Body))
	return hex.EncodeToString(h[:])
}

// IssueUUID generates a deterministic UUID from issue identity
func IssueUUID(org, repo string, number int) string {
	data := fmt.Sprintf("%s/%s#%d", org, repo, number)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(data)).String()
}
