// Package report renders the static contributor job board and its Atom
// feed from triaged issues.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/issueops/issueops/pkg/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// BoardItem is one issue on the job board.
type BoardItem struct {
	Number    int
	Title     string
	URL       string
	UpdatedAt time.Time
	UUID      string
	Metadata  *models.Metadata
}

// NewBoardItem builds a board entry from a triaged issue. The UUID is
// deterministic per issue identity, so feed readers see stable entry ids
// across regenerations.
func NewBoardItem(issue *models.Issue, md *models.Metadata) BoardItem {
	return BoardItem{
		Number:    issue.Number,
		Title:     issue.Title,
		URL:       issue.URL,
		UpdatedAt: issue.UpdatedAt,
		UUID:      issue.UUID(),
		Metadata:  md,
	}
}

// Reporter renders static report files.
type Reporter struct {
	board *template.Template
	feed  *template.Template
}

// New creates a reporter with the embedded templates.
func New() (*Reporter, error) {
	board, err := template.ParseFS(templateFS, "templates/board.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse board template: %w", err)
	}
	feed, err := template.ParseFS(templateFS, "templates/feed.xml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed template: %w", err)
	}
	return &Reporter{board: board, feed: feed}, nil
}

type boardData struct {
	Issues  []BoardItem
	SiteURL string
	Now     string
}

// WriteBoard renders the job board HTML to the given path and returns the
// absolute output path.
func (r *Reporter) WriteBoard(items []BoardItem, outputPath, siteURL string) (string, error) {
	return r.render(r.board, items, outputPath, siteURL)
}

// WriteFeed renders the Atom feed to the given path and returns the
// absolute output path.
func (r *Reporter) WriteFeed(items []BoardItem, outputPath, siteURL string) (string, error) {
	return r.render(r.feed, items, outputPath, siteURL)
}

func (r *Reporter) render(tmpl *template.Template, items []BoardItem, outputPath, siteURL string) (string, error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	data := boardData{
		Issues:  items,
		SiteURL: siteURL,
		Now:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}
	return abs, nil
}
