package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/issueops/issueops/pkg/models"
)

const snippetLength = 500

// SearchCandidates runs a keyword query against the repository's issues
// and returns lightweight duplicate candidates with a body snippet.
func (c *Client) SearchCandidates(ctx context.Context, org, repo, keywords string, limit int) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("repo:%s/%s is:issue sort:relevance %s", org, repo, keywords))
	params.Set("per_page", strconv.Itoa(limit))

	var result struct {
		Items []Issue `json:"items"`
	}
	if err := c.rest.Get("search/issues?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(result.Items))
	for _, item := range result.Items {
		if item.isPullRequest() {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Number:      item.Number,
			Title:       item.Title,
			State:       item.State,
			BodySnippet: snippet(item.Body),
		})
	}

	return candidates, nil
}

func snippet(body string) string {
	if len(body) <= snippetLength {
		return body
	}
	return body[:snippetLength]
}
