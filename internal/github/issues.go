package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/issueops/issueops/pkg/models"
)

const maxComments = 20

// GetIssue fetches a single issue together with its comment bodies, which
// the extractor folds into the analysis text.
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*models.Issue, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", org, repo, number)

	var ai Issue
	if err := c.rest.Get(endpoint, &ai); err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	issue := ai.ToModel(org, repo)
	issue.Comments = c.fetchCommentBodies(ctx, org, repo, number)
	return issue, nil
}

// fetchCommentBodies returns up to maxComments comment texts. Comment
// fetch failures are not fatal: the issue body alone is still analyzable.
func (c *Client) fetchCommentBodies(ctx context.Context, org, repo string, number int) []string {
	comments, err := c.ListComments(ctx, org, repo, number)
	if err != nil {
		return nil
	}

	bodies := make([]string, 0, len(comments))
	for _, comment := range comments {
		if comment.Body == "" {
			continue
		}
		bodies = append(bodies, comment.Body)
		if len(bodies) >= maxComments {
			break
		}
	}
	return bodies
}

// ListOpenIssues fetches recent open issues via the search API, which
// (unlike the issues endpoint) lets us exclude pull requests server-side.
func (c *Client) ListOpenIssues(ctx context.Context, org, repo string, limit int) ([]*models.Issue, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("repo:%s/%s is:issue state:open", org, repo))
	params.Set("per_page", strconv.Itoa(limit))

	var result struct {
		Items []Issue `json:"items"`
	}
	if err := c.rest.Get("search/issues?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	issues := make([]*models.Issue, 0, len(result.Items))
	for _, ai := range result.Items {
		if ai.isPullRequest() {
			continue
		}
		issues = append(issues, ai.ToModel(org, repo))
	}

	return issues, nil
}
