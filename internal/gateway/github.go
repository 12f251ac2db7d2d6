// Package gateway provides gateways to the external services the report
// touches: the GitHub GraphQL API and the Slack Web API.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/pr-weekly-report/internal/domain"
)

// maxSearchResults caps paginated collection. The GitHub Search API never
// returns more than 1000 results per query anyway, so anything beyond the cap
// is reported as a truncated (undercounted) result rather than retried.
const maxSearchResults = 1000

// githubTimeLayout is the ISO 8601 form the Search API expects in range
// qualifiers such as created:..<ts>.
const githubTimeLayout = "2006-01-02T15:04:05Z"

// Fetcher defines the behavior of a gateway for fetching pull request
// activity from GitHub. The boolean result reports whether collection was
// truncated at the safety cap.
type Fetcher interface {
	FetchCreatedPRs(ctx context.Context, org string, win domain.ReportWindow) ([]domain.PullRequestRecord, bool, error)
	FetchReviewedPRs(ctx context.Context, org string, win domain.ReportWindow) ([]domain.ReviewedPR, bool, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client *githubv4.Client
	logger *log.Logger
}

// createdSearchQuery fetches identity and authorship of PRs created in the window.
type createdSearchQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Nodes []struct {
			PullRequest struct {
				Number     int
				Author     *struct{ Login string }
				Repository struct{ Name string }
			} `graphql:"... on PullRequest"`
		}
	} `graphql:"search(query: $q, type: ISSUE, first: 100, after: $cursor)"`
}

// reviewedSearchQuery fetches PRs updated in the window together with their
// most recent reviews. The author of a review can be null for deleted accounts.
type reviewedSearchQuery struct {
	Search struct {
		PageInfo struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Nodes []struct {
			PullRequest struct {
				Number     int
				Repository struct{ Name string }
				Reviews    struct {
					Nodes []struct {
						Author    *struct{ Login string }
						CreatedAt githubv4.DateTime
						Comments  struct{ TotalCount int }
					}
				} `graphql:"reviews(last: 100)"`
			} `graphql:"... on PullRequest"`
		}
	} `graphql:"search(query: $q, type: ISSUE, first: 100, after: $cursor)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		client: githubv4.NewClient(httpClient),
		logger: logger,
	}, nil
}

// FetchCreatedPRs collects every pull request created in the window across
// the organization, up to the safety cap.
func (g *GitHubGateway) FetchCreatedPRs(ctx context.Context, org string, win domain.ReportWindow) ([]domain.PullRequestRecord, bool, error) {
	variables := map[string]interface{}{
		"q":      githubv4.String(searchQuery(org, "created", win)),
		"cursor": (*githubv4.String)(nil),
	}
	var records []domain.PullRequestRecord
	for {
		var q createdSearchQuery
		if err := g.client.Query(ctx, &q, variables); err != nil {
			return nil, false, fmt.Errorf("failed to search created PRs: %w", err)
		}
		for _, node := range q.Search.Nodes {
			pr := node.PullRequest
			if pr.Repository.Name == "" {
				continue // Not a PullRequest node.
			}
			rec := domain.PullRequestRecord{Number: pr.Number, Repository: pr.Repository.Name}
			if pr.Author != nil {
				rec.Author = pr.Author.Login
			}
			records = append(records, rec)
		}
		if !q.Search.PageInfo.HasNextPage {
			return records, false, nil
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		if len(records) >= maxSearchResults {
			return records, true, nil
		}
		g.logger.Println("  Fetching next page of created pull requests...")
	}
}

// FetchReviewedPRs collects every pull request updated in the window together
// with its recent reviews, up to the safety cap. Callers must re-filter the
// reviews by timestamp: "updated" also matches comments, edits and status
// changes outside of review activity.
func (g *GitHubGateway) FetchReviewedPRs(ctx context.Context, org string, win domain.ReportWindow) ([]domain.ReviewedPR, bool, error) {
	variables := map[string]interface{}{
		"q":      githubv4.String(searchQuery(org, "updated", win)),
		"cursor": (*githubv4.String)(nil),
	}
	var records []domain.ReviewedPR
	for {
		var q reviewedSearchQuery
		if err := g.client.Query(ctx, &q, variables); err != nil {
			return nil, false, fmt.Errorf("failed to search updated PRs: %w", err)
		}
		for _, node := range q.Search.Nodes {
			pr := node.PullRequest
			if pr.Repository.Name == "" {
				continue
			}
			rec := domain.ReviewedPR{Repository: pr.Repository.Name}
			for _, review := range pr.Reviews.Nodes {
				r := domain.ReviewRecord{
					CreatedAt:    review.CreatedAt.Time,
					CommentCount: review.Comments.TotalCount,
				}
				if review.Author != nil {
					r.Author = review.Author.Login
				}
				rec.Reviews = append(rec.Reviews, r)
			}
			records = append(records, rec)
		}
		if !q.Search.PageInfo.HasNextPage {
			return records, false, nil
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		if len(records) >= maxSearchResults {
			return records, true, nil
		}
		g.logger.Println("  Fetching next page of updated pull requests...")
	}
}

// searchQuery builds the org-wide Search API query string with a timestamp
// range qualifier (created: or updated:). GitHub treats the range as inclusive.
func searchQuery(org, field string, win domain.ReportWindow) string {
	return fmt.Sprintf("org:%s type:pr %s:%s..%s",
		org, field,
		win.Start.UTC().Format(githubTimeLayout),
		win.End.UTC().Format(githubTimeLayout))
}
