package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/pr-weekly-report/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) *GitHubGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	return &GitHubGateway{
		client: githubv4.NewEnterpriseClient(server.URL, server.Client()),
		logger: log.New(io.Discard, "", 0),
	}
}

func testWindow() domain.ReportWindow {
	return domain.ResolveWindow(time.Date(2025, 1, 8, 12, 0, 0, 0, domain.KST))
}

// prNodesJSON renders n created-PR search nodes as the flattened JSON the
// GraphQL client expects for inline fragments.
func prNodesJSON(page, n int) string {
	nodes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, fmt.Sprintf(
			`{"number":%d,"author":{"login":"user-%d"},"repository":{"name":"repo-%d"}}`,
			page*1000+i, i%7, i%5))
	}
	return strings.Join(nodes, ",")
}

func TestGitHubGateway_FetchCreatedPRs(t *testing.T) {
	t.Run("single page with a null author and a non-PR node", func(t *testing.T) {
		gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "org:acme type:pr created:")

			fmt.Fprint(w, `{"data":{"search":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[`+
				`{"number":7,"author":{"login":"alice"},"repository":{"name":"api"}},`+
				`{"number":8,"author":null,"repository":{"name":"api"}},`+
				`{}`+
				`]}}}`)
		}))

		records, truncated, err := gateway.FetchCreatedPRs(context.Background(), "acme", testWindow())

		assert.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, []domain.PullRequestRecord{
			{Number: 7, Author: "alice", Repository: "api"},
			{Number: 8, Author: "", Repository: "api"},
		}, records)
	})

	t.Run("follows the pagination cursor across pages", func(t *testing.T) {
		requests := 0
		gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			switch requests {
			case 1:
				assert.Contains(t, string(body), `"cursor":null`)
				fmt.Fprint(w, `{"data":{"search":{"pageInfo":{"hasNextPage":true,"endCursor":"cursor-1"},"nodes":[`+prNodesJSON(1, 2)+`]}}}`)
			case 2:
				assert.Contains(t, string(body), `"cursor":"cursor-1"`)
				fmt.Fprint(w, `{"data":{"search":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[`+prNodesJSON(2, 1)+`]}}}`)
			default:
				t.Errorf("unexpected request %d", requests)
			}
		}))

		records, truncated, err := gateway.FetchCreatedPRs(context.Background(), "acme", testWindow())

		assert.NoError(t, err)
		assert.False(t, truncated)
		assert.Len(t, records, 3)
		assert.Equal(t, 2, requests)
	})

	t.Run("stops at the 1000 record cap and flags truncation", func(t *testing.T) {
		requests := 0
		gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprintf(w, `{"data":{"search":{"pageInfo":{"hasNextPage":true,"endCursor":"cursor-%d"},"nodes":[%s]}}}`,
				requests, prNodesJSON(requests, 100))
		}))

		records, truncated, err := gateway.FetchCreatedPRs(context.Background(), "acme", testWindow())

		assert.NoError(t, err)
		assert.True(t, truncated)
		assert.Len(t, records, 1000)
		assert.Equal(t, 10, requests)
	})

	t.Run("a GraphQL error payload fails the fetch", func(t *testing.T) {
		gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":null,"errors":[{"message":"API rate limit exceeded"}]}`)
		}))

		records, _, err := gateway.FetchCreatedPRs(context.Background(), "acme", testWindow())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search created PRs")
		assert.Contains(t, err.Error(), "API rate limit exceeded")
		assert.Nil(t, records)
	})
}

func TestGitHubGateway_FetchReviewedPRs(t *testing.T) {
	t.Run("parses nested reviews including null authors", func(t *testing.T) {
		gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "org:acme type:pr updated:")

			fmt.Fprint(w, `{"data":{"search":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[`+
				`{"number":12,"repository":{"name":"api"},"reviews":{"nodes":[`+
				`{"author":{"login":"bob"},"createdAt":"2025-01-08T03:00:00Z","comments":{"totalCount":3}},`+
				`{"author":null,"createdAt":"2025-01-09T10:30:00Z","comments":{"totalCount":1}}`+
				`]}},`+
				`{"number":13,"repository":{"name":"web"},"reviews":{"nodes":[]}}`+
				`]}}}`)
		}))

		records, truncated, err := gateway.FetchReviewedPRs(context.Background(), "acme", testWindow())

		assert.NoError(t, err)
		assert.False(t, truncated)
		require.Len(t, records, 2)
		assert.Equal(t, "api", records[0].Repository)
		require.Len(t, records[0].Reviews, 2)
		assert.Equal(t, domain.ReviewRecord{
			Author:       "bob",
			CreatedAt:    time.Date(2025, 1, 8, 3, 0, 0, 0, time.UTC),
			CommentCount: 3,
		}, records[0].Reviews[0])
		assert.Equal(t, "", records[0].Reviews[1].Author)
		assert.Equal(t, "web", records[1].Repository)
		assert.Empty(t, records[1].Reviews)
	})

	t.Run("a GraphQL error payload fails the fetch", func(t *testing.T) {
		gateway := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":null,"errors":[{"message":"Something went wrong"}]}`)
		}))

		records, _, err := gateway.FetchReviewedPRs(context.Background(), "acme", testWindow())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search updated PRs")
		assert.Nil(t, records)
	})
}

func TestSearchQuery(t *testing.T) {
	// The test window runs 2025-01-03 16:00 KST through 2025-01-10 16:00 KST;
	// 16:00 KST is 07:00 UTC.
	q := searchQuery("acme", "created", testWindow())

	assert.Equal(t, "org:acme type:pr created:2025-01-03T07:00:00Z..2025-01-10T07:00:00Z", q)
}
