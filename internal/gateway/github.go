// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/spyglass-cli/spyglass/internal/domain"
)

// Searcher defines the behavior of a gateway for querying GitHub's
// repository search.
type Searcher interface {
	// CountRepositories returns the total_count reported for the query.
	// The value is accurate only up to the search API's 1000-result window;
	// beyond that it plateaus, which callers must work around.
	CountRepositories(ctx context.Context, query string) (int, error)
	// FetchTopRepository returns the most starred repository matching the
	// query, or nil when nothing matches.
	FetchTopRepository(ctx context.Context, query string) (*domain.RepoSummary, error)
}

// GitHubGateway is the concrete implementation of the Searcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// topRepositoryQuery fetches the single best-starred repository for a query.
type topRepositoryQuery struct {
	Search struct {
		Edges []struct {
			Node struct {
				Typename   string `graphql:"__typename"`
				Repository struct {
					NameWithOwner  string
					StargazerCount int
					Description    string
				} `graphql:"... on Repository"`
			}
		}
	} `graphql:"search(query: $query, type: REPOSITORY, first: 1)"`
}

// NewGitHubGateway is a constructor that creates a new instance of
// GitHubGateway. An empty token yields an unauthenticated client, which runs
// at GitHub's lower anonymous rate limit. Non-default endpoint URLs point the
// clients at a GitHub Enterprise deployment.
func NewGitHubGateway(token, apiEndpoint, graphqlEndpoint string, logger *log.Logger) (Searcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	httpClient := &http.Client{Transport: transport}

	restClient := github.NewClient(httpClient)
	if apiEndpoint != "" && apiEndpoint != "https://api.github.com" {
		restClient, err = restClient.WithEnterpriseURLs(apiEndpoint, apiEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to configure API endpoint: %w", err)
		}
	}

	var graphqlClient *githubv4.Client
	if graphqlEndpoint != "" && graphqlEndpoint != "https://api.github.com/graphql" {
		graphqlClient = githubv4.NewEnterpriseClient(graphqlEndpoint, httpClient)
	} else {
		graphqlClient = githubv4.NewClient(httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// CountRepositories issues one repository-search call and returns its
// total_count. per_page is pinned to 1 since only the count is consumed.
func (g *GitHubGateway) CountRepositories(ctx context.Context, query string) (int, error) {
	g.logger.Printf("Counting repositories for query: %s\n", query)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.restClient.Search.Repositories(ctx, query, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to search repositories: %w", err)
	}
	// GetTotal yields 0 when the field is absent from the response.
	return result.GetTotal(), nil
}

// FetchTopRepository returns the most starred repository matching the query
// via the GraphQL search API.
func (g *GitHubGateway) FetchTopRepository(ctx context.Context, query string) (*domain.RepoSummary, error) {
	g.logger.Printf("Fetching top repository for query: %s\n", query)
	variables := map[string]interface{}{"query": githubv4.String(query)}
	var q topRepositoryQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for top repository: %w", err)
	}
	for _, edge := range q.Search.Edges {
		if edge.Node.Typename != "Repository" {
			continue
		}
		repo := edge.Node.Repository
		return &domain.RepoSummary{
			NameWithOwner: repo.NameWithOwner,
			Stars:         repo.StargazerCount,
			Description:   repo.Description,
		}, nil
	}
	return nil, nil
}
