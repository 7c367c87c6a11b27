// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/spyglass-cli/spyglass/internal/domain"
	"github.com/spyglass-cli/spyglass/internal/gateway"
)

// ResultWindowCap is the largest total_count the GitHub search API reports
// accurately for a single query. At or beyond this value the reported count
// plateaus and the date range must be split to recover an exact count.
const ResultWindowCap = 1000

// TopicTerm renders one topic as a search term.
func TopicTerm(topic string) string {
	return "topic:" + topic
}

// KeywordTerm renders one keyword as a search term matching name,
// description and readme.
func KeywordTerm(keyword string) string {
	return keyword + " in:name,description,readme"
}

// Terms expands topics and keywords into the ordered list of search terms.
func Terms(topics, keywords []string) []string {
	terms := make([]string, 0, len(topics)+len(keywords))
	for _, t := range topics {
		terms = append(terms, TopicTerm(t))
	}
	for _, k := range keywords {
		terms = append(terms, KeywordTerm(k))
	}
	return terms
}

// BuildQuery composes topics and keywords into a single search-query
// fragment. A single term is returned unmodified; multiple terms are joined
// with " OR " and wrapped in parentheses. Both inputs empty yields the empty
// string, which the caller must treat as a usage error.
func BuildQuery(topics, keywords []string) string {
	terms := Terms(topics, keywords)
	switch len(terms) {
	case 0:
		return ""
	case 1:
		return terms[0]
	default:
		return "(" + strings.Join(terms, " OR ") + ")"
	}
}

// Counter is the use case for counting repositories over a date range.
// It orchestrates the range-splitting queries against the gateway.
type Counter struct {
	searcher gateway.Searcher
	logger   *log.Logger
	sleep    time.Duration
}

// NewCounter creates a new Counter instance. sleep is an optional pause
// inserted between independent top-level queries as rate-limit courtesy;
// it never applies inside a recursive split.
func NewCounter(searcher gateway.Searcher, logger *log.Logger, sleep time.Duration) *Counter {
	return &Counter{
		searcher: searcher,
		logger:   logger,
		sleep:    sleep,
	}
}

// CountRange counts repositories matching queryBase created within r.
//
// With exact false the reported total_count is returned verbatim, which may
// be an undercount once it hits the result window cap; that is an accepted
// approximation. With exact true a capped count triggers a bisection of the
// range, summing the exact counts of both halves. Single-day ranges are
// never split. Each invocation issues exactly one remote call, excluding
// recursive children, and recursion is depth-first: the left half fully
// resolves before the right half is attempted.
func (c *Counter) CountRange(ctx context.Context, queryBase string, r domain.DateRange, exact bool) (int, error) {
	query := r.Clause()
	if queryBase != "" {
		query = queryBase + " " + query
	}
	total, err := c.searcher.CountRepositories(ctx, query)
	if err != nil {
		return 0, err
	}
	if !exact || total < ResultWindowCap || r.SingleDay() {
		return total, nil
	}

	c.logger.Printf("Count %d hit the %d-result window for %s, splitting\n", total, ResultWindowCap, r.Clause())
	left, right, ok := r.Split()
	leftCount, err := c.CountRange(ctx, queryBase, left, exact)
	if err != nil {
		return 0, err
	}
	if !ok {
		// The right half would start past the range end, so the split made
		// no progress. Returning the left half alone terminates the
		// recursion at the cost of a known, accepted undercount.
		return leftCount, nil
	}
	rightCount, err := c.CountRange(ctx, queryBase, right, exact)
	if err != nil {
		return 0, err
	}
	return leftCount + rightCount, nil
}

// CountTerms counts each term independently over r and returns the per-term
// results together with their sum. Terms are queried sequentially, with the
// configured sleep between them.
func (c *Counter) CountTerms(ctx context.Context, terms []string, r domain.DateRange, exact bool) ([]domain.TermCount, int, error) {
	results := make([]domain.TermCount, 0, len(terms))
	total := 0
	for i, term := range terms {
		if i > 0 {
			c.pause()
		}
		count, err := c.CountRange(ctx, term, r, exact)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, domain.TermCount{Term: term, Count: count})
		total += count
	}
	return results, total, nil
}

// CountBuckets counts the query over each calendar bucket of r. unit is
// "year" or "month". Buckets are queried sequentially with the configured
// sleep between them.
func (c *Counter) CountBuckets(ctx context.Context, queryBase string, r domain.DateRange, exact bool, unit string) ([]domain.BucketCount, error) {
	buckets := r.Buckets(unit)
	results := make([]domain.BucketCount, 0, len(buckets))
	for i, bucket := range buckets {
		if i > 0 {
			c.pause()
		}
		count, err := c.CountRange(ctx, queryBase, bucket, exact)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.BucketCount{Label: bucket.Label(unit), Count: count})
	}
	return results, nil
}

// AttachTopRepositories fills in the most starred repository for each term
// result. Unlike counting, these are independent read-only lookups, so they
// fan out concurrently.
func (c *Counter) AttachTopRepositories(ctx context.Context, r domain.DateRange, results []domain.TermCount) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		eg.Go(func() error {
			query := fmt.Sprintf("%s %s sort:stars-desc", results[i].Term, r.Clause())
			repo, err := c.searcher.FetchTopRepository(egCtx, query)
			if err != nil {
				return err
			}
			results[i].TopRepo = repo
			return nil
		})
	}
	return eg.Wait()
}

// Summarize computes descriptive statistics over a set of counts.
// Returns nil for an empty input.
func Summarize(counts []int) *domain.Summary {
	if len(counts) == 0 {
		return nil
	}
	data := stats.LoadRawData(counts)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	max, _ := stats.Max(data)
	return &domain.Summary{Mean: mean, Median: median, Max: max}
}

func (c *Counter) pause() {
	if c.sleep > 0 {
		c.logger.Printf("Sleeping %s before next query\n", c.sleep)
		time.Sleep(c.sleep)
	}
}
