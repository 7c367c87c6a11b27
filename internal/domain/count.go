// Package domain contains the core data structures and domain logic for the
// application.
package domain

import (
	"fmt"
	"time"

	"github.com/spyglass-cli/spyglass/internal/apperrors"
)

// DateLayout is the calendar-date format the GitHub search syntax expects.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates, held as UTC timestamps:
// Start at 00:00:00 of its date, End at 23:59:59 of its date. The time of day
// carries no meaning beyond letting the next sub-range's boundary advance by
// one second without overlapping the previous one.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange builds a DateRange from two YYYY-MM-DD strings.
// Returns apperrors.ErrInvalidDate or apperrors.ErrInvertedRange on bad input.
func ParseRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, end)
	}
	if s.After(e) {
		return DateRange{}, apperrors.ErrInvertedRange
	}
	return DateRange{Start: s, End: endOfDay(e)}, nil
}

// Clause renders the range as a GitHub search qualifier,
// e.g. "created:2020-01-01..2020-12-31".
func (r DateRange) Clause() string {
	return fmt.Sprintf("created:%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// SingleDay reports whether both endpoints fall on the same calendar date,
// in which case the range cannot be split any further.
func (r DateRange) SingleDay() bool {
	return r.Start.Format(DateLayout) == r.End.Format(DateLayout)
}

// Split bisects the range at the end of the calendar date its duration
// midpoint falls on. The right half starts one second later, which is the
// next midnight, so the two halves partition the range's dates with no date
// appearing on both sides. ok is false when the split makes no progress
// (right would start past End); callers must then settle for the left half.
func (r DateRange) Split() (left, right DateRange, ok bool) {
	mid := endOfDay(r.Start.Add(r.End.Sub(r.Start) / 2))
	left = DateRange{Start: r.Start, End: mid}
	rightStart := mid.Add(time.Second)
	if rightStart.After(r.End) {
		return left, DateRange{}, false
	}
	return left, DateRange{Start: rightStart, End: r.End}, true
}

// Buckets slices the range into calendar buckets of the given unit
// ("year" or "month"), each clipped to the range's endpoints.
func (r DateRange) Buckets(unit string) []DateRange {
	var buckets []DateRange
	cur := r.Start
	for !cur.After(r.End) {
		var next time.Time
		y, m, _ := cur.Date()
		switch unit {
		case "month":
			next = time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
		default: // year
			next = time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		end := next.Add(-time.Second)
		if end.After(r.End) {
			end = r.End
		}
		buckets = append(buckets, DateRange{Start: cur, End: end})
		cur = next
	}
	return buckets
}

// Label names a bucket for output: "2020" for year buckets,
// "2020-03" for month buckets.
func (r DateRange) Label(unit string) string {
	if unit == "month" {
		return r.Start.Format("2006-01")
	}
	return r.Start.Format("2006")
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// RepoSummary identifies the most starred repository matching a term.
type RepoSummary struct {
	NameWithOwner string `json:"name_with_owner"`
	Stars         int    `json:"stars"`
	Description   string `json:"description,omitempty"`
}

// TermCount holds the repository count for a single search term.
// It is the core domain entity of this application.
type TermCount struct {
	Term    string       `json:"term"`
	Count   int          `json:"count"`
	TopRepo *RepoSummary `json:"top_repo,omitempty"`
}

// BucketCount holds the repository count for one calendar bucket of the
// overall range.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary carries descriptive statistics over a set of counts.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Report is the full result of one invocation, shaped for JSON output.
type Report struct {
	Query   string        `json:"query,omitempty"`
	Range   string        `json:"range"`
	Exact   bool          `json:"exact"`
	Terms   []TermCount   `json:"terms,omitempty"`
	Buckets []BucketCount `json:"buckets,omitempty"`
	Summary *Summary      `json:"summary,omitempty"`
	Total   int           `json:"total"`
}
