package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spyglass-cli/spyglass/internal/apperrors"
)

func TestParseRange(t *testing.T) {
	testCases := []struct {
		name        string
		start       string
		end         string
		expectedErr error
	}{
		{name: "valid range", start: "2020-01-01", end: "2020-12-31"},
		{name: "single day", start: "2020-06-15", end: "2020-06-15"},
		{name: "malformed start", start: "01/01/2020", end: "2020-12-31", expectedErr: apperrors.ErrInvalidDate},
		{name: "malformed end", start: "2020-01-01", end: "yesterday", expectedErr: apperrors.ErrInvalidDate},
		{name: "start after end", start: "2021-01-01", end: "2020-12-31", expectedErr: apperrors.ErrInvertedRange},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRange(tc.start, tc.end)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.start, r.Start.Format(DateLayout))
			assert.Equal(t, tc.end, r.End.Format(DateLayout))
			// Start opens the first day, End closes the last one.
			assert.Equal(t, 0, r.Start.Hour())
			assert.Equal(t, 23, r.End.Hour())
			assert.Equal(t, 59, r.End.Second())
		})
	}
}

func TestDateRange_Clause(t *testing.T) {
	r, err := ParseRange("2020-01-01", "2020-12-31")
	require.NoError(t, err)
	assert.Equal(t, "created:2020-01-01..2020-12-31", r.Clause())
}

func TestDateRange_SingleDay(t *testing.T) {
	single, err := ParseRange("2020-06-15", "2020-06-15")
	require.NoError(t, err)
	assert.True(t, single.SingleDay())

	multi, err := ParseRange("2020-06-15", "2020-06-16")
	require.NoError(t, err)
	assert.False(t, multi.SingleDay())
}

func TestDateRange_Split(t *testing.T) {
	testCases := []struct {
		name          string
		start, end    string
		expectedLeft  string
		expectedRight string
	}{
		{
			name:  "two days split into one each",
			start: "2020-01-01", end: "2020-01-02",
			expectedLeft:  "created:2020-01-01..2020-01-01",
			expectedRight: "created:2020-01-02..2020-01-02",
		},
		{
			name:  "odd day count leans left",
			start: "2020-01-01", end: "2020-01-03",
			expectedLeft:  "created:2020-01-01..2020-01-02",
			expectedRight: "created:2020-01-03..2020-01-03",
		},
		{
			name:  "full year splits mid-year",
			start: "2020-01-01", end: "2020-12-31",
			expectedLeft:  "created:2020-01-01..2020-07-01",
			expectedRight: "created:2020-07-02..2020-12-31",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseRange(tc.start, tc.end)
			require.NoError(t, err)

			left, right, ok := r.Split()
			require.True(t, ok)
			assert.Equal(t, tc.expectedLeft, left.Clause())
			assert.Equal(t, tc.expectedRight, right.Clause())

			// The right half starts exactly one second after the left ends:
			// the next midnight, so no calendar date sits on both sides.
			assert.Equal(t, left.End.Add(time.Second), right.Start)
			assert.NotEqual(t, left.End.Format(DateLayout), right.Start.Format(DateLayout))
		})
	}
}

func TestDateRange_Buckets(t *testing.T) {
	r, err := ParseRange("2020-11-15", "2021-02-10")
	require.NoError(t, err)

	t.Run("by month", func(t *testing.T) {
		buckets := r.Buckets("month")
		clauses := make([]string, len(buckets))
		labels := make([]string, len(buckets))
		for i, b := range buckets {
			clauses[i] = b.Clause()
			labels[i] = b.Label("month")
		}
		assert.Equal(t, []string{
			"created:2020-11-15..2020-11-30",
			"created:2020-12-01..2020-12-31",
			"created:2021-01-01..2021-01-31",
			"created:2021-02-01..2021-02-10",
		}, clauses)
		assert.Equal(t, []string{"2020-11", "2020-12", "2021-01", "2021-02"}, labels)
	})

	t.Run("by year", func(t *testing.T) {
		buckets := r.Buckets("year")
		require.Len(t, buckets, 2)
		assert.Equal(t, "created:2020-11-15..2020-12-31", buckets[0].Clause())
		assert.Equal(t, "created:2021-01-01..2021-02-10", buckets[1].Clause())
		assert.Equal(t, "2020", buckets[0].Label("year"))
		assert.Equal(t, "2021", buckets[1].Label("year"))
	})
}
