// Package apperrors defines sentinel errors for consistent error handling
// across the application. Usage errors map to exit code 2 in the CLI so the
// tool stays scriptable.
package apperrors

import "errors"

var (
	// ErrInvalidDate indicates a date flag that does not parse as YYYY-MM-DD.
	// Maps to exit code 2.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvertedRange indicates a start date after the end date.
	// Maps to exit code 2.
	ErrInvertedRange = errors.New("start must be on or before end")

	// ErrNoSearchTerms indicates that neither topics nor keywords were given,
	// so no query can be built. Maps to exit code 2.
	ErrNoSearchTerms = errors.New("no topics or keywords provided")
)

// IsUsage reports whether err belongs to the usage-error class, i.e. a
// problem with the invocation itself rather than a remote failure.
func IsUsage(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvertedRange) ||
		errors.Is(err, ErrNoSearchTerms)
}
