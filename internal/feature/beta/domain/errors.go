// Package domain defines domain-level errors for the beta feature.
package domain

import "errors"

// Domain errors for the Beta/Alpha computation.
// Upper layers collapse all of them into a single user-facing message.
var (
	// ErrInsufficientPrices indicates a price series with fewer than 2 points.
	ErrInsufficientPrices = errors.New("at least 2 prices are required")

	// ErrInvalidPrice indicates a non-positive price that cannot be used as a return base.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrNoOverlap indicates that stock and market returns share no dates.
	ErrNoOverlap = errors.New("stock and market returns share no common dates")

	// ErrInsufficientPairs indicates fewer than 2 aligned return pairs.
	ErrInsufficientPairs = errors.New("at least 2 aligned return pairs are required")

	// ErrZeroMarketVariance indicates constant excess market returns.
	ErrZeroMarketVariance = errors.New("market excess returns have zero variance")

	// ErrNoData indicates that the provider returned no prices for the range.
	ErrNoData = errors.New("no price data in range")

	// ErrInvalidDateRange indicates start is not before end.
	ErrInvalidDateRange = errors.New("start date must be before end date")

	// ErrInvalidRiskFreeRate indicates an annual rate outside [0, 20].
	ErrInvalidRiskFreeRate = errors.New("risk-free rate must be between 0 and 20")
)

// ErrorHint is shown to the user next to every failure message.
const ErrorHint = "Please check if the stock symbol is valid and try again."

// UserMessage converts any failure into the single user-facing message.
func UserMessage(err error) string {
	return "An error occurred: " + err.Error()
}
