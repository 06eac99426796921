// Package entity defines the domain models for the markets feature.
package entity

// MarketIndex is a benchmark index a stock can be regressed against.
// Name is the display name and Ticker is the provider-specific symbol.
type MarketIndex struct {
	Name   string
	Ticker string
}
