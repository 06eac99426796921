// Package entity defines the domain models for the beta feature.
package entity

import "time"

// PricePoint is one adjusted closing price of an instrument on a trading day.
type PricePoint struct {
	Date     time.Time `json:"date"`      // Trading day (UTC midnight)
	AdjClose float64   `json:"adj_close"` // Adjusted closing price
}

// ReturnPoint is the percentage change between two consecutive PricePoints.
type ReturnPoint struct {
	Date time.Time // Date of the later price
	Pct  float64   // Percentage change, e.g. 1.5 means +1.5%
}

// ReturnPair is a stock return and a market return observed on the same date.
type ReturnPair struct {
	Date   time.Time
	Stock  float64
	Market float64
}
