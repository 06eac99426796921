// Package dto defines data transfer objects for the markets HTTP API.
package dto

// IndexItem represents a market index in the API response.
type IndexItem struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}
