// Package twelvedata provides a price fetcher backed by the Twelve Data REST API.
package twelvedata

import "time"

// DefaultBaseURL is the public Twelve Data endpoint.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://api.twelvedata.com")
	Timeout time.Duration // HTTP request timeout
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}
