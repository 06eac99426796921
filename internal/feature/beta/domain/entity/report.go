package entity

import "time"

// Regression holds the fitted single-factor model on excess returns.
// Beta is the slope and Alpha (Jensen's Alpha) is the intercept.
type Regression struct {
	Beta         float64
	Alpha        float64
	RSquared     float64
	Observations int
}

// Metrics are the regression outputs rounded for display.
type Metrics struct {
	Beta     float64 `json:"beta"`
	Alpha    float64 `json:"alpha"`
	RSquared float64 `json:"r_squared"`
}

// Interpretation is the categorical reading of Beta and Alpha.
type Interpretation struct {
	BetaLabel     string `json:"beta_label"`
	AlphaLabel    string `json:"alpha_label"`
	BetaSentence  string `json:"beta_sentence"`
	AlphaSentence string `json:"alpha_sentence"`
}

// ReturnSummary describes the raw return distribution of one instrument.
type ReturnSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary groups descriptive statistics for both instruments.
type Summary struct {
	Stock       ReturnSummary `json:"stock"`
	Market      ReturnSummary `json:"market"`
	Correlation float64       `json:"correlation"`
}

// ScatterPoint is a market excess return (X) against a stock excess return (Y).
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BarGroup is the pair of raw returns shown side by side for a date.
type BarGroup struct {
	Date   string  `json:"date"`
	Stock  float64 `json:"stock"`
	Market float64 `json:"market"`
}

// Chart carries everything a client needs to draw the scatter and bar charts.
type Chart struct {
	ScatterTitle string          `json:"scatter_title"`
	XAxisTitle   string          `json:"x_axis_title"`
	YAxisTitle   string          `json:"y_axis_title"`
	Scatter      []ScatterPoint  `json:"scatter"`
	Trendline    [2]ScatterPoint `json:"trendline"`
	BarTitle     string          `json:"bar_title"`
	Bars         []BarGroup      `json:"bars"`
}

// Report is the full result of one Beta/Alpha computation.
type Report struct {
	Symbol         string
	Index          string
	Ticker         string
	Start          time.Time
	End            time.Time
	RiskFreeRate   float64
	PeriodicRate   float64
	Regression     Regression
	Metrics        Metrics
	Interpretation Interpretation
	Summary        Summary
	Chart          Chart
	Pairs          []ReturnPair
}
