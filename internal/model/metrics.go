package model

import "time"

// ReferenceHigh is the trailing-window high and the day it was set.
type ReferenceHigh struct {
	Value      float64
	AchievedOn time.Time
}

// LiveQuote compares the latest close against the previous one.
type LiveQuote struct {
	Current   float64
	Previous  float64
	Change    float64
	ChangePct float64
}

// IndexMetric is the per-symbol record handed to the renderer. When HasData
// is false all numeric fields are zero and ReferenceDate holds the "N/A"
// sentinel.
type IndexMetric struct {
	Label         string  `json:"label"`
	Symbol        string  `json:"symbol"`
	Current       float64 `json:"current_value"`
	ReferenceHigh float64 `json:"reference_value"`
	ReferenceDate string  `json:"reference_date"`
	GapPercent    float64 `json:"gap_percent"`
	Change        float64 `json:"change"`
	ChangePct     float64 `json:"change_pct"`
	Up            bool    `json:"up"`
	HasData       bool    `json:"has_data"`
}

// Snapshot is one tick's complete output. It is immutable once published;
// the next tick replaces it wholesale.
type Snapshot struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	Indices      []IndexMetric  `json:"indices"`
	Volatility   float64        `json:"volatility"`
	VolatilityOK bool           `json:"volatility_ok"`
	Sentiment    SentimentScore `json:"sentiment"`
}
