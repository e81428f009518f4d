package model

import "time"

// FieldSource tags how a snapshot field was obtained.
type FieldSource string

const (
	SourceLive     FieldSource = "live"
	SourceFallback FieldSource = "fallback"
)

// MacroEvent is a scheduled high-impact macro event.
type MacroEvent struct {
	Name       string    `json:"name"`
	Time       time.Time `json:"time"`
	Importance int       `json:"importance"`
}

// MetricsSnapshot holds all market metrics from one polling cycle.
// Produced fresh each tick; fields that could not be fetched carry a
// documented fallback value and a SourceFallback tag.
type MetricsSnapshot struct {
	BTCDominance      float64      `json:"btc_dominance"`    // percent, 0-100
	AltMarketCap      float64      `json:"alt_market_cap"`   // USD
	AltSeasonIndex    float64      `json:"alt_season_index"` // 0-100
	BTCFundingRate    float64      `json:"btc_funding_rate"` // percent per 8h
	BTCOpenInterest   float64      `json:"btc_open_interest"`
	HypeFundingRate   float64      `json:"hype_funding_rate"` // percent per 8h
	StablecoinDelta7d float64      `json:"stablecoin_delta_7d"`
	MacroEvents       []MacroEvent `json:"macro_events"`
	FundingSymbol     string       `json:"funding_symbol"`
	FetchedAt         time.Time    `json:"fetched_at"`

	Sources map[string]FieldSource `json:"sources"`
}
