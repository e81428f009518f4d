package collector

import (
	"context"

	"CryptoBuckets/internal/model"
)

// Fetcher defines the interface for pulling raw metric families from their
// upstream sources. Each method is independent; a failure in one family
// never affects the others.
type Fetcher interface {
	FetchGlobalMarket(ctx context.Context) (btcDominance, altMarketCap float64, err error)
	FetchAltSeasonIndex(ctx context.Context) (float64, error)
	FetchBTCFunding(ctx context.Context) (fundingRate, openInterest float64, err error)
	FetchHypeFunding(ctx context.Context) (float64, error)
	FetchStablecoinDelta(ctx context.Context) (float64, error)
	FetchMacroEvents(ctx context.Context) ([]model.MacroEvent, error)
	Name() string
}
