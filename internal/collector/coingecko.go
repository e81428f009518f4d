package collector

import (
	"context"
	"fmt"
)

// geckoGlobal is the shape of the CoinGecko /global response.
type geckoGlobal struct {
	Data struct {
		MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
		TotalMarketCap      map[string]float64 `json:"total_market_cap"`
	} `json:"data"`
}

// FetchGlobalMarket returns BTC dominance (percent) and the alt market cap
// (total cap minus the BTC share) from CoinGecko.
func (f *HTTPFetcher) FetchGlobalMarket(ctx context.Context) (float64, float64, error) {
	var g geckoGlobal
	if err := f.getJSON(ctx, f.Endpoints.CoinGecko+"/api/v3/global", &g); err != nil {
		return 0, 0, fmt.Errorf("coingecko global: %w", err)
	}
	dom, ok := g.Data.MarketCapPercentage["btc"]
	if !ok {
		return 0, 0, fmt.Errorf("coingecko global: btc dominance missing")
	}
	total, ok := g.Data.TotalMarketCap["usd"]
	if !ok {
		return 0, 0, fmt.Errorf("coingecko global: usd market cap missing")
	}
	altCap := total * (1 - dom/100)
	return dom, altCap, nil
}
