package collector

import (
	"context"
	"fmt"
	"strconv"
)

type hyperliquidFunding struct {
	FundingRate string `json:"fundingRate"`
}

// FetchHypeFunding returns the HYPE perp funding rate (percent per 8h) from
// the Hyperliquid info endpoint.
func (f *HTTPFetcher) FetchHypeFunding(ctx context.Context) (float64, error) {
	payload := map[string]string{"type": "perpFundingRates", "symbol": "HYPE"}
	var rates []hyperliquidFunding
	if err := f.postJSON(ctx, f.Endpoints.Hyperliquid+"/info", payload, &rates); err != nil {
		return 0, fmt.Errorf("hyperliquid funding: %w", err)
	}
	if len(rates) == 0 {
		return 0, fmt.Errorf("hyperliquid funding: empty response")
	}
	rate, err := strconv.ParseFloat(rates[0].FundingRate, 64)
	if err != nil {
		return 0, fmt.Errorf("hyperliquid funding: parse rate: %w", err)
	}
	return rate * 100, nil
}
