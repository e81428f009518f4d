package collector

import (
	"context"
	"fmt"
	"strconv"
)

type binanceFundingEntry struct {
	FundingRate string `json:"fundingRate"`
	FundingTime int64  `json:"fundingTime"`
}

type binanceOpenInterest struct {
	OpenInterest string `json:"openInterest"`
}

// FetchBTCFunding returns the latest BTCUSDT perp funding rate (percent per
// 8h) and open interest from Binance futures.
func (f *HTTPFetcher) FetchBTCFunding(ctx context.Context) (float64, float64, error) {
	var history []binanceFundingEntry
	if err := f.getJSON(ctx, f.Endpoints.Binance+"/fapi/v1/fundingRate?symbol=BTCUSDT", &history); err != nil {
		return 0, 0, fmt.Errorf("binance funding: %w", err)
	}
	if len(history) == 0 {
		return 0, 0, fmt.Errorf("binance funding: empty history")
	}
	rate, err := strconv.ParseFloat(history[len(history)-1].FundingRate, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("binance funding: parse rate: %w", err)
	}

	var oi binanceOpenInterest
	if err := f.getJSON(ctx, f.Endpoints.Binance+"/fapi/v1/openInterest?symbol=BTCUSDT", &oi); err != nil {
		return 0, 0, fmt.Errorf("binance open interest: %w", err)
	}
	openInterest, err := strconv.ParseFloat(oi.OpenInterest, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("binance open interest: parse: %w", err)
	}

	// Binance reports the rate as a fraction; convert to percent.
	return rate * 100, openInterest, nil
}
