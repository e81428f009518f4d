package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Endpoints configures the upstream base URLs and API keys.
type Endpoints struct {
	CoinGecko      string
	AltSeason      string
	Binance        string
	Hyperliquid    string
	DefiLlama      string
	TradingEcon    string
	Finnhub        string
	TradingEconKey string
	FinnhubKey     string
}

// HTTPFetcher implements Fetcher against the public REST APIs.
type HTTPFetcher struct {
	Endpoints Endpoints
	Client    *http.Client
}

// NewHTTPFetcher creates a fetcher with optional proxy support.
func NewHTTPFetcher(eps Endpoints, proxyURL string) *HTTPFetcher {
	if eps.TradingEcon == "" {
		eps.TradingEcon = "https://api.tradingeconomics.com"
	}
	if eps.Finnhub == "" {
		eps.Finnhub = "https://finnhub.io"
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		Endpoints: eps,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

const maxAttempts = 3

// do performs a request with retries and exponential backoff.
func (f *HTTPFetcher) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := f.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("status %d, body: %s", resp.StatusCode, string(data))
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("%d attempts failed: %w", maxAttempts, lastErr)
}

func (f *HTTPFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	data, err := f.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *HTTPFetcher) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := f.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *HTTPFetcher) getText(ctx context.Context, endpoint string) (string, error) {
	data, err := f.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
