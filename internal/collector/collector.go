package collector

import (
	"context"
	"log"
	"time"

	"CryptoBuckets/internal/model"
)

// Fallback values substituted when a source is unavailable. The dashboard
// must keep producing an advisory signal through partial outages of its
// free, unauthenticated upstreams.
const (
	FallbackBTCDominance    = 58.5
	FallbackAltMarketCap    = 850_000_000_000
	FallbackAltSeasonIndex  = 45.2
	FallbackBTCFunding      = 0.08
	FallbackOpenInterest    = 25_000_000_000
	FallbackHypeFunding     = 0.05
	FallbackStablecoinDelta = 2_500_000_000
)

// fallbackMacroLead places the mock calendar event far enough out that it
// renders as upcoming without entering the macro_pause window.
const fallbackMacroLead = 7 * 24 * time.Hour

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BTCDominance    float64
	AltMarketCap    float64
	AltSeasonIndex  float64
	BTCFunding      float64
	OpenInterest    float64
	HypeFunding     float64
	StablecoinDelta float64
	Macro           []model.MacroEvent

	// Fail injects a per-family error, keyed by snapshot field name.
	Fail map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchGlobalMarket(_ context.Context) (float64, float64, error) {
	if err := m.Fail["btc_dominance"]; err != nil {
		return 0, 0, err
	}
	return m.BTCDominance, m.AltMarketCap, nil
}

func (m *MockFetcher) FetchAltSeasonIndex(_ context.Context) (float64, error) {
	if err := m.Fail["alt_season_index"]; err != nil {
		return 0, err
	}
	return m.AltSeasonIndex, nil
}

func (m *MockFetcher) FetchBTCFunding(_ context.Context) (float64, float64, error) {
	if err := m.Fail["btc_funding_rate"]; err != nil {
		return 0, 0, err
	}
	return m.BTCFunding, m.OpenInterest, nil
}

func (m *MockFetcher) FetchHypeFunding(_ context.Context) (float64, error) {
	if err := m.Fail["hype_funding_rate"]; err != nil {
		return 0, err
	}
	return m.HypeFunding, nil
}

func (m *MockFetcher) FetchStablecoinDelta(_ context.Context) (float64, error) {
	if err := m.Fail["stablecoin_delta_7d"]; err != nil {
		return 0, err
	}
	return m.StablecoinDelta, nil
}

func (m *MockFetcher) FetchMacroEvents(_ context.Context) ([]model.MacroEvent, error) {
	if err := m.Fail["macro_events"]; err != nil {
		return nil, err
	}
	return m.Macro, nil
}

// Collector merges the five sources into one snapshot, substituting the
// documented fallback for each family that fails and tagging every field
// with its source so the UI can show which path was taken.
type Collector struct {
	Fetcher       Fetcher
	FundingSymbol string
	FetchTimeout  time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, fundingSymbol string) *Collector {
	return &Collector{
		Fetcher:       fetcher,
		FundingSymbol: fundingSymbol,
		FetchTimeout:  10 * time.Second,
	}
}

// Collect fetches all metric families. It always returns a complete
// snapshot; per-family failures are logged and replaced by fallbacks.
func (c *Collector) Collect(ctx context.Context) model.MetricsSnapshot {
	snap := model.MetricsSnapshot{
		FundingSymbol: c.FundingSymbol,
		FetchedAt:     time.Now(),
		Sources:       make(map[string]model.FieldSource),
	}

	c.fetch(ctx, func(fctx context.Context) error {
		dom, altCap, err := c.Fetcher.FetchGlobalMarket(fctx)
		if err != nil {
			snap.BTCDominance = FallbackBTCDominance
			snap.AltMarketCap = FallbackAltMarketCap
			return err
		}
		snap.BTCDominance = dom
		snap.AltMarketCap = altCap
		return nil
	}, &snap, "btc_dominance")

	c.fetch(ctx, func(fctx context.Context) error {
		idx, err := c.Fetcher.FetchAltSeasonIndex(fctx)
		if err != nil {
			snap.AltSeasonIndex = FallbackAltSeasonIndex
			return err
		}
		snap.AltSeasonIndex = idx
		return nil
	}, &snap, "alt_season_index")

	c.fetch(ctx, func(fctx context.Context) error {
		rate, oi, err := c.Fetcher.FetchBTCFunding(fctx)
		if err != nil {
			snap.BTCFundingRate = FallbackBTCFunding
			snap.BTCOpenInterest = FallbackOpenInterest
			return err
		}
		snap.BTCFundingRate = rate
		snap.BTCOpenInterest = oi
		return nil
	}, &snap, "btc_funding_rate")

	c.fetch(ctx, func(fctx context.Context) error {
		rate, err := c.Fetcher.FetchHypeFunding(fctx)
		if err != nil {
			snap.HypeFundingRate = FallbackHypeFunding
			return err
		}
		snap.HypeFundingRate = rate
		return nil
	}, &snap, "hype_funding_rate")

	c.fetch(ctx, func(fctx context.Context) error {
		delta, err := c.Fetcher.FetchStablecoinDelta(fctx)
		if err != nil {
			snap.StablecoinDelta7d = FallbackStablecoinDelta
			return err
		}
		snap.StablecoinDelta7d = delta
		return nil
	}, &snap, "stablecoin_delta_7d")

	c.fetch(ctx, func(fctx context.Context) error {
		events, err := c.Fetcher.FetchMacroEvents(fctx)
		if err != nil {
			snap.MacroEvents = []model.MacroEvent{{
				Name:       "Fed Meeting",
				Time:       snap.FetchedAt.Add(fallbackMacroLead),
				Importance: 3,
			}}
			return err
		}
		snap.MacroEvents = events
		return nil
	}, &snap, "macro_events")

	return snap
}

// fetch runs one family under its own timeout and records the source tag.
func (c *Collector) fetch(ctx context.Context, fn func(context.Context) error, snap *model.MetricsSnapshot, field string) {
	fctx, cancel := context.WithTimeout(ctx, c.FetchTimeout)
	defer cancel()

	if err := fn(fctx); err != nil {
		log.Printf("[WARN] %s fetch failed: %v, using fallback", field, err)
		snap.Sources[field] = model.SourceFallback
		return
	}
	snap.Sources[field] = model.SourceLive
}
