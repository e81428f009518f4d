package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CryptoBuckets/internal/model"
)

func TestCollect_AllLive(t *testing.T) {
	mock := &MockFetcher{
		BTCDominance:    55,
		AltMarketCap:    900e9,
		AltSeasonIndex:  80,
		BTCFunding:      0.05,
		OpenInterest:    20e9,
		HypeFunding:     0.01,
		StablecoinDelta: 1.5e9,
		Macro:           []model.MacroEvent{{Name: "CPI", Time: time.Now().Add(48 * time.Hour), Importance: 3}},
	}
	snap := NewCollector(mock, "BTC").Collect(context.Background())

	if snap.BTCDominance != 55 || snap.AltSeasonIndex != 80 {
		t.Errorf("live values lost: dom=%v idx=%v", snap.BTCDominance, snap.AltSeasonIndex)
	}
	if snap.FundingSymbol != "BTC" {
		t.Errorf("funding symbol lost: %s", snap.FundingSymbol)
	}
	for field, src := range snap.Sources {
		if src != model.SourceLive {
			t.Errorf("field %s tagged %s, expected live", field, src)
		}
	}
	if len(snap.Sources) != 6 {
		t.Errorf("expected 6 tagged fields, got %d", len(snap.Sources))
	}
}

func TestCollect_PartialFailureUsesFallbacks(t *testing.T) {
	mock := &MockFetcher{
		BTCDominance:   62,
		AltSeasonIndex: 30,
		Fail: map[string]error{
			"btc_funding_rate":    errors.New("binance down"),
			"stablecoin_delta_7d": errors.New("llama down"),
			"macro_events":        errors.New("no calendar"),
		},
	}
	snap := NewCollector(mock, "BTC").Collect(context.Background())

	if snap.BTCDominance != 62 {
		t.Errorf("live dominance lost: %v", snap.BTCDominance)
	}
	if snap.BTCFundingRate != FallbackBTCFunding {
		t.Errorf("expected funding fallback %v, got %v", FallbackBTCFunding, snap.BTCFundingRate)
	}
	if snap.StablecoinDelta7d != FallbackStablecoinDelta {
		t.Errorf("expected stablecoin fallback, got %v", snap.StablecoinDelta7d)
	}
	if snap.Sources["btc_funding_rate"] != model.SourceFallback {
		t.Error("failed field must be tagged fallback")
	}
	if snap.Sources["btc_dominance"] != model.SourceLive {
		t.Error("live field must stay tagged live")
	}
	if len(snap.MacroEvents) != 1 || snap.MacroEvents[0].Name != "Fed Meeting" {
		t.Errorf("expected mock macro event, got %v", snap.MacroEvents)
	}
	// The mock event must stay outside the macro trigger window.
	if snap.MacroEvents[0].Time.Sub(snap.FetchedAt) <= 12*time.Hour {
		t.Error("mock macro event must not sit inside the trigger window")
	}
}

func TestHTTPFetcher_GlobalMarket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/global" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data":{"market_cap_percentage":{"btc":57.5,"eth":17.2},"total_market_cap":{"usd":2000000000000}}}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{CoinGecko: srv.URL}, "")
	dom, altCap, err := f.FetchGlobalMarket(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if dom != 57.5 {
		t.Errorf("expected dominance 57.5, got %v", dom)
	}
	want := 2000000000000 * (1 - 57.5/100)
	if altCap != want {
		t.Errorf("expected alt cap %v, got %v", want, altCap)
	}
}

func TestHTTPFetcher_AltSeasonCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("date,value\n2026-08-28,62.0\n2026-08-29,71.5\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{AltSeason: srv.URL}, "")
	idx, err := f.FetchAltSeasonIndex(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx != 71.5 {
		t.Errorf("expected latest row value 71.5, got %v", idx)
	}
}

func TestHTTPFetcher_AltSeasonUnknownColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("day,reading\n2026-08-29,44\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{AltSeason: srv.URL}, "")
	idx, err := f.FetchAltSeasonIndex(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if idx != 44 {
		t.Errorf("expected first numeric cell 44, got %v", idx)
	}
}

func TestHTTPFetcher_BinanceFunding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fapi/v1/fundingRate":
			w.Write([]byte(`[{"fundingRate":"0.00050","fundingTime":1},{"fundingRate":"0.00120","fundingTime":2}]`))
		case "/fapi/v1/openInterest":
			w.Write([]byte(`{"openInterest":"85000.5"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{Binance: srv.URL}, "")
	rate, oi, err := f.FetchBTCFunding(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rate != 0.12 {
		t.Errorf("expected newest rate as percent 0.12, got %v", rate)
	}
	if oi != 85000.5 {
		t.Errorf("expected open interest 85000.5, got %v", oi)
	}
}

func TestHTTPFetcher_HyperliquidFunding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/info" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"fundingRate":"0.0008"}]`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{Hyperliquid: srv.URL}, "")
	rate, err := f.FetchHypeFunding(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rate != 0.08 {
		t.Errorf("expected 0.08, got %v", rate)
	}
}

func TestHTTPFetcher_StablecoinDelta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"peggedAssets":[
			{"circulating":{"peggedUSD":100000000000},"price":1.0},
			{"circulating":{"peggedUSD":50000000000}},
			{"mcap":10000000000}
		]}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{DefiLlama: srv.URL}, "")
	delta, err := f.FetchStablecoinDelta(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := 160000000000 * weeklyChangeEstimate
	if delta != want {
		t.Errorf("expected %v, got %v", want, delta)
	}
}

func TestHTTPFetcher_MacroEventsNoKeys(t *testing.T) {
	f := NewHTTPFetcher(Endpoints{}, "")
	if _, err := f.FetchMacroEvents(context.Background()); err == nil {
		t.Error("expected error when no calendar source is configured")
	}
}

func TestHTTPFetcher_MacroEventsFinnhub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"economicCalendar":[
			{"event":"NFP","date":"2026-09-04","importance":3},
			{"event":"Minor","date":"2026-09-05","importance":1}
		]}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Endpoints{Finnhub: srv.URL, FinnhubKey: "k"}, "")
	events, err := f.FetchMacroEvents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Name != "NFP" {
		t.Errorf("expected only the high-importance event, got %v", events)
	}
}
