package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"CryptoBuckets/internal/model"
)

const maxMacroEvents = 5

type calendarEvent struct {
	Event      string `json:"event"`
	Date       string `json:"date"`
	Importance int    `json:"importance"`
}

type finnhubCalendar struct {
	EconomicCalendar []calendarEvent `json:"economicCalendar"`
}

// FetchMacroEvents returns upcoming high-impact macro events. It tries
// TradingEconomics first, then Finnhub; with neither key configured the
// collector substitutes the documented mock event.
func (f *HTTPFetcher) FetchMacroEvents(ctx context.Context) ([]model.MacroEvent, error) {
	if f.Endpoints.TradingEconKey != "" {
		endpoint := fmt.Sprintf("%s/calendar?c=%s&importance=3",
			f.Endpoints.TradingEcon, url.QueryEscape(f.Endpoints.TradingEconKey))
		var events []calendarEvent
		if err := f.getJSON(ctx, endpoint, &events); err == nil {
			return convertCalendar(events, 0), nil
		}
	}

	if f.Endpoints.FinnhubKey != "" {
		endpoint := fmt.Sprintf("%s/api/v1/calendar/economic?token=%s",
			f.Endpoints.Finnhub, url.QueryEscape(f.Endpoints.FinnhubKey))
		var cal finnhubCalendar
		if err := f.getJSON(ctx, endpoint, &cal); err == nil {
			return convertCalendar(cal.EconomicCalendar, 3), nil
		}
	}

	return nil, fmt.Errorf("macro events: no calendar source available")
}

// convertCalendar parses calendar rows, dropping events below minImportance
// or with unparseable dates, capped at maxMacroEvents.
func convertCalendar(events []calendarEvent, minImportance int) []model.MacroEvent {
	var out []model.MacroEvent
	for _, ev := range events {
		if ev.Importance < minImportance {
			continue
		}
		t, err := time.Parse("2006-01-02", ev.Date)
		if err != nil {
			t, err = time.Parse(time.RFC3339, ev.Date)
			if err != nil {
				continue
			}
		}
		out = append(out, model.MacroEvent{Name: ev.Event, Time: t, Importance: ev.Importance})
		if len(out) == maxMacroEvents {
			break
		}
	}
	return out
}
