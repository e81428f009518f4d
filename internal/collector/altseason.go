package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// altSeasonColumns are the header names tried for the index value, in order.
var altSeasonColumns = []string{"value", "index", "score", "alt_season_index"}

// FetchAltSeasonIndex returns the latest altcoin season index (0-100) from
// the BlockchainCenter CSV export. The most recent entry is the last row.
func (f *HTTPFetcher) FetchAltSeasonIndex(ctx context.Context) (float64, error) {
	body, err := f.getText(ctx, f.Endpoints.AltSeason)
	if err != nil {
		return 0, fmt.Errorf("alt season index: %w", err)
	}

	r := csv.NewReader(strings.NewReader(body))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("alt season index: parse csv: %w", err)
	}
	if len(records) < 2 {
		return 0, fmt.Errorf("alt season index: no data rows")
	}

	header := records[0]
	latest := records[len(records)-1]

	for _, col := range altSeasonColumns {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), col) && i < len(latest) {
				v, err := strconv.ParseFloat(strings.TrimSpace(latest[i]), 64)
				if err == nil {
					return v, nil
				}
			}
		}
	}

	// No known column name; take the first parseable numeric value.
	for _, cell := range latest {
		if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("alt season index: no numeric value in latest row")
}
