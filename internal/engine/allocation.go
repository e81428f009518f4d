package engine

import "CryptoBuckets/internal/model"

// Allocate maps BTC dominance and the alt season index to a three-bucket
// split. First matching branch wins. Dominance in [60,61) with a cool alt
// index matches neither directional branch and lands on the neutral split;
// that gap is deliberate and pinned by tests.
func Allocate(btcDominance, altSeasonIndex float64) model.Allocation {
	switch {
	case btcDominance >= 61 && altSeasonIndex < 50:
		return model.Allocation{BTC: 70, Alts: 25, Stables: 5, Phase: "BTC dominant phase"}
	case btcDominance < 60 && altSeasonIndex >= 50:
		return model.Allocation{BTC: 45, Alts: 50, Stables: 5, Phase: "Alt season phase"}
	default:
		return model.Allocation{BTC: 60, Alts: 35, Stables: 5, Phase: "Neutral phase"}
	}
}
