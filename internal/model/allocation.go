package model

// Allocation is the recommended BTC/ALTS/STABLES split in percent.
// The three buckets always sum to 100.
type Allocation struct {
	BTC     float64 `json:"btc"`
	Alts    float64 `json:"alts"`
	Stables float64 `json:"stables"`
	Phase   string  `json:"phase"`
}

// Equal reports whether two allocations prescribe the same split.
// The phase label is cosmetic and not compared.
func (a Allocation) Equal(b Allocation) bool {
	return a.BTC == b.BTC && a.Alts == b.Alts && a.Stables == b.Stables
}
