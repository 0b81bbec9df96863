package model

// Tier is the lending-stickiness classification of an institutional holder.
// Lower values sort first: a direct lender beats a passive aggregator beats a
// generic asset manager.
type Tier int

const (
	TierDirect Tier = iota
	TierAggregator
	TierStandard
)

func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "Tier 1: Direct Lender (Priority)"
	case TierAggregator:
		return "Tier 2: Aggregator"
	default:
		return "Tier 3: Asset Manager"
	}
}

// Short is the compact label used in tables and report cells.
func (t Tier) Short() string {
	switch t {
	case TierDirect:
		return "DIRECT"
	case TierAggregator:
		return "AGGREGATOR"
	default:
		return "STANDARD"
	}
}
