package consensus

// PoS selects the staker with the largest stake.
type PoS struct{}

func NewPoS() *PoS { return &PoS{} }

func (p *PoS) Name() string     { return "Proof of Stake" }
func (p *PoS) Criteria() string { return "Probabilistic based on stake amount" }

func (p *PoS) Select(stakers []Candidate) (Candidate, error) {
	return SelectMax(stakers)
}

// Share is a staker's fraction of the total stake, in percent.
type Share struct {
	ID      string  `json:"id"`
	Percent float64 `json:"percent"`
}

// Shares returns each staker's selection probability proportional to stake.
// A zero total yields zero shares.
func (p *PoS) Shares(stakers []Candidate) []Share {
	total := totalWeight(stakers)
	out := make([]Share, 0, len(stakers))
	for _, s := range stakers {
		var pct float64
		if total > 0 {
			pct = float64(s.Weight) / float64(total) * 100
		}
		out = append(out, Share{ID: s.ID, Percent: pct})
	}
	return out
}
