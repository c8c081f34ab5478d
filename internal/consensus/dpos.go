package consensus

import "fmt"

// DPoS selects the delegate with the most votes.
type DPoS struct{}

func NewDPoS() *DPoS { return &DPoS{} }

func (d *DPoS) Name() string     { return "Delegated Proof of Stake" }
func (d *DPoS) Criteria() string { return "Most votes from token holders" }

func (d *DPoS) Select(delegates []Candidate) (Candidate, error) {
	return SelectMax(delegates)
}

// Vote records a voter backing a delegate with its voting power.
type Vote struct {
	Voter    string `json:"voter"`
	Delegate string `json:"delegate"`
	Power    uint64 `json:"power"`
}

// Tally adds each vote's power to the named delegate's weight and returns
// the updated delegates. The input slice is not modified.
func Tally(delegates []Candidate, votes []Vote) ([]Candidate, error) {
	out := make([]Candidate, len(delegates))
	copy(out, delegates)

	idx := make(map[string]int, len(out))
	for i, d := range out {
		idx[d.ID] = i
	}
	for _, v := range votes {
		i, ok := idx[v.Delegate]
		if !ok {
			return nil, fmt.Errorf("vote from %s for unknown delegate %q", v.Voter, v.Delegate)
		}
		out[i].Weight += v.Power
	}
	return out, nil
}
