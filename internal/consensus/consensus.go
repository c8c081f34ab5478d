package consensus

import (
	"errors"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/blockchain"
)

// Engine validates a single block under a consensus rule.
type Engine interface {
	ValidateBlock(b blockchain.Block) error
}

var (
	ErrInvalidConsensus = errors.New("invalid consensus")
	ErrNoCandidates     = errors.New("no candidates")
)

// Candidate is a labeled participant competing for block production.
// Weight is hash power, stake or votes depending on the strategy.
type Candidate struct {
	ID     string `json:"id"`
	Weight uint64 `json:"weight"`
}

// Strategy picks the block producer from a set of candidates.
type Strategy interface {
	Name() string
	Criteria() string
	Select(cands []Candidate) (Candidate, error)
}

// SelectMax returns the candidate with the largest weight. Ties go to the
// earliest candidate.
func SelectMax(cands []Candidate) (Candidate, error) {
	if len(cands) == 0 {
		return Candidate{}, ErrNoCandidates
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Weight > best.Weight {
			best = c
		}
	}
	return best, nil
}

func totalWeight(cands []Candidate) uint64 {
	var sum uint64
	for _, c := range cands {
		sum += c.Weight
	}
	return sum
}
