package consensus

import (
	"fmt"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/blockchain"
)

// PoW validates proof-of-work on blocks and, as a Strategy, selects the
// miner with the most hash power.
type PoW struct {
	Difficulty int
}

func NewPoW(difficulty int) *PoW { return &PoW{Difficulty: difficulty} }

func (p *PoW) ValidateBlock(b blockchain.Block) error {
	if err := blockchain.CheckProof(b, p.Difficulty); err != nil {
		return fmt.Errorf("%w: block %d: %w", ErrInvalidConsensus, b.Index(), err)
	}
	return nil
}

// ValidateChain runs ValidateBlock over blocks and checks their linkage.
func (p *PoW) ValidateChain(blocks []blockchain.Block) error {
	for _, b := range blocks {
		if err := p.ValidateBlock(b); err != nil {
			return err
		}
	}
	if !blockchain.Validate(blocks) {
		return fmt.Errorf("%w: broken hash linkage", ErrInvalidConsensus)
	}
	return nil
}

func (p *PoW) Name() string     { return "Proof of Work" }
func (p *PoW) Criteria() string { return "Highest computational power" }

func (p *PoW) Select(miners []Candidate) (Candidate, error) {
	return SelectMax(miners)
}
