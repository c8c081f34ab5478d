package consensus

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/logging"
)

type weightRange struct{ lo, hi uint64 }

var (
	minerPower  = weightRange{100, 1000}
	stakeAmount = weightRange{1000, 10000}
	votingPower = weightRange{50, 500}
)

var (
	minerIDs    = []string{"Miner_A", "Miner_B", "Miner_C"}
	stakerIDs   = []string{"Staker_Alpha", "Staker_Beta", "Staker_Gamma"}
	delegateIDs = []string{"Delegate_X", "Delegate_Y", "Delegate_Z"}
	voterIDs    = []string{"Voter_1", "Voter_2", "Voter_3"}
)

// Outcome is the result of running one selection strategy.
type Outcome struct {
	Mechanism   string      `json:"mechanism"`
	Criteria    string      `json:"criteria"`
	Unit        string      `json:"unit"`
	Winner      Candidate   `json:"winner"`
	Candidates  []Candidate `json:"candidates"`
	Shares      []Share     `json:"shares,omitempty"`
	Explanation string      `json:"explanation"`
}

type Comparison struct {
	Votes []Vote  `json:"votes"`
	PoW   Outcome `json:"pow"`
	PoS   Outcome `json:"pos"`
	DPoS  Outcome `json:"dpos"`
}

func (c Comparison) Outcomes() []Outcome {
	return []Outcome{c.PoW, c.PoS, c.DPoS}
}

// Simulator draws random miners, stakers and voters from a seeded source and
// compares the three selection strategies over them. Equal seeds give equal
// comparisons.
type Simulator struct {
	rng *rand.Rand
	log *slog.Logger

	pow  *PoW
	pos  *PoS
	dpos *DPoS

	Miners    []Candidate
	Stakers   []Candidate
	Delegates []Candidate
	Voters    []Candidate
	Votes     []Vote
}

func NewSimulator(seed int64, log *slog.Logger) *Simulator {
	if log == nil {
		log = logging.Nop()
	}
	s := &Simulator{
		rng:  rand.New(rand.NewSource(seed)),
		log:  log,
		pow:  NewPoW(0),
		pos:  NewPoS(),
		dpos: NewDPoS(),
	}
	s.Reset()
	return s
}

// Reset re-rolls every participant and replays the delegate vote.
func (s *Simulator) Reset() {
	s.Miners = s.draw(minerIDs, minerPower)
	s.Stakers = s.draw(stakerIDs, stakeAmount)
	s.Voters = s.draw(voterIDs, votingPower)

	s.Delegates = make([]Candidate, len(delegateIDs))
	for i, id := range delegateIDs {
		s.Delegates[i] = Candidate{ID: id}
	}

	s.Votes = make([]Vote, 0, len(s.Voters))
	for _, v := range s.Voters {
		d := s.Delegates[s.rng.Intn(len(s.Delegates))]
		s.Votes = append(s.Votes, Vote{Voter: v.ID, Delegate: d.ID, Power: v.Weight})
		s.log.Debug("vote cast", "voter", v.ID, "delegate", d.ID, "power", v.Weight)
	}
	// Delegate IDs are fixed above, so Tally cannot fail here.
	s.Delegates, _ = Tally(s.Delegates, s.Votes)
}

func (s *Simulator) draw(ids []string, r weightRange) []Candidate {
	out := make([]Candidate, len(ids))
	for i, id := range ids {
		out[i] = Candidate{ID: id, Weight: r.lo + uint64(s.rng.Int63n(int64(r.hi-r.lo+1)))}
	}
	return out
}

// Compare runs PoW, PoS and DPoS selection over the current participants.
func (s *Simulator) Compare() (Comparison, error) {
	powOut, err := run(s.pow, s.Miners, "TH/s",
		"In Proof of Work, the miner with the highest computational power (hash rate) "+
			"has the best chance of solving the cryptographic puzzle first and mining the next block.")
	if err != nil {
		return Comparison{}, err
	}

	posOut, err := run(s.pos, s.Stakers, "tokens",
		"In Proof of Stake, validators are chosen to create new blocks based on their stake "+
			"in the network. Higher stake means a higher probability of being selected.")
	if err != nil {
		return Comparison{}, err
	}
	posOut.Shares = s.pos.Shares(s.Stakers)

	dposOut, err := run(s.dpos, s.Delegates, "votes",
		"In Delegated Proof of Stake, token holders vote for delegates who validate "+
			"transactions on their behalf. The delegates with the most votes become the active validators.")
	if err != nil {
		return Comparison{}, err
	}

	for _, o := range []Outcome{powOut, posOut, dposOut} {
		s.log.Info("validator selected", "mechanism", o.Mechanism, "winner", o.Winner.ID, "weight", o.Winner.Weight)
	}

	votes := make([]Vote, len(s.Votes))
	copy(votes, s.Votes)
	return Comparison{Votes: votes, PoW: powOut, PoS: posOut, DPoS: dposOut}, nil
}

func run(st Strategy, cands []Candidate, unit, explanation string) (Outcome, error) {
	w, err := st.Select(cands)
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", st.Name(), err)
	}
	cp := make([]Candidate, len(cands))
	copy(cp, cands)
	return Outcome{
		Mechanism:   st.Name(),
		Criteria:    st.Criteria(),
		Unit:        unit,
		Winner:      w,
		Candidates:  cp,
		Explanation: explanation,
	}, nil
}
