package blockchain

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrBlockOutOfRange = errors.New("block index out of range")

// Chain is an append-only sequence of mined blocks. Block i is mined over
// the finalized hash of block i-1, so appends are strictly sequential.
type Chain struct {
	mu sync.RWMutex

	miner  *Miner
	clock  Clock
	blocks []Block
}

// New returns an empty chain that mines with m. A nil miner mines at
// DefaultDifficulty; a nil clock uses the system clock.
func New(m *Miner, clock Clock) *Chain {
	if m == nil {
		m = &Miner{Difficulty: DefaultDifficulty}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Chain{miner: m, clock: clock}
}

func (c *Chain) Difficulty() int { return c.miner.Difficulty }

// Append mines a block carrying data and links it to the current tip. The
// first block appended is the genesis block and references GenesisPrevHash.
func (c *Chain) Append(ctx context.Context, data string) (Block, Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := GenesisPrevHash
	if n := len(c.blocks); n > 0 {
		prev = c.blocks[n-1].hash
	}

	h := Header{
		Index:     uint64(len(c.blocks)),
		Timestamp: c.clock.Now(),
		Data:      data,
		PrevHash:  prev,
	}
	res, err := c.miner.Mine(ctx, h)
	if err != nil {
		return Block{}, Result{}, fmt.Errorf("mine block %d: %w", h.Index, err)
	}

	b := sealed(h, res)
	c.blocks = append(c.blocks, b)
	return b, res, nil
}

func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Blocks returns a copy of the chain's blocks in order.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

func (c *Chain) Block(i int) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.blocks) {
		return Block{}, false
	}
	return c.blocks[i], true
}

func (c *Chain) Tip() (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.blocks) == 0 {
		return Block{}, false
	}
	return c.blocks[len(c.blocks)-1], true
}

// Validate checks hash linkage only. See the package-level Validate.
func (c *Chain) Validate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Validate(c.blocks)
}

// VerifyIntegrity re-verifies every block at the chain's difficulty.
func (c *Chain) VerifyIntegrity() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return VerifyIntegrity(c.blocks, c.miner.Difficulty)
}

// TamperData overwrites the payload of block i without re-mining it.
// It exists to demonstrate tamper detection.
func (c *Chain) TamperData(i int, data string) error {
	return c.tamper(i, func(b *Block) { b.header.Data = data })
}

// TamperPrevHash overwrites the predecessor reference of block i without
// re-mining it.
func (c *Chain) TamperPrevHash(i int, prevHash string) error {
	return c.tamper(i, func(b *Block) { b.header.PrevHash = prevHash })
}

func (c *Chain) tamper(i int, fn func(*Block)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.blocks) {
		return fmt.Errorf("%w: %d (len %d)", ErrBlockOutOfRange, i, len(c.blocks))
	}
	fn(&c.blocks[i])
	return nil
}

// Build mines blockCount blocks: a genesis block followed by blocks whose
// payload is "Block <i> Data". It returns the per-block mining results.
func (m *Miner) Build(ctx context.Context, clock Clock, blockCount int) (*Chain, []Result, error) {
	if blockCount < 0 {
		return nil, nil, fmt.Errorf("block count must not be negative: %d", blockCount)
	}
	if err := ValidateDifficulty(m.Difficulty); err != nil {
		return nil, nil, err
	}

	c := New(m, clock)
	results := make([]Result, 0, blockCount)
	for i := 0; i < blockCount; i++ {
		_, res, err := c.Append(ctx, blockData(i))
		if err != nil {
			return nil, nil, err
		}
		results = append(results, res)
	}
	return c, results, nil
}

// BuildChain mines a chain of blockCount blocks at difficulty.
func BuildChain(blockCount, difficulty int) ([]Block, error) {
	m := &Miner{Difficulty: difficulty}
	c, _, err := m.Build(context.Background(), nil, blockCount)
	if err != nil {
		return nil, err
	}
	return c.Blocks(), nil
}

// CreateChain mines the three-block demonstration chain at DefaultDifficulty.
func CreateChain() ([]Block, error) {
	return BuildChain(3, DefaultDifficulty)
}

func blockData(i int) string {
	if i == 0 {
		return GenesisData
	}
	return fmt.Sprintf("Block %d Data", i)
}
