package blockchain

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	vcrypto "github.com/shrilakshmikakati/Blockchain-Internship/internal/crypto"
)

var (
	ErrMiningBudgetExceeded = errors.New("mining aborted: attempt budget exceeded")
	ErrMiningAborted        = errors.New("mining aborted")
)

// cancelCheckEvery is how many digests a worker computes between
// cancellation checks. Must be a power of two.
const cancelCheckEvery = 1 << 12

// Result is the outcome of a successful nonce search.
type Result struct {
	Nonce    uint64
	Hash     string
	Attempts uint64
	Elapsed  time.Duration
}

// Observer receives mining outcomes, e.g. for metrics.
type Observer interface {
	BlockMined(difficulty int, res Result)
	MiningFailed(difficulty int, err error)
}

// Miner configures a nonce search. The zero value mines sequentially at
// difficulty 0 with no attempt budget.
type Miner struct {
	Difficulty int

	// MaxAttempts bounds the number of digests computed across all workers.
	// 0 means unbounded.
	MaxAttempts uint64

	// Workers > 1 partitions the nonce space across goroutines.
	Workers int

	Logger   *slog.Logger
	Observer Observer
}

// Mine runs the baseline search: nonce 0, 1, 2, ... until the digest of
// (h, nonce) has difficulty leading zero hex digits.
func Mine(h Header, difficulty int) (Result, error) {
	m := Miner{Difficulty: difficulty}
	return m.Mine(context.Background(), h)
}

// MineParallel splits the search across workers goroutines and returns the
// first valid nonce found, which is not necessarily the smallest.
func MineParallel(ctx context.Context, h Header, difficulty, workers int) (Result, error) {
	m := Miner{Difficulty: difficulty, Workers: workers}
	return m.Mine(ctx, h)
}

func (m *Miner) Mine(ctx context.Context, h Header) (Result, error) {
	if err := ValidateDifficulty(m.Difficulty); err != nil {
		return Result{}, err
	}

	var (
		res Result
		err error
	)
	if m.Workers > 1 {
		res, err = m.mineParallel(ctx, h)
	} else {
		res, err = m.mineSequential(ctx, h)
	}

	if err != nil {
		if m.Observer != nil {
			m.Observer.MiningFailed(m.Difficulty, err)
		}
		if m.Logger != nil {
			m.Logger.Warn("mining failed", "index", h.Index, "difficulty", m.Difficulty, "err", err)
		}
		return Result{}, err
	}

	if m.Observer != nil {
		m.Observer.BlockMined(m.Difficulty, res)
	}
	if m.Logger != nil {
		m.Logger.Debug("block mined",
			"index", h.Index,
			"difficulty", m.Difficulty,
			"nonce", res.Nonce,
			"attempts", res.Attempts,
			"elapsed", res.Elapsed,
		)
	}
	return res, nil
}

func (m *Miner) mineSequential(ctx context.Context, h Header) (Result, error) {
	start := time.Now()
	s := newSearch(h, m.Difficulty, 0, 1, m.MaxAttempts)
	nonce, sum, err := s.run(ctx, nil)
	if err != nil {
		return Result{}, wrapSearchErr(err, s.attempts)
	}
	return Result{
		Nonce:    nonce,
		Hash:     vcrypto.Hex32(sum),
		Attempts: s.attempts,
		Elapsed:  time.Since(start),
	}, nil
}

func (m *Miner) mineParallel(parent context.Context, h Header) (Result, error) {
	start := time.Now()
	workers := m.Workers
	if m.MaxAttempts > 0 && uint64(workers) > m.MaxAttempts {
		workers = int(m.MaxAttempts)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var (
		once     sync.Once
		won      bool
		winNonce uint64
		winSum   [32]byte
		attempts atomic.Uint64
		found    atomic.Bool
	)

	for w := 0; w < workers; w++ {
		s := newSearch(h, m.Difficulty, uint64(w), uint64(workers), perWorkerBudget(m.MaxAttempts, workers, w))
		g.Go(func() error {
			nonce, sum, err := s.run(gctx, &found)
			attempts.Add(s.attempts)
			if err != nil {
				// Budget exhaustion and cancellation are resolved after Wait.
				if errors.Is(err, ErrMiningBudgetExceeded) || errors.Is(err, errStopped) || gctx.Err() != nil {
					return nil
				}
				return err
			}
			once.Do(func() {
				won, winNonce, winSum = true, nonce, sum
				found.Store(true)
				cancel()
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if !won {
		if err := parent.Err(); err != nil {
			return Result{}, fmt.Errorf("%w after %d attempts: %w", ErrMiningAborted, attempts.Load(), err)
		}
		return Result{}, fmt.Errorf("%w: %d attempts", ErrMiningBudgetExceeded, attempts.Load())
	}
	return Result{
		Nonce:    winNonce,
		Hash:     vcrypto.Hex32(winSum),
		Attempts: attempts.Load(),
		Elapsed:  time.Since(start),
	}, nil
}

// perWorkerBudget is worker w's share of total. Shares sum to total; the
// first total%workers workers take one extra digest.
func perWorkerBudget(total uint64, workers, w int) uint64 {
	if total == 0 || workers <= 1 {
		return total
	}
	n := uint64(workers)
	share := total / n
	if uint64(w) < total%n {
		share++
	}
	return share
}

var errStopped = errors.New("search stopped")

func wrapSearchErr(err error, attempts uint64) error {
	switch {
	case errors.Is(err, ErrMiningBudgetExceeded):
		return fmt.Errorf("%w: %d attempts", ErrMiningBudgetExceeded, attempts)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w after %d attempts: %w", ErrMiningAborted, attempts, err)
	default:
		return err
	}
}

// search walks nonces start, start+stride, start+2*stride, ...
type search struct {
	prefix     []byte
	buf        []byte
	difficulty int
	start      uint64
	stride     uint64
	budget     uint64
	attempts   uint64
}

func newSearch(h Header, difficulty int, start, stride, budget uint64) *search {
	p := h.prefix()
	return &search{
		prefix:     p,
		buf:        make([]byte, 0, len(p)+20),
		difficulty: difficulty,
		start:      start,
		stride:     stride,
		budget:     budget,
	}
}

func (s *search) sum(nonce uint64) [32]byte {
	s.buf = append(s.buf[:0], s.prefix...)
	s.buf = strconv.AppendUint(s.buf, nonce, 10)
	return sha256.Sum256(s.buf)
}

func (s *search) run(ctx context.Context, stop *atomic.Bool) (uint64, [32]byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, [32]byte{}, err
	}
	for nonce := s.start; ; nonce += s.stride {
		if s.budget > 0 && s.attempts >= s.budget {
			return 0, [32]byte{}, ErrMiningBudgetExceeded
		}
		if s.attempts&(cancelCheckEvery-1) == 0 && s.attempts > 0 {
			if stop != nil && stop.Load() {
				return 0, [32]byte{}, errStopped
			}
			if err := ctx.Err(); err != nil {
				return 0, [32]byte{}, err
			}
		}
		s.attempts++
		sum := s.sum(nonce)
		if vcrypto.LeadingZeroNibbles(sum, s.difficulty) {
			return nonce, sum, nil
		}
	}
}
