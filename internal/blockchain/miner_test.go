package blockchain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

type recordingObserver struct {
	mu     sync.Mutex
	mined  []Result
	failed []error
}

func (o *recordingObserver) BlockMined(_ int, res Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mined = append(o.mined, res)
}

func (o *recordingObserver) MiningFailed(_ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, err)
}

func TestMineFindsSmallestNonce(t *testing.T) {
	h := testHeader("Some transaction data")
	res, err := Mine(h, 2)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if Digest(h, res.Nonce) != res.Hash {
		t.Fatalf("result hash is not the digest at the returned nonce")
	}
	for n := uint64(0); n < res.Nonce; n++ {
		if MeetsDifficulty(Digest(h, n), 2) {
			t.Fatalf("nonce %d already satisfied difficulty, search returned %d", n, res.Nonce)
		}
	}
}

func TestMineAttemptsGrowWithDifficulty(t *testing.T) {
	const trials = 40
	avg := func(d int) float64 {
		var total uint64
		for i := 0; i < trials; i++ {
			res, err := Mine(testHeader(fmt.Sprintf("trial-%d", i)), d)
			if err != nil {
				t.Fatalf("difficulty %d trial %d: %v", d, i, err)
			}
			total += res.Attempts
		}
		return float64(total) / trials
	}

	a1, a2 := avg(1), avg(2)
	if a2 <= a1 {
		t.Fatalf("average attempts at d=2 (%.1f) not above d=1 (%.1f)", a2, a1)
	}
}

func TestMinerBudgetExceeded(t *testing.T) {
	obs := &recordingObserver{}
	m := &Miner{Difficulty: 10, MaxAttempts: 16, Observer: obs}

	_, err := m.Mine(context.Background(), testHeader("budget"))
	if !errors.Is(err, ErrMiningBudgetExceeded) {
		t.Fatalf("got %v, want ErrMiningBudgetExceeded", err)
	}
	if len(obs.failed) != 1 || len(obs.mined) != 0 {
		t.Fatalf("observer saw %d failures and %d successes", len(obs.failed), len(obs.mined))
	}
}

func TestMinerBudgetLargeEnough(t *testing.T) {
	m := &Miner{Difficulty: 0, MaxAttempts: 1}
	res, err := m.Mine(context.Background(), testHeader("one shot"))
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if res.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", res.Attempts)
	}
}

func TestMineParallel(t *testing.T) {
	h := testHeader("parallel")
	for _, workers := range []int{2, 4, 7} {
		res, err := MineParallel(context.Background(), h, 3, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !MeetsDifficulty(res.Hash, 3) {
			t.Fatalf("workers=%d: hash %s lacks prefix", workers, res.Hash)
		}
		if Digest(h, res.Nonce) != res.Hash {
			t.Fatalf("workers=%d: hash is not the digest at nonce %d", workers, res.Nonce)
		}
		if res.Attempts == 0 {
			t.Fatalf("workers=%d: attempts not counted", workers)
		}
	}
}

func TestMineParallelBudgetExceeded(t *testing.T) {
	m := &Miner{Difficulty: 10, MaxAttempts: 64, Workers: 4}
	_, err := m.Mine(context.Background(), testHeader("parallel budget"))
	if !errors.Is(err, ErrMiningBudgetExceeded) {
		t.Fatalf("got %v, want ErrMiningBudgetExceeded", err)
	}
}

func TestMineAbortedByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		m := &Miner{Difficulty: 12, Workers: workers}
		_, err := m.Mine(ctx, testHeader("cancelled"))
		if !errors.Is(err, ErrMiningAborted) {
			t.Fatalf("workers=%d: got %v, want ErrMiningAborted", workers, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: got %v, want wrapped context.Canceled", workers, err)
		}
	}
}

func TestMinerRejectsInvalidDifficulty(t *testing.T) {
	m := &Miner{Difficulty: MaxDifficulty + 1, Workers: 2}
	if _, err := m.Mine(context.Background(), testHeader("x")); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("got %v, want ErrInvalidDifficulty", err)
	}
}

func TestMinerNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	m := &Miner{Difficulty: 1, Observer: obs}
	res, err := m.Mine(context.Background(), testHeader("observed"))
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(obs.mined) != 1 || obs.mined[0] != res {
		t.Fatalf("observer saw %+v, want [%+v]", obs.mined, res)
	}
}

func TestPerWorkerBudget(t *testing.T) {
	cases := []struct {
		total   uint64
		workers int
		want    []uint64
	}{
		{0, 4, []uint64{0, 0, 0, 0}},
		{10, 1, []uint64{10}},
		{10, 4, []uint64{3, 3, 2, 2}},
		{12, 4, []uint64{3, 3, 3, 3}},
	}
	for _, tc := range cases {
		var sum uint64
		for w, want := range tc.want {
			got := perWorkerBudget(tc.total, tc.workers, w)
			if got != want {
				t.Errorf("perWorkerBudget(%d, %d, %d) = %d, want %d", tc.total, tc.workers, w, got, want)
			}
			sum += got
		}
		if sum != tc.total {
			t.Errorf("shares of %d over %d workers sum to %d", tc.total, tc.workers, sum)
		}
	}
}

func TestParallelAttemptsStayWithinBudget(t *testing.T) {
	for _, tc := range []struct {
		budget  uint64
		workers int
	}{
		{1, 4},
		{3, 4},
		{10, 4},
		{5000, 3},
	} {
		m := &Miner{Difficulty: MaxDifficulty, MaxAttempts: tc.budget, Workers: tc.workers}
		_, err := m.Mine(context.Background(), testHeader("bounded"))
		if !errors.Is(err, ErrMiningBudgetExceeded) {
			t.Fatalf("budget=%d workers=%d: got %v, want ErrMiningBudgetExceeded", tc.budget, tc.workers, err)
		}
		want := fmt.Sprintf(": %d attempts", tc.budget)
		if !strings.HasSuffix(err.Error(), want) {
			t.Fatalf("budget=%d workers=%d: %q, want suffix %q", tc.budget, tc.workers, err, want)
		}
	}
}

func TestMineHonoursCancelledContextAtDifficultyZero(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		m := &Miner{Difficulty: 0, Workers: workers}
		res, err := m.Mine(ctx, testHeader("already cancelled"))
		if !errors.Is(err, ErrMiningAborted) || !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: got %+v, %v; want ErrMiningAborted", workers, res, err)
		}
	}
}
