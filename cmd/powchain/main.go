package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/blockchain"
	"github.com/shrilakshmikakati/Blockchain-Internship/internal/config"
	"github.com/shrilakshmikakati/Blockchain-Internship/internal/consensus"
	"github.com/shrilakshmikakati/Blockchain-Internship/internal/logging"
	"github.com/shrilakshmikakati/Blockchain-Internship/internal/metrics"
	"github.com/shrilakshmikakati/Blockchain-Internship/pkg/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "chain":
		return runChain(args[1:], stdout, stderr)
	case "mine":
		return runMine(args[1:], stdout, stderr)
	case "consensus":
		return runConsensus(args[1:], stdout, stderr)
	case "version":
		return runVersion(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `powchain - proof-of-work chain demonstrator

Usage:
  powchain chain     [flags]   mine a chain, print it and validate the hash linkage
  powchain mine      [flags]   mine a single block and report the search statistics
  powchain consensus [flags]   compare PoW, PoS and DPoS validator selection
  powchain version

Run "powchain <command> -h" for flags. Every flag also reads a POWCHAIN_* env var.
`)
}

// env carries what every subcommand sets up from the parsed config.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
}

func setup(name string, args []string, stdout, stderr io.Writer) (*env, int) {
	parsed, err := config.Parse(name, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitOK
		}
		fmt.Fprintf(stderr, "powchain %s: %v\n", name, err)
		return nil, exitUsage
	}
	cfg := parsed.Config
	log := logging.NewWithWriter(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, stderr)
	return &env{cfg: cfg, log: log, stdout: stdout}, exitOK
}

func (e *env) miningContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if e.cfg.Mine.Timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, e.cfg.Mine.Timeout)
	return tctx, func() { cancel(); stop() }
}

func (e *env) miner(obs blockchain.Observer) *blockchain.Miner {
	workers := e.cfg.Mine.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return &blockchain.Miner{
		Difficulty:  e.cfg.Chain.Difficulty,
		MaxAttempts: e.cfg.Mine.MaxAttempts,
		Workers:     workers,
		Logger:      e.log,
		Observer:    obs,
	}
}

func runChain(args []string, stdout, stderr io.Writer) int {
	e, code := setup("chain", args, stdout, stderr)
	if e == nil {
		return code
	}

	mining := metrics.NewMining()
	ctx, cancel := e.miningContext()
	defer cancel()

	e.log.Info("mining chain", "blocks", e.cfg.Chain.Blocks, "difficulty", e.cfg.Chain.Difficulty)
	start := time.Now()
	chain, results, err := e.miner(mining).Build(ctx, nil, e.cfg.Chain.Blocks)
	if err != nil {
		e.log.Error("mining failed", "err", err)
		return exitFailure
	}
	e.log.Info("chain mined", "blocks", chain.Len(), "elapsed", time.Since(start))

	blocks := chain.Blocks()
	report := blockchain.MakeChainReport(blocks, results, chain.Difficulty())
	var integrityErr error
	if e.cfg.Chain.VerifyFull {
		integrityErr = chain.VerifyIntegrity()
		report.Integrity = integrityStatus(integrityErr)
	}

	if err := e.writeChain(report, blocks, results); err != nil {
		e.log.Error("write report", "err", err)
		return exitFailure
	}

	if e.cfg.Chain.Tamper {
		if err := tamperDemo(e.stdout, e.cfg.Output.Format, chain); err != nil {
			e.log.Error("tamper demo", "err", err)
			return exitFailure
		}
	}

	if e.cfg.Metrics.ListenAddr != "" {
		if err := serveMetrics(e.log, e.cfg.Metrics.ListenAddr, mining); err != nil {
			e.log.Error("metrics", "err", err)
			return exitFailure
		}
	}

	if !report.Valid || integrityErr != nil {
		return exitFailure
	}
	return exitOK
}

func (e *env) writeChain(report blockchain.ChainReport, blocks []blockchain.Block, results []blockchain.Result) error {
	if e.cfg.Output.Format == "json" {
		return blockchain.WriteJSON(e.stdout, report)
	}
	return renderChain(e.stdout, report, blocks, results)
}

func integrityStatus(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}

func runMine(args []string, stdout, stderr io.Writer) int {
	e, code := setup("mine", args, stdout, stderr)
	if e == nil {
		return code
	}

	mining := metrics.NewMining()
	ctx, cancel := e.miningContext()
	defer cancel()

	h := blockchain.Header{
		Index:     1,
		Timestamp: blockchain.SystemClock{}.Now(),
		Data:      e.cfg.Mine.Data,
		PrevHash:  blockchain.GenesisPrevHash,
	}

	if e.cfg.Output.Format == "text" {
		fmt.Fprintln(e.stdout, "Mining block...")
	}
	res, err := e.miner(mining).Mine(ctx, h)
	if err != nil {
		e.log.Error("mining failed", "err", err)
		return exitFailure
	}

	if e.cfg.Output.Format == "json" {
		if err := blockchain.WriteJSON(e.stdout, blockchain.MakeMinedRecord(h, res)); err != nil {
			e.log.Error("write report", "err", err)
			return exitFailure
		}
	} else {
		renderMined(e.stdout, res)
	}

	if e.cfg.Metrics.ListenAddr != "" {
		if err := serveMetrics(e.log, e.cfg.Metrics.ListenAddr, mining); err != nil {
			e.log.Error("metrics", "err", err)
			return exitFailure
		}
	}
	return exitOK
}

func runConsensus(args []string, stdout, stderr io.Writer) int {
	e, code := setup("consensus", args, stdout, stderr)
	if e == nil {
		return code
	}

	seed := e.cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.log.Debug("consensus simulation", "seed", seed)

	cmp, err := consensus.NewSimulator(seed, e.log).Compare()
	if err != nil {
		e.log.Error("compare", "err", err)
		return exitFailure
	}

	if e.cfg.Output.Format == "json" {
		err = blockchain.WriteJSON(e.stdout, cmp)
	} else {
		err = renderComparison(e.stdout, cmp)
	}
	if err != nil {
		e.log.Error("write report", "err", err)
		return exitFailure
	}
	return exitOK
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	e, code := setup("version", args, stdout, stderr)
	if e == nil {
		return code
	}
	v := version.Get()
	if e.cfg.Output.Format == "json" {
		if err := blockchain.WriteJSON(stdout, v); err != nil {
			return exitFailure
		}
		return exitOK
	}
	fmt.Fprintln(stdout, v.String())
	return exitOK
}
