package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/blockchain"
)

type Config struct {
	Chain   ChainConfig
	Mine    MineConfig
	Sim     SimConfig
	Metrics MetricsConfig
	Log     LogConfig
	Output  OutputConfig
}

type ChainConfig struct {
	Blocks     int
	Difficulty int
	VerifyFull bool
	Tamper     bool
}

type MineConfig struct {
	Workers     int    // 0 = one per CPU
	MaxAttempts uint64 // 0 = unbounded
	Data        string
	Timeout     time.Duration
}

type SimConfig struct {
	Seed int64 // 0 = seeded from the clock
}

type MetricsConfig struct {
	ListenAddr string
}

type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // json|text
}

type OutputConfig struct {
	Format string // text|json
}

const maxBlocks = 10000

func Default() Config {
	return Config{
		Chain: ChainConfig{
			Blocks:     3,
			Difficulty: blockchain.DefaultDifficulty,
		},
		Mine: MineConfig{
			Workers: 1,
			Data:    "Some transaction data",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

type Parsed struct {
	Config Config
	Args   []string
}

// Parse reads flags for the named subcommand, falling back to POWCHAIN_*
// environment variables and then to Default.
func Parse(name string, args []string, out io.Writer) (Parsed, error) {
	cfg := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)

	var (
		blocks     = fs.Int("chain.blocks", envOrInt("POWCHAIN_BLOCKS", cfg.Chain.Blocks), "Number of blocks to mine, genesis included")
		difficulty = fs.Int("chain.difficulty", envOrInt("POWCHAIN_DIFFICULTY", cfg.Chain.Difficulty), "Required leading zero hex digits per block hash")
		verifyFull = fs.Bool("verify.full", envOrBool("POWCHAIN_VERIFY_FULL", cfg.Chain.VerifyFull), "Also recompute every block hash and difficulty during validation")
		tamper     = fs.Bool("demo.tamper", envOrBool("POWCHAIN_DEMO_TAMPER", cfg.Chain.Tamper), "After validation, tamper with the chain and validate again")

		workers     = fs.Int("mine.workers", envOrInt("POWCHAIN_WORKERS", cfg.Mine.Workers), "Nonce search goroutines per block (0 = one per CPU)")
		maxAttempts = fs.Uint64("mine.maxAttempts", envOrUint64("POWCHAIN_MAX_ATTEMPTS", cfg.Mine.MaxAttempts), "Abort a block after this many hash attempts (0 = unbounded)")
		data        = fs.String("mine.data", envOr("POWCHAIN_MINE_DATA", cfg.Mine.Data), "Payload of the block mined by the mine subcommand")
		timeout     = fs.Duration("mine.timeout", envOrDuration("POWCHAIN_MINE_TIMEOUT", cfg.Mine.Timeout), "Abort mining after this long (0 = no limit)")

		seed = fs.Int64("sim.seed", envOrInt64("POWCHAIN_SIM_SEED", cfg.Sim.Seed), "Seed for the consensus simulator (0 = time-based)")

		metricsListen = fs.String("metrics.listen", envOr("POWCHAIN_METRICS_LISTEN", cfg.Metrics.ListenAddr), "Serve Prometheus metrics on this address after the run (empty = disabled)")

		logLevel  = fs.String("log.level", envOr("POWCHAIN_LOG_LEVEL", cfg.Log.Level), "Log level: debug|info|warn|error")
		logFormat = fs.String("log.format", envOr("POWCHAIN_LOG_FORMAT", cfg.Log.Format), "Log format: json|text")

		outFormat = fs.String("output.format", envOr("POWCHAIN_OUTPUT_FORMAT", cfg.Output.Format), "Report format: text|json")
	)

	if err := fs.Parse(args); err != nil {
		return Parsed{}, err
	}

	cfg.Chain.Blocks = *blocks
	cfg.Chain.Difficulty = *difficulty
	cfg.Chain.VerifyFull = *verifyFull
	cfg.Chain.Tamper = *tamper

	cfg.Mine.Workers = *workers
	cfg.Mine.MaxAttempts = *maxAttempts
	cfg.Mine.Data = *data
	cfg.Mine.Timeout = *timeout

	cfg.Sim.Seed = *seed
	cfg.Metrics.ListenAddr = strings.TrimSpace(*metricsListen)
	cfg.Log.Level = strings.TrimSpace(*logLevel)
	cfg.Log.Format = strings.TrimSpace(*logFormat)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(*outFormat))

	if err := validate(cfg); err != nil {
		return Parsed{}, err
	}

	return Parsed{Config: cfg, Args: fs.Args()}, nil
}

func validate(cfg Config) error {
	if cfg.Chain.Blocks < 1 || cfg.Chain.Blocks > maxBlocks {
		return fmt.Errorf("chain.blocks out of range: %d (want 1..%d)", cfg.Chain.Blocks, maxBlocks)
	}
	if err := blockchain.ValidateDifficulty(cfg.Chain.Difficulty); err != nil {
		return fmt.Errorf("chain.difficulty: %w", err)
	}
	if cfg.Mine.Workers < 0 || cfg.Mine.Workers > 1024 {
		return fmt.Errorf("mine.workers out of range: %d", cfg.Mine.Workers)
	}
	if cfg.Mine.Timeout < 0 {
		return errors.New("mine.timeout must not be negative")
	}
	if cfg.Chain.Tamper && cfg.Chain.Blocks < 3 {
		return errors.New("demo.tamper needs chain.blocks >= 3")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", cfg.Log.Level)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log.format: %q", cfg.Log.Format)
	}

	switch cfg.Output.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid output.format: %q", cfg.Output.Format)
	}
	return nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envOrInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envOrUint64(key string, def uint64) uint64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envOrDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envOrBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
