package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrilakshmikakati/Blockchain-Internship/internal/blockchain"
)

const namespace = "powchain"

// Mining collects nonce-search statistics. It satisfies blockchain.Observer.
type Mining struct {
	reg *prometheus.Registry

	blocks   *prometheus.CounterVec
	attempts *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ blockchain.Observer = (*Mining)(nil)

func NewMining() *Mining {
	m := &Mining{
		reg: prometheus.NewRegistry(),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_mined_total",
			Help:      "Blocks whose nonce search succeeded.",
		}, []string{"difficulty"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hash_attempts_total",
			Help:      "Digests computed by successful searches.",
		}, []string{"difficulty"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mining_failures_total",
			Help:      "Nonce searches that ended without a block.",
		}, []string{"reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mining_duration_seconds",
			Help:      "Wall-clock time of successful nonce searches.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"difficulty"}),
	}
	m.reg.MustRegister(m.blocks, m.attempts, m.failures, m.duration)
	return m
}

func (m *Mining) BlockMined(difficulty int, res blockchain.Result) {
	d := strconv.Itoa(difficulty)
	m.blocks.WithLabelValues(d).Inc()
	m.attempts.WithLabelValues(d).Add(float64(res.Attempts))
	m.duration.WithLabelValues(d).Observe(res.Elapsed.Seconds())
}

func (m *Mining) MiningFailed(_ int, err error) {
	m.failures.WithLabelValues(failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, blockchain.ErrMiningBudgetExceeded):
		return "budget"
	case errors.Is(err, blockchain.ErrMiningAborted):
		return "aborted"
	case errors.Is(err, blockchain.ErrInvalidDifficulty):
		return "difficulty"
	default:
		return "other"
	}
}

func (m *Mining) Registry() *prometheus.Registry { return m.reg }

func (m *Mining) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
