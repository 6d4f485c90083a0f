package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the pool service.
type Metrics struct {
	Registry *prometheus.Registry

	OpsTotal     *prometheus.CounterVec
	SwapVolume   *prometheus.CounterVec
	FeesRetained *prometheus.CounterVec
	PoolReserves *prometheus.GaugeVec
	ShareSupply  prometheus.Gauge
	Paused       prometheus.Gauge
}

// New builds metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		OpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "poold",
				Subsystem: "pool",
				Name:      "operations_total",
				Help:      "Pool operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		SwapVolume: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "poold",
				Subsystem: "pool",
				Name:      "swap_volume_total",
				Help:      "Total swap input volume in token units",
			},
			[]string{"token"},
		),
		FeesRetained: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "poold",
				Subsystem: "pool",
				Name:      "fees_retained_total",
				Help:      "Swap fees retained by the pool in token units",
			},
			[]string{"token"},
		),
		PoolReserves: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "poold",
				Subsystem: "pool",
				Name:      "reserves",
				Help:      "Current accounted reserves in token units",
			},
			[]string{"token"},
		),
		ShareSupply: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "poold",
				Subsystem: "pool",
				Name:      "share_supply",
				Help:      "Outstanding liquidity shares",
			},
		),
		Paused: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "poold",
				Subsystem: "pool",
				Name:      "paused",
				Help:      "Pause state (0=active, 1=paused)",
			},
		),
	}
}

// RecordOp counts one operation attempt.
func (m *Metrics) RecordOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OpsTotal.WithLabelValues(operation, outcome).Inc()
}

// SetPoolState refreshes reserve and supply gauges from current accounting.
func (m *Metrics) SetPoolState(reserveBase, reserveQuote, totalShares *big.Int, paused bool) {
	m.PoolReserves.WithLabelValues("base").Set(bigToFloat(reserveBase))
	m.PoolReserves.WithLabelValues("quote").Set(bigToFloat(reserveQuote))
	m.ShareSupply.Set(bigToFloat(totalShares))
	if paused {
		m.Paused.Set(1)
	} else {
		m.Paused.Set(0)
	}
}

// AddSwapVolume records input volume and the retained fee for one swap.
func (m *Metrics) AddSwapVolume(token string, amountIn, fee *big.Int) {
	m.SwapVolume.WithLabelValues(token).Add(bigToFloat(amountIn))
	m.FeesRetained.WithLabelValues(token).Add(bigToFloat(fee))
}

func bigToFloat(value *big.Int) float64 {
	if value == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}
