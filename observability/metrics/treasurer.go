package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type TreasurerMetrics struct {
	rewardsLocked  prometheus.Counter
	rewardsInstant prometheus.Counter
	claims         prometheus.Counter
	expressClaims  prometheus.Counter
	burned         prometheus.Counter
	totalLocked    prometheus.Gauge
}

var (
	treasurerOnce     sync.Once
	treasurerRegistry *TreasurerMetrics
)

func Treasurer() *TreasurerMetrics {
	treasurerOnce.Do(func() {
		treasurerRegistry = &TreasurerMetrics{
			rewardsLocked: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "treasurer_rewards_locked_total",
				Help: "Count of payout slices bucketed into week locks.",
			}),
			rewardsInstant: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "treasurer_rewards_instant_total",
				Help: "Count of instant payout slices transferred.",
			}),
			claims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "treasurer_claims_total",
				Help: "Count of matured claims paid out.",
			}),
			expressClaims: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "treasurer_express_claims_total",
				Help: "Count of express claims taken before maturity.",
			}),
			burned: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "treasurer_burned_total",
				Help: "Count of express-claim penalty burns executed.",
			}),
			totalLocked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "treasurer_total_locked",
				Help: "Aggregate locked amount across all week buckets.",
			}),
		}
		prometheus.MustRegister(
			treasurerRegistry.rewardsLocked,
			treasurerRegistry.rewardsInstant,
			treasurerRegistry.claims,
			treasurerRegistry.expressClaims,
			treasurerRegistry.burned,
			treasurerRegistry.totalLocked,
		)
	})
	return treasurerRegistry
}

func (m *TreasurerMetrics) ObserveRewardLocked() {
	if m == nil {
		return
	}
	m.rewardsLocked.Inc()
}

func (m *TreasurerMetrics) ObserveRewardInstant() {
	if m == nil {
		return
	}
	m.rewardsInstant.Inc()
}

func (m *TreasurerMetrics) ObserveClaim() {
	if m == nil {
		return
	}
	m.claims.Inc()
}

func (m *TreasurerMetrics) ObserveExpressClaim() {
	if m == nil {
		return
	}
	m.expressClaims.Inc()
}

func (m *TreasurerMetrics) ObserveBurn() {
	if m == nil {
		return
	}
	m.burned.Inc()
}

func (m *TreasurerMetrics) SetTotalLocked(amount float64) {
	if m == nil {
		return
	}
	m.totalLocked.Set(amount)
}
