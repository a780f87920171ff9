package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type FarmingMetrics struct {
	deposits           *prometheus.CounterVec
	withdrawals        *prometheus.CounterVec
	emergencyWithdraws *prometheus.CounterVec
	rewardsPaid        prometheus.Counter
	rewardsBuffered    prometheus.Counter
	totalStaked        *prometheus.GaugeVec
	emissionRate       prometheus.Gauge
}

var (
	farmingOnce     sync.Once
	farmingRegistry *FarmingMetrics
)

func Farming() *FarmingMetrics {
	farmingOnce.Do(func() {
		farmingRegistry = &FarmingMetrics{
			deposits: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "farming_deposits_total",
				Help: "Count of deposits by pool.",
			}, []string{"pool"}),
			withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "farming_withdrawals_total",
				Help: "Count of withdrawals by pool.",
			}, []string{"pool"}),
			emergencyWithdraws: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "farming_emergency_withdraws_total",
				Help: "Count of emergency exits by pool.",
			}, []string{"pool"}),
			rewardsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "farming_rewards_paid_total",
				Help: "Count of reward payouts dispatched to the treasurer.",
			}),
			rewardsBuffered: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "farming_rewards_buffered_total",
				Help: "Count of payouts deferred by the harvest interval.",
			}),
			totalStaked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "farming_total_staked",
				Help: "Staked principal per pool.",
			}, []string{"pool"}),
			emissionRate: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "farming_emission_rate",
				Help: "Configured reward emission per second.",
			}),
		}
		prometheus.MustRegister(
			farmingRegistry.deposits,
			farmingRegistry.withdrawals,
			farmingRegistry.emergencyWithdraws,
			farmingRegistry.rewardsPaid,
			farmingRegistry.rewardsBuffered,
			farmingRegistry.totalStaked,
			farmingRegistry.emissionRate,
		)
	})
	return farmingRegistry
}

func poolLabel(poolID uint64) string {
	return fmt.Sprintf("%d", poolID)
}

func (m *FarmingMetrics) ObserveDeposit(poolID uint64) {
	if m == nil {
		return
	}
	m.deposits.WithLabelValues(poolLabel(poolID)).Inc()
}

func (m *FarmingMetrics) ObserveWithdraw(poolID uint64) {
	if m == nil {
		return
	}
	m.withdrawals.WithLabelValues(poolLabel(poolID)).Inc()
}

func (m *FarmingMetrics) ObserveEmergencyWithdraw(poolID uint64) {
	if m == nil {
		return
	}
	m.emergencyWithdraws.WithLabelValues(poolLabel(poolID)).Inc()
}

func (m *FarmingMetrics) ObserveRewardPaid() {
	if m == nil {
		return
	}
	m.rewardsPaid.Inc()
}

func (m *FarmingMetrics) ObserveRewardBuffered() {
	if m == nil {
		return
	}
	m.rewardsBuffered.Inc()
}

func (m *FarmingMetrics) SetTotalStaked(poolID uint64, amount float64) {
	if m == nil {
		return
	}
	m.totalStaked.WithLabelValues(poolLabel(poolID)).Set(amount)
}

func (m *FarmingMetrics) SetEmissionRate(rate float64) {
	if m == nil {
		return
	}
	m.emissionRate.Set(rate)
}
