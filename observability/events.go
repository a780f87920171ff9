package observability

import (
	"math/big"

	"github.com/zprotocol/contracts/core/events"
	"github.com/zprotocol/contracts/observability/metrics"
)

// MetricsEmitter translates module events into Prometheus metrics. Install it
// on an engine via SetEmitter; it can chain to a downstream emitter so event
// sinks and metrics observe the same stream.
type MetricsEmitter struct {
	next events.Emitter
}

// NewMetricsEmitter wraps next with metrics recording. A nil next terminates
// the chain.
func NewMetricsEmitter(next events.Emitter) *MetricsEmitter {
	if next == nil {
		next = events.NoopEmitter{}
	}
	return &MetricsEmitter{next: next}
}

func (m *MetricsEmitter) Emit(evt events.Event) {
	switch e := evt.(type) {
	case events.FarmingDeposit:
		metrics.Farming().ObserveDeposit(e.PoolID)
		metrics.Farming().SetTotalStaked(e.PoolID, approx(e.Staked))
	case events.FarmingWithdraw:
		metrics.Farming().ObserveWithdraw(e.PoolID)
		metrics.Farming().SetTotalStaked(e.PoolID, approx(e.Staked))
	case events.FarmingEmergencyWithdraw:
		metrics.Farming().ObserveEmergencyWithdraw(e.PoolID)
		metrics.Farming().SetTotalStaked(e.PoolID, approx(e.Staked))
	case events.FarmingRewardPaid:
		metrics.Farming().ObserveRewardPaid()
	case events.FarmingRewardLocked:
		metrics.Farming().ObserveRewardBuffered()
	case events.FarmingEmissionUpdated:
		metrics.Farming().SetEmissionRate(approx(e.RatePerSecond))
	case events.TreasurerRewardLocked:
		metrics.Treasurer().ObserveRewardLocked()
		metrics.Treasurer().SetTotalLocked(approx(e.TotalLocked))
	case events.TreasurerRewardPaid:
		metrics.Treasurer().ObserveRewardInstant()
	case events.TreasurerClaimed:
		metrics.Treasurer().ObserveClaim()
		metrics.Treasurer().SetTotalLocked(approx(e.TotalLocked))
	case events.TreasurerExpressClaimed:
		metrics.Treasurer().ObserveExpressClaim()
		if e.Burned != nil && e.Burned.Sign() > 0 {
			metrics.Treasurer().ObserveBurn()
		}
		metrics.Treasurer().SetTotalLocked(approx(e.TotalLocked))
	}
	m.next.Emit(evt)
}

// approx renders a big amount as float64 for gauge export; precision loss is
// acceptable for monitoring.
func approx(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(amount).Float64()
	return f
}
