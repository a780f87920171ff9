package observability

import (
	"math/big"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zprotocol/contracts/core/events"
)

type captureEmitter struct {
	seen []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) { c.seen = append(c.seen, evt) }

func TestMetricsEmitterChains(t *testing.T) {
	next := &captureEmitter{}
	emitter := NewMetricsEmitter(next)

	stream := []events.Event{
		events.FarmingDeposit{PoolID: 0, Amount: big.NewInt(100), Fee: big.NewInt(4)},
		events.FarmingRewardPaid{PoolID: 0, Amount: big.NewInt(900)},
		events.FarmingRewardLocked{PoolID: 0, Amount: big.NewInt(900)},
		events.FarmingEmissionUpdated{RatePerSecond: big.NewInt(10), DevRate: big.NewInt(1)},
		events.FarmingWithdraw{PoolID: 1, Amount: big.NewInt(50)},
		events.FarmingEmergencyWithdraw{PoolID: 1, Amount: big.NewInt(50)},
		events.TreasurerRewardLocked{Week: 104, Amount: big.NewInt(500)},
		events.TreasurerRewardPaid{Amount: big.NewInt(500)},
		events.TreasurerClaimed{Weeks: []uint64{104}, Amount: big.NewInt(500)},
		events.TreasurerExpressClaimed{Weeks: []uint64{105}, Paid: big.NewInt(80), Burned: big.NewInt(20)},
		events.IFOCommitted{Amount: big.NewInt(600)},
	}
	for _, evt := range stream {
		emitter.Emit(evt)
	}
	if len(next.seen) != len(stream) {
		t.Fatalf("forwarded %d events, want %d", len(next.seen), len(stream))
	}
	for i, evt := range stream {
		if next.seen[i].EventType() != evt.EventType() {
			t.Fatalf("event %d forwarded as %s, want %s", i, next.seen[i].EventType(), evt.EventType())
		}
	}
}

func TestMetricsEmitterNilNext(t *testing.T) {
	emitter := NewMetricsEmitter(nil)
	emitter.Emit(events.TreasurerRewardPaid{Amount: big.NewInt(1)})
}

func TestMetricsEmitterSetsGauges(t *testing.T) {
	emitter := NewMetricsEmitter(nil)
	emitter.Emit(events.TreasurerRewardLocked{Week: 104, Amount: big.NewInt(500), TotalLocked: big.NewInt(12345)})
	emitter.Emit(events.FarmingDeposit{PoolID: 0, Amount: big.NewInt(10000), Fee: big.NewInt(400), Staked: big.NewInt(9600)})
	emitter.Emit(events.FarmingWithdraw{PoolID: 1, Amount: big.NewInt(50), Staked: big.NewInt(0)})

	expected := strings.NewReader(`
# HELP farming_total_staked Staked principal per pool.
# TYPE farming_total_staked gauge
farming_total_staked{pool="0"} 9600
farming_total_staked{pool="1"} 0
# HELP treasurer_total_locked Aggregate locked amount across all week buckets.
# TYPE treasurer_total_locked gauge
treasurer_total_locked 12345
`)
	if err := testutil.GatherAndCompare(prometheus.DefaultGatherer, expected, "farming_total_staked", "treasurer_total_locked"); err != nil {
		t.Fatalf("gauges not recorded: %v", err)
	}

	emitter.Emit(events.TreasurerClaimed{Weeks: []uint64{104}, Amount: big.NewInt(500), TotalLocked: big.NewInt(0)})
	expected = strings.NewReader(`
# HELP treasurer_total_locked Aggregate locked amount across all week buckets.
# TYPE treasurer_total_locked gauge
treasurer_total_locked 0
`)
	if err := testutil.GatherAndCompare(prometheus.DefaultGatherer, expected, "treasurer_total_locked"); err != nil {
		t.Fatalf("claim did not move the gauge: %v", err)
	}
}
