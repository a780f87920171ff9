package farming

import "math/big"

// weightedShare apportions elapsed emission at rate down the weight tree. The
// division order is load bearing for rounding fidelity: the pool-level
// denominator divides first, then the category weight multiplies, then the
// category-level denominator divides.
func weightedShare(elapsed int64, rate *big.Int, poolAlloc, categoryPoolTotal, categoryAlloc, categoryTotal uint64) *big.Int {
	if elapsed <= 0 || rate == nil || rate.Sign() <= 0 {
		return big.NewInt(0)
	}
	if poolAlloc == 0 || categoryPoolTotal == 0 || categoryAlloc == 0 || categoryTotal == 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(big.NewInt(elapsed), rate)
	share.Mul(share, new(big.Int).SetUint64(poolAlloc))
	share.Quo(share, new(big.Int).SetUint64(categoryPoolTotal))
	share.Mul(share, new(big.Int).SetUint64(categoryAlloc))
	share.Quo(share, new(big.Int).SetUint64(categoryTotal))
	return share
}
