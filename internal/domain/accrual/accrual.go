package accrual

import (
	"time"

	"github.com/stakepoint-labs/backend/internal/client"
)

// Compute returns the fractional points a staker earned between the claim
// checkpoint and now, given the tokens currently held and the rate table of
// the collection. The result is never negative; a checkpoint at or after now
// yields zero, which absorbs clock skew and double invocations.
func Compute(
	checkpoint, now time.Time,
	tokens []client.HeldToken,
	table *RateTable,
) float64 {
	if !now.After(checkpoint) {
		return 0
	}

	elapsed := now.Sub(checkpoint)

	var points float64
	for _, token := range tokens {
		for _, trait := range token.Traits {
			rate, unit, ok := table.Resolve(trait.Type, trait.Value)
			if !ok {
				continue
			}

			points += rate * elapsed.Seconds() / unit.Seconds()
		}
	}

	if points < 0 {
		return 0
	}

	return points
}

// CommitAmount converts a computed accrual to the whole-point amount that a
// claim persists. Fractions are not committed; they keep accruing until they
// pass the minimum threshold together with newly elapsed time.
func CommitAmount(points float64) uint64 {
	if points < 0 {
		return 0
	}

	return uint64(points)
}
