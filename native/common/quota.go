package common

import "math"

// MintQuota defines the per-transaction and daily caps enforced on
// supervised mint flows. A zero cap disables that check.
type MintQuota struct {
	MaxPerTx  uint64
	MaxPerDay uint64
}

// MintUsage captures the rolling usage counters for a UTC day bucket.
type MintUsage struct {
	Day    uint64
	Minted uint64
}

// CheckMint verifies whether the additional amount fits within the quota
// for the supplied day, simulating the day rollover without persisting it.
// The returned MintUsage reflects the updated counters when the mint is
// allowed; on denial the previous counters are returned unchanged.
func CheckMint(q MintQuota, day uint64, prev MintUsage, amount uint64) (MintUsage, error) {
	if q.MaxPerTx > 0 && amount > q.MaxPerTx {
		return prev, ErrExceedsTransactionLimit
	}

	next := prev
	if day > prev.Day {
		next = MintUsage{Day: day}
	}
	next.Minted = SaturatingAdd(next.Minted, amount)
	if q.MaxPerDay > 0 && next.Minted > q.MaxPerDay {
		return prev, ErrExceedsDailyLimit
	}

	return next, nil
}

// SaturatingAdd clamps a+b at the maximum representable value instead of
// wrapping.
func SaturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
